// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/pubmed-agent/internal/entrez"
	"github.com/pdiddy/pubmed-agent/internal/llm"
	"github.com/pdiddy/pubmed-agent/pkg/types"
)

const (
	defaultChunkSize  = 1000
	defaultMaxResults = 5
)

// chunkNamespace seeds deterministic point IDs so re-loading an article
// overwrites its previous chunks instead of duplicating them.
var chunkNamespace = uuid.MustParse("8f7a1c2e-4b3d-4f5a-9c6e-1d2b3a4c5d6e")

// Base ties an embedder and a vector store into the knowledge base
// operations the CLI exposes.
type Base struct {
	store      VectorStore
	embedder   llm.Embedder
	chunkSize  int
	maxResults int
}

// NewBase builds a knowledge base over store and embedder.
func NewBase(store VectorStore, embedder llm.Embedder, cfg types.KnowledgeConfig) *Base {
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &Base{
		store:      store,
		embedder:   embedder,
		chunkSize:  chunkSize,
		maxResults: maxResults,
	}
}

// LoadSummary holds counts from a knowledge base load run.
type LoadSummary struct {
	Loaded  int
	Skipped int
	Chunks  int
}

// Load embeds each article's title and abstract and upserts the chunks
// into the collection. Articles without an abstract are skipped.
// Progress lines are written to w.
func (b *Base) Load(ctx context.Context, articles []types.Article, w io.Writer) (LoadSummary, error) {
	if err := b.store.EnsureCollection(ctx); err != nil {
		return LoadSummary{}, err
	}

	var summary LoadSummary

	for _, article := range articles {
		if article.Abstract == "" || article.Abstract == entrez.NoAbstract {
			fmt.Fprintf(w, "skipped %s (no abstract)\n", article.PMID)
			summary.Skipped++
			continue
		}

		text := article.Title + "\n\n" + article.Abstract
		chunks := chunkText(text, b.chunkSize)

		vectors, err := b.embedder.Embed(ctx, chunks)
		if err != nil {
			return summary, fmt.Errorf("embedding article %s: %w", article.PMID, err)
		}

		points := make([]Point, 0, len(chunks))
		for i, chunk := range chunks {
			points = append(points, Point{
				ID:     uuid.NewSHA1(chunkNamespace, []byte(fmt.Sprintf("%s/%d", article.PMID, i))),
				Vector: vectors[i],
				Text:   chunk,
				PMID:   article.PMID,
				Title:  article.Title,
			})
		}

		if err := b.store.Upsert(ctx, points); err != nil {
			return summary, fmt.Errorf("storing article %s: %w", article.PMID, err)
		}

		fmt.Fprintf(w, "loaded  %s (%d chunks)\n", article.PMID, len(chunks))
		summary.Loaded++
		summary.Chunks += len(chunks)
	}

	fmt.Fprintf(w, "\nloaded: %d, skipped: %d, chunks: %d\n",
		summary.Loaded, summary.Skipped, summary.Chunks)

	return summary, nil
}

// Query embeds the question and returns the most similar stored chunks.
func (b *Base) Query(ctx context.Context, question string) ([]Hit, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("empty question")
	}

	vectors, err := b.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("expected 1 question embedding, got %d", len(vectors))
	}

	return b.store.Search(ctx, vectors[0], uint64(b.maxResults))
}

// chunkText splits text into rune-bounded chunks of at most size runes,
// preferring to break at a space near the boundary.
func chunkText(text string, size int) []string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= size {
		return []string{string(runes)}
	}

	var chunks []string
	for start := 0; start < len(runes); {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, strings.TrimSpace(string(runes[start:])))
			break
		}

		// Walk back to the nearest space to avoid splitting a word.
		cut := end
		for cut > start && runes[cut] != ' ' {
			cut--
		}
		if cut == start {
			cut = end
		}

		chunk := strings.TrimSpace(string(runes[start:cut]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		start = cut
		for start < len(runes) && runes[start] == ' ' {
			start++
		}
	}
	return chunks
}
