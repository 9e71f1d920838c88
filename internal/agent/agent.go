// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agent answers research questions by combining PubMed search
// results with a generative model, optionally exporting the answer as
// an Obsidian note.
package agent

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/pubmed-agent/internal/entrez"
	"github.com/pdiddy/pubmed-agent/internal/llm"
	"github.com/pdiddy/pubmed-agent/pkg/types"
)

// systemPrompt steers the model toward evidence-grounded synthesis.
const systemPrompt = `You are a specialized medical research assistant with deep expertise in evidence-based medicine.

When answering research questions:
1. Prioritize the highest quality evidence: meta-analyses, randomized controlled trials, systematic reviews.
2. Prefer the most recent research and note when findings are dated.
3. Synthesize information by organizing findings by themes, highlighting consensus and contradictions, and noting methodological strengths and limitations.
4. Use simple and direct language. Give concrete values to answer the question when possible.
5. Always provide citation details (first author, year, PMID) for claims drawn from the supplied articles.

Maintain scientific rigor and communicate findings using appropriate medical terminology.`

// Searcher is the PubMed lookup the agent needs, satisfied by
// *entrez.Client and mockable in tests.
type Searcher interface {
	Search(ctx context.Context, f entrez.Filters, opts entrez.SearchOptions) ([]types.Article, error)
}

// NoteExporter writes an answer into the Obsidian vault, satisfied by
// *vault.Exporter.
type NoteExporter interface {
	Export(ctx context.Context, query, response, model string, temperature float64, w io.Writer) (string, error)
}

// Options controls one Ask run.
type Options struct {
	// SkipSearch answers from the model alone, without PubMed context.
	SkipSearch bool

	// MaxArticles caps how many search results feed the prompt.
	MaxArticles int

	// Filters refine the PubMed search beyond the question text.
	Filters entrez.Filters

	// ExportNote writes the answer into the Obsidian vault.
	ExportNote bool
}

// Answer is the result of one Ask run.
type Answer struct {
	Text     string
	Model    string
	Elapsed  time.Duration
	Articles []types.Article
	// NotePath is set when the answer was exported to the vault.
	NotePath string
}

// Agent ties the search client and model provider into the ask pipeline.
type Agent struct {
	provider    llm.Provider
	searcher    Searcher
	exporter    NoteExporter
	temperature float64
}

// New builds an Agent. searcher and exporter may be nil when the
// corresponding Options never request them.
func New(provider llm.Provider, searcher Searcher, exporter NoteExporter, temperature float64) *Agent {
	return &Agent{
		provider:    provider,
		searcher:    searcher,
		exporter:    exporter,
		temperature: temperature,
	}
}

const defaultMaxArticles = 5

// Ask runs the question through the pipeline: search PubMed, build a
// synthesis prompt from the retrieved records, call the model, and
// optionally export the answer. Progress lines go to w.
func (a *Agent) Ask(ctx context.Context, question string, opts Options, w io.Writer) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, fmt.Errorf("empty question")
	}

	var articles []types.Article
	if !opts.SkipSearch {
		if a.searcher == nil {
			return Answer{}, fmt.Errorf("search requested but no PubMed client configured")
		}

		maxArticles := opts.MaxArticles
		if maxArticles <= 0 {
			maxArticles = defaultMaxArticles
		}

		filters := opts.Filters
		if filters.Query == "" {
			filters.Query = question
		}

		fmt.Fprintf(w, "searching PubMed...\n")
		found, err := a.searcher.Search(ctx, filters, entrez.SearchOptions{MaxResults: maxArticles})
		if err != nil {
			return Answer{}, fmt.Errorf("searching PubMed: %w", err)
		}
		articles = found
		fmt.Fprintf(w, "found %d articles\n", len(articles))
	}

	prompt := buildPrompt(question, articles)

	fmt.Fprintf(w, "generating answer...\n")
	resp, err := a.provider.Generate(ctx, llm.Request{System: systemPrompt, Prompt: prompt})
	if err != nil {
		return Answer{}, fmt.Errorf("generating answer: %w", err)
	}

	answer := Answer{
		Text:     resp.Text,
		Model:    resp.Model,
		Elapsed:  resp.Elapsed,
		Articles: articles,
	}

	if opts.ExportNote {
		if a.exporter == nil {
			return answer, fmt.Errorf("export requested but no vault configured")
		}
		path, err := a.exporter.Export(ctx, question, resp.Text, resp.Model, a.temperature, w)
		if err != nil {
			return answer, fmt.Errorf("exporting note: %w", err)
		}
		answer.NotePath = path
	}

	return answer, nil
}

// buildPrompt embeds the retrieved article records under the question.
// Without articles the question stands alone.
func buildPrompt(question string, articles []types.Article) string {
	if len(articles) == 0 {
		return question
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Research question: %s\n\n", question)
	fmt.Fprintf(&b, "The following %d PubMed articles were retrieved for this question. Base your answer on them, citing each article you use.\n\n", len(articles))

	for i, article := range articles {
		fmt.Fprintf(&b, "--- Article %d ---\n%s\n", i+1, entrez.Expanded(article))
	}

	return b.String()
}
