// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubmed-agent/internal/entrez"
	"github.com/pdiddy/pubmed-agent/pkg/types"
)

// mockStore records upserts and returns canned search hits.
type mockStore struct {
	ensured  bool
	upserted []Point
	hits     []Hit

	gotVector []float32
	gotTopK   uint64
}

func (m *mockStore) EnsureCollection(context.Context) error { m.ensured = true; return nil }

func (m *mockStore) Upsert(_ context.Context, points []Point) error {
	m.upserted = append(m.upserted, points...)
	return nil
}

func (m *mockStore) Search(_ context.Context, vector []float32, topK uint64) ([]Hit, error) {
	m.gotVector = vector
	m.gotTopK = topK
	return m.hits, nil
}

func (m *mockStore) Close() error { return nil }

// mockEmbedder returns a fixed-dimension vector per input text.
type mockEmbedder struct {
	calls [][]string
	err   error
}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	m.calls = append(m.calls, texts)
	if m.err != nil {
		return nil, m.err
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(i), 1.0}
	}
	return vectors, nil
}

func testBase(store *mockStore, embedder *mockEmbedder) *Base {
	return NewBase(store, embedder, types.KnowledgeConfig{
		ChunkSize:  100,
		MaxResults: 3,
	})
}

func TestLoadEmbedsAndUpserts(t *testing.T) {
	store := &mockStore{}
	embedder := &mockEmbedder{}
	base := testBase(store, embedder)

	articles := []types.Article{
		{PMID: "111", Title: "Short title", Abstract: "Short abstract."},
	}

	var buf strings.Builder
	summary, err := base.Load(context.Background(), articles, &buf)
	require.NoError(t, err)

	assert.True(t, store.ensured)
	assert.Equal(t, 1, summary.Loaded)
	assert.Equal(t, 1, summary.Chunks)
	require.Len(t, store.upserted, 1)
	assert.Equal(t, "111", store.upserted[0].PMID)
	assert.Equal(t, "Short title", store.upserted[0].Title)
	assert.Contains(t, store.upserted[0].Text, "Short abstract.")
	assert.Contains(t, buf.String(), "loaded  111 (1 chunks)")
}

func TestLoadSkipsMissingAbstract(t *testing.T) {
	store := &mockStore{}
	base := testBase(store, &mockEmbedder{})

	articles := []types.Article{
		{PMID: "111", Title: "With placeholder", Abstract: entrez.NoAbstract},
		{PMID: "222", Title: "Empty", Abstract: ""},
	}

	var buf strings.Builder
	summary, err := base.Load(context.Background(), articles, &buf)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Skipped)
	assert.Zero(t, summary.Loaded)
	assert.Empty(t, store.upserted)
}

func TestLoadChunkIDsDeterministic(t *testing.T) {
	article := types.Article{PMID: "111", Title: "Title", Abstract: "Abstract body."}

	first := &mockStore{}
	base := testBase(first, &mockEmbedder{})
	_, err := base.Load(context.Background(), []types.Article{article}, &strings.Builder{})
	require.NoError(t, err)

	second := &mockStore{}
	base = testBase(second, &mockEmbedder{})
	_, err = base.Load(context.Background(), []types.Article{article}, &strings.Builder{})
	require.NoError(t, err)

	require.Len(t, first.upserted, 1)
	require.Len(t, second.upserted, 1)
	assert.Equal(t, first.upserted[0].ID, second.upserted[0].ID)
}

func TestLoadEmbedError(t *testing.T) {
	base := testBase(&mockStore{}, &mockEmbedder{err: fmt.Errorf("model offline")})

	articles := []types.Article{{PMID: "111", Title: "T", Abstract: "A"}}
	_, err := base.Load(context.Background(), articles, &strings.Builder{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding article 111")
}

func TestQuery(t *testing.T) {
	store := &mockStore{hits: []Hit{
		{Text: "chunk one", PMID: "111", Title: "First", Score: 0.9},
		{Text: "chunk two", PMID: "222", Title: "Second", Score: 0.7},
	}}
	embedder := &mockEmbedder{}
	base := testBase(store, embedder)

	hits, err := base.Query(context.Background(), "what is known about sleep?")
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.Equal(t, "111", hits[0].PMID)
	assert.Equal(t, uint64(3), store.gotTopK)
	require.Len(t, embedder.calls, 1)
	assert.Equal(t, []string{"what is known about sleep?"}, embedder.calls[0])
}

func TestQueryEmptyQuestion(t *testing.T) {
	base := testBase(&mockStore{}, &mockEmbedder{})

	_, err := base.Query(context.Background(), "   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty question")
}

func TestChunkText(t *testing.T) {
	tests := []struct {
		name string
		text string
		size int
		want []string
	}{
		{
			name: "fits in one chunk",
			text: "short text",
			size: 100,
			want: []string{"short text"},
		},
		{
			name: "splits at word boundary",
			text: "alpha beta gamma delta",
			size: 12,
			want: []string{"alpha beta", "gamma delta"},
		},
		{
			name: "hard split without spaces",
			text: "abcdefghij",
			size: 4,
			want: []string{"abcd", "efgh", "ij"},
		},
		{
			name: "empty input",
			text: "   ",
			size: 10,
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, chunkText(tc.text, tc.size))
		})
	}
}
