// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// mockGeminiModels records calls and returns canned responses.
type mockGeminiModels struct {
	generateText string
	generateErr  error
	embedVectors [][]float32
	embedErr     error

	gotModel    string
	gotContents []*genai.Content
	gotConfig   *genai.GenerateContentConfig
}

func (m *mockGeminiModels) GenerateContent(_ context.Context, model string,
	contents []*genai.Content, config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	m.gotModel = model
	m.gotContents = contents
	m.gotConfig = config
	if m.generateErr != nil {
		return nil, m.generateErr
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: m.generateText}}}},
		},
	}, nil
}

func (m *mockGeminiModels) EmbedContent(_ context.Context, model string,
	contents []*genai.Content, _ *genai.EmbedContentConfig,
) (*genai.EmbedContentResponse, error) {
	m.gotModel = model
	m.gotContents = contents
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	embeddings := make([]*genai.ContentEmbedding, 0, len(m.embedVectors))
	for _, v := range m.embedVectors {
		embeddings = append(embeddings, &genai.ContentEmbedding{Values: v})
	}
	return &genai.EmbedContentResponse{Embeddings: embeddings}, nil
}

func TestGeminiGenerate(t *testing.T) {
	mock := &mockGeminiModels{generateText: "  the answer  \n"}
	provider := &gemini{models: mock, model: "gemini-2.0-flash", temperature: 0.7}

	resp, err := provider.Generate(context.Background(), Request{
		System: "You are a biomedical research assistant.",
		Prompt: "Summarize these articles.",
	})
	require.NoError(t, err)

	assert.Equal(t, "the answer", resp.Text)
	assert.Equal(t, "gemini-2.0-flash", resp.Model)
	assert.Equal(t, "gemini-2.0-flash", mock.gotModel)

	require.NotNil(t, mock.gotConfig)
	require.NotNil(t, mock.gotConfig.SystemInstruction)
	assert.Equal(t, "You are a biomedical research assistant.",
		mock.gotConfig.SystemInstruction.Parts[0].Text)
	require.NotNil(t, mock.gotConfig.Temperature)
	assert.InDelta(t, 0.7, float64(*mock.gotConfig.Temperature), 1e-6)
}

func TestGeminiGenerateNoSystemNoTemperature(t *testing.T) {
	mock := &mockGeminiModels{generateText: "ok"}
	provider := &gemini{models: mock, model: "gemini-2.0-flash"}

	_, err := provider.Generate(context.Background(), Request{Prompt: "hello"})
	require.NoError(t, err)

	assert.Nil(t, mock.gotConfig.SystemInstruction)
	assert.Nil(t, mock.gotConfig.Temperature)
}

func TestGeminiGenerateTemperatureOverride(t *testing.T) {
	mock := &mockGeminiModels{generateText: "ok"}
	provider := &gemini{models: mock, model: "gemini-2.0-flash", temperature: 1.0}

	override := 0.2
	_, err := provider.Generate(context.Background(), Request{
		Prompt:      "hello",
		Temperature: &override,
	})
	require.NoError(t, err)

	require.NotNil(t, mock.gotConfig.Temperature)
	assert.InDelta(t, 0.2, float64(*mock.gotConfig.Temperature), 1e-6)
}

func TestGeminiGenerateEmptyPrompt(t *testing.T) {
	provider := &gemini{models: &mockGeminiModels{}, model: "gemini-2.0-flash"}

	_, err := provider.Generate(context.Background(), Request{Prompt: "   "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty prompt")
}

func TestGeminiGenerateAPIError(t *testing.T) {
	mock := &mockGeminiModels{generateErr: fmt.Errorf("quota exceeded")}
	provider := &gemini{models: mock, model: "gemini-2.0-flash"}

	_, err := provider.Generate(context.Background(), Request{Prompt: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGeminiGenerateEmptyResponse(t *testing.T) {
	mock := &mockGeminiModels{generateText: ""}
	provider := &gemini{models: mock, model: "gemini-2.0-flash"}

	_, err := provider.Generate(context.Background(), Request{Prompt: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestGeminiEmbed(t *testing.T) {
	mock := &mockGeminiModels{embedVectors: [][]float32{
		{0.1, 0.2, 0.3},
		{0.4, 0.5, 0.6},
	}}
	embedder := &geminiEmbedder{models: mock, model: "text-embedding-004"}

	vectors, err := embedder.Embed(context.Background(), []string{"first", "second"})
	require.NoError(t, err)

	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vectors[0])
	assert.Equal(t, []float32{0.4, 0.5, 0.6}, vectors[1])
	assert.Equal(t, "text-embedding-004", mock.gotModel)
	require.Len(t, mock.gotContents, 2)
	assert.Equal(t, "first", mock.gotContents[0].Parts[0].Text)
}

func TestGeminiEmbedEmptyInput(t *testing.T) {
	embedder := &geminiEmbedder{models: &mockGeminiModels{}, model: "text-embedding-004"}

	vectors, err := embedder.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestGeminiEmbedCountMismatch(t *testing.T) {
	mock := &mockGeminiModels{embedVectors: [][]float32{{0.1}}}
	embedder := &geminiEmbedder{models: mock, model: "text-embedding-004"}

	_, err := embedder.Embed(context.Background(), []string{"first", "second"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 1 embeddings for 2 texts")
}
