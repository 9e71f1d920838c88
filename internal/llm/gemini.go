// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/pdiddy/pubmed-agent/pkg/types"
)

// geminiModels is the subset of *genai.Models the package calls,
// abstracted so tests can supply a mock.
type geminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	EmbedContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// gemini is a Provider backed by the Gemini API.
type gemini struct {
	models      geminiModels
	model       string
	temperature float64
}

func newGemini(ctx context.Context, cfg types.AIConfig) (*gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &gemini{
		models:      client.Models,
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

func (g *gemini) Name() string { return string(types.ProviderGemini) }

func (g *gemini) Generate(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return Response{}, fmt.Errorf("gemini generate: empty prompt")
	}

	config := &genai.GenerateContentConfig{}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	temperature := g.temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	if temperature > 0 {
		t := float32(temperature)
		config.Temperature = &t
	}

	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), config)
	if err != nil {
		return Response{}, fmt.Errorf("gemini generate: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return Response{}, fmt.Errorf("gemini generate: empty response from model %s", g.model)
	}

	return Response{
		Text:    text,
		Model:   g.model,
		Elapsed: time.Since(start),
	}, nil
}

// geminiEmbedder is an Embedder backed by the Gemini embedding API.
type geminiEmbedder struct {
	models geminiModels
	model  string
}

func newGeminiEmbedder(ctx context.Context, apiKey, model string) (*geminiEmbedder, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &geminiEmbedder{models: client.Models, model: model}, nil
}

func (e *geminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, t := range texts {
		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{{Text: t}},
		})
	}

	resp, err := e.models.EmbedContent(ctx, e.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini embed: got %d embeddings for %d texts",
			len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, 0, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("gemini embed: empty vector at index %d", i)
		}
		vectors = append(vectors, emb.Values)
	}
	return vectors, nil
}
