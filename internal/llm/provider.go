// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm provides text generation and embedding backends for the
// pubmed-agent CLI. A Provider wraps one hosted model API behind a small
// interface so callers and tests never touch vendor SDK types directly.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/pdiddy/pubmed-agent/pkg/types"
)

// Request carries one generation call. System is optional steering text
// placed before the prompt; Prompt is the user-facing question or task.
type Request struct {
	System string
	Prompt string

	// Temperature, when non-nil, overrides the provider's configured
	// sampling temperature for this call alone. Structured-output calls
	// such as concept extraction pin a low value here.
	Temperature *float64
}

// Response is the result of one generation call.
type Response struct {
	// Text is the model output with surrounding whitespace trimmed.
	Text string
	// Model is the model identifier that served the request.
	Model string
	// Elapsed is wall-clock time spent in the API call.
	Elapsed time.Duration
}

// Provider abstracts a hosted generative model API so tests can supply
// a mock. Implementations are safe for concurrent use.
type Provider interface {
	// Name identifies the backing service, e.g. "gemini" or "openai".
	Name() string
	// Generate runs one completion for req and returns the model text.
	Generate(ctx context.Context, req Request) (Response, error)
}

// Embedder turns text into fixed-size vectors for similarity search.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// NewProvider builds the Provider selected by cfg.Provider. The API key
// must already be resolved into cfg; a missing key is a configuration
// error, not a deferred runtime failure.
func NewProvider(ctx context.Context, cfg types.AIConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("provider %q: missing API key", cfg.Provider)
	}

	switch cfg.Provider {
	case types.ProviderGemini:
		return newGemini(ctx, cfg)
	case types.ProviderOpenAI:
		return newOpenAI(cfg)
	default:
		return nil, fmt.Errorf("unknown AI provider %q (want %q or %q)",
			cfg.Provider, types.ProviderGemini, types.ProviderOpenAI)
	}
}

// NewEmbedder builds a Gemini-backed Embedder. Embeddings always go
// through Gemini regardless of the generation provider because the
// knowledge collection is created with that model's vector size.
func NewEmbedder(ctx context.Context, apiKey, model string) (Embedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("embedder: missing API key")
	}
	if model == "" {
		return nil, fmt.Errorf("embedder: missing embedding model")
	}
	return newGeminiEmbedder(ctx, apiKey, model)
}
