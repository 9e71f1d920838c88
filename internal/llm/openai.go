// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"

	"github.com/pdiddy/pubmed-agent/pkg/types"
)

// openAIResponses is the subset of the Responses service the package
// calls, abstracted so tests can supply a mock.
type openAIResponses interface {
	New(ctx context.Context, body responses.ResponseNewParams,
		opts ...option.RequestOption) (*responses.Response, error)
}

// openAI is a Provider backed by the OpenAI Responses API.
type openAI struct {
	responses   openAIResponses
	model       string
	temperature float64
}

func newOpenAI(cfg types.AIConfig) (*openAI, error) {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}
	client := openaisdk.NewClient(opts...)

	// New has a pointer receiver, so the seam needs the service's address.
	return &openAI{
		responses:   &client.Responses,
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

func (o *openAI) Name() string { return string(types.ProviderOpenAI) }

func (o *openAI) Generate(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return Response{}, fmt.Errorf("openai generate: empty prompt")
	}

	items := make(responses.ResponseInputParam, 0, 2)
	if req.System != "" {
		items = append(items, responses.ResponseInputItemParamOfMessage(
			req.System, responses.EasyInputMessageRoleSystem))
	}
	items = append(items, responses.ResponseInputItemParamOfMessage(
		req.Prompt, responses.EasyInputMessageRoleUser))

	params := responses.ResponseNewParams{
		Model: o.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: items,
		},
	}
	temperature := o.temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	if temperature > 0 {
		params.Temperature = openaisdk.Float(temperature)
	}

	start := time.Now()
	resp, err := o.responses.New(ctx, params)
	if err != nil {
		return Response{}, fmt.Errorf("openai generate: %w", err)
	}

	text := strings.TrimSpace(resp.OutputText())
	if text == "" {
		return Response{}, fmt.Errorf("openai generate: empty response from model %s", o.model)
	}

	return Response{
		Text:    text,
		Model:   o.model,
		Elapsed: time.Since(start),
	}, nil
}
