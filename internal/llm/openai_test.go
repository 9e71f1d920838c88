// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"testing"

	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubmed-agent/pkg/types"
)

// mockOpenAIResponses records the request and returns a canned response.
type mockOpenAIResponses struct {
	text string
	err  error

	gotParams responses.ResponseNewParams
}

func (m *mockOpenAIResponses) New(_ context.Context, body responses.ResponseNewParams,
	_ ...option.RequestOption,
) (*responses.Response, error) {
	m.gotParams = body
	if m.err != nil {
		return nil, m.err
	}
	return &responses.Response{
		Output: []responses.ResponseOutputItemUnion{
			{
				Type: "message",
				Content: []responses.ResponseOutputMessageContentUnion{
					{Type: "output_text", Text: m.text},
				},
			},
		},
	}, nil
}

// The real client's Responses service must satisfy the seam.
func TestNewOpenAIWiresResponsesService(t *testing.T) {
	provider, err := newOpenAI(types.AIConfig{
		Provider: types.ProviderOpenAI,
		Model:    "gpt-4o-mini",
		APIKey:   "sk-test",
	})
	require.NoError(t, err)
	require.NotNil(t, provider.responses)
	assert.Equal(t, "gpt-4o-mini", provider.model)
}

func TestOpenAIGenerate(t *testing.T) {
	mock := &mockOpenAIResponses{text: " the answer \n"}
	provider := &openAI{responses: mock, model: "gpt-4o-mini", temperature: 0.4}

	resp, err := provider.Generate(context.Background(), Request{
		System: "You are a biomedical research assistant.",
		Prompt: "Summarize these articles.",
	})
	require.NoError(t, err)

	assert.Equal(t, "the answer", resp.Text)
	assert.Equal(t, "gpt-4o-mini", resp.Model)

	assert.Equal(t, "gpt-4o-mini", string(mock.gotParams.Model))
	require.Len(t, mock.gotParams.Input.OfInputItemList, 2)
	assert.InDelta(t, 0.4, mock.gotParams.Temperature.Value, 1e-6)
}

func TestOpenAIGenerateNoSystem(t *testing.T) {
	mock := &mockOpenAIResponses{text: "ok"}
	provider := &openAI{responses: mock, model: "gpt-4o-mini"}

	_, err := provider.Generate(context.Background(), Request{Prompt: "hello"})
	require.NoError(t, err)

	require.Len(t, mock.gotParams.Input.OfInputItemList, 1)
	assert.False(t, mock.gotParams.Temperature.Valid())
}

func TestOpenAIGenerateTemperatureOverride(t *testing.T) {
	mock := &mockOpenAIResponses{text: "ok"}
	provider := &openAI{responses: mock, model: "gpt-4o-mini", temperature: 1.0}

	override := 0.2
	_, err := provider.Generate(context.Background(), Request{
		Prompt:      "hello",
		Temperature: &override,
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.2, mock.gotParams.Temperature.Value, 1e-6)
}

func TestOpenAIGenerateEmptyPrompt(t *testing.T) {
	provider := &openAI{responses: &mockOpenAIResponses{}, model: "gpt-4o-mini"}

	_, err := provider.Generate(context.Background(), Request{Prompt: ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty prompt")
}

func TestOpenAIGenerateAPIError(t *testing.T) {
	mock := &mockOpenAIResponses{err: fmt.Errorf("rate limited")}
	provider := &openAI{responses: mock, model: "gpt-4o-mini"}

	_, err := provider.Generate(context.Background(), Request{Prompt: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestOpenAIGenerateEmptyResponse(t *testing.T) {
	mock := &mockOpenAIResponses{text: "   "}
	provider := &openAI{responses: mock, model: "gpt-4o-mini"}

	_, err := provider.Generate(context.Background(), Request{Prompt: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}
