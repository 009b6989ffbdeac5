package relay

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenRouterBaseURL is the OpenAI-compatible API root OpenRouter exposes.
const OpenRouterBaseURL = "https://openrouter.ai/api/v1"

// ErrEmptyCompletion is returned when the upstream answers with no choices.
var ErrEmptyCompletion = errors.New("relay: upstream returned no completion")

// Upstream produces a completion for the given model and messages using
// the given API key.
type Upstream interface {
	Complete(ctx context.Context, key, model string, messages []WireMessage) (string, error)
}

// OpenRouterUpstream talks to OpenRouter through its OpenAI-compatible
// API. The key varies per request, so a client is built per call.
type OpenRouterUpstream struct {
	baseURL string
}

// NewOpenRouterUpstream creates the production upstream.
func NewOpenRouterUpstream() *OpenRouterUpstream {
	return &OpenRouterUpstream{baseURL: OpenRouterBaseURL}
}

// Complete forwards a chat completion request to OpenRouter.
func (u *OpenRouterUpstream) Complete(ctx context.Context, key, model string, messages []WireMessage) (string, error) {
	cfg := openai.DefaultConfig(key)
	cfg.BaseURL = u.baseURL
	client := openai.NewClientWithConfig(cfg)

	wire := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		wire = append(wire, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    model,
		Messages: wire,
	})
	if err != nil {
		return "", fmt.Errorf("relay: completion request: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

// MockUpstream is a test double recording calls.
type MockUpstream struct {
	CompleteFunc func(ctx context.Context, key, model string, messages []WireMessage) (string, error)

	calls []MockCall
}

// MockCall records one Complete invocation.
type MockCall struct {
	Key      string
	Model    string
	Messages []WireMessage
}

// Complete records the call and delegates to CompleteFunc.
func (m *MockUpstream) Complete(ctx context.Context, key, model string, messages []WireMessage) (string, error) {
	m.calls = append(m.calls, MockCall{Key: key, Model: model, Messages: messages})
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, key, model, messages)
	}
	return "", ErrEmptyCompletion
}

// Calls returns the recorded invocations.
func (m *MockUpstream) Calls() []MockCall {
	return m.calls
}

var _ Upstream = (*OpenRouterUpstream)(nil)
var _ Upstream = (*MockUpstream)(nil)
