package reply

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vanshgarg/go-pooja/internal/httpc"
)

// WireMessage is one prompt message on the wire.
type WireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the wire shape of one provider attempt. Built fresh per
// attempt and never mutated after dispatch.
type Request struct {
	Model        string        `json:"model"`
	Messages     []WireMessage `json:"messages"`
	CustomAPIKey string        `json:"customApiKey"`
}

// Endpoint dispatches one provider attempt to the text-generation service
// and returns the extracted reply text.
type Endpoint interface {
	Complete(ctx context.Context, req *Request) (string, error)
}

// Client is the HTTP endpoint collaborator. It speaks the relay's
// OpenAI-shaped protocol: the reply text is expected at
// choices[0].message.content; anything else counts as missing content.
type Client struct {
	url    string
	http   *http.Client
	logger *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the shared HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		c.http = h
	}
}

// WithClientLogger sets the structured logger.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates an endpoint client for the given chat URL.
func NewClient(url string, opts ...ClientOption) *Client {
	c := &Client{
		url:    strings.TrimSuffix(url, "/"),
		http:   httpc.Client,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "reply.client")
	return c
}

// Complete performs a single attempt. No retries happen here; a failed
// attempt is the orchestrator's cue to move to the next provider.
func (c *Client) Complete(ctx context.Context, req *Request) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("reply: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("reply: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("reply: dispatch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.parseError(resp)
	}

	var result completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("reply: decode response: %w", err)
	}

	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", ErrNoContent
	}

	return result.Choices[0].Message.Content, nil
}

// parseError reads and parses a non-success response.
func (c *Client) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	message := string(body)
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}

// completionResponse mirrors the endpoint's OpenAI-shaped reply.
type completionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Verify Client implements Endpoint at compile time.
var _ Endpoint = (*Client)(nil)
