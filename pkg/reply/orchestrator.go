// Package reply produces assistant replies through an ordered list of
// text-generation providers with fallback and a brevity backstop.
//
// All provider attempts go through a single endpoint collaborator; a
// network failure, a non-success response, or a response without
// extractable content all mean "this provider failed" and the orchestrator
// moves on to the next provider in order. When every provider fails the
// caller still receives a reply: a fixed apology naming no internals.
package reply

import (
	"context"
	"log/slog"

	"github.com/vanshgarg/go-pooja/pkg/chat"
)

// Apology is returned verbatim when every provider fails.
const Apology = "I'm having trouble connecting to my services right now. Can we try again in a moment?"

// Provider is one text-generation backend, identified by the model it is
// asked for. Providers are tried in slice order; a provider is never
// retried within one generation call.
type Provider struct {
	// ID is a short name used for attribution and logging.
	ID string

	// Model is the model identifier sent to the endpoint.
	Model string
}

// DefaultProviders is the fixed fallback order: cheapest/fastest first.
var DefaultProviders = []Provider{
	{ID: "deepseek", Model: "deepseek/deepseek-r1:free"},
	{ID: "mistral", Model: "mistralai/mistral-7b-instruct"},
}

// Credential is an optional caller-supplied API key. When Present is
// false the orchestrator runs in default-key mode and sends an empty
// customApiKey so the endpoint applies its own default credential.
type Credential struct {
	Present bool
	Key     string
}

// Reply is a generated assistant reply with its provider attribution.
// Provider is empty when the reply is the fallback apology.
type Reply struct {
	Text     string
	Provider string
}

// Orchestrator tries providers in order and post-processes the reply.
type Orchestrator struct {
	endpoint  Endpoint
	providers []Provider
	logger    *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithProviders overrides the default provider order.
func WithProviders(providers ...Provider) Option {
	return func(o *Orchestrator) {
		o.providers = providers
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// NewOrchestrator creates an orchestrator over the given endpoint.
func NewOrchestrator(endpoint Endpoint, opts ...Option) (*Orchestrator, error) {
	if endpoint == nil {
		return nil, ErrNoEndpoint
	}

	o := &Orchestrator{
		endpoint:  endpoint,
		providers: DefaultProviders,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With("component", "reply.orchestrator")
	return o, nil
}

// Providers returns the configured fallback order.
func (o *Orchestrator) Providers() []Provider {
	return o.providers
}

// Generate produces an assistant reply for the new user text given the
// prior history. Provider-level failures are absorbed: if every provider
// fails the fixed apology is returned with a nil error. A non-nil error
// is only returned for faults outside the provider fallback contract,
// such as context cancellation.
func (o *Orchestrator) Generate(ctx context.Context, history []chat.Message, userText string, cred Credential) (Reply, error) {
	msgs := buildMessages(history, userText)

	customKey := ""
	if cred.Present {
		customKey = cred.Key
	}

	var failures []error
	for i, p := range o.providers {
		req := &Request{
			Model:        p.Model,
			Messages:     msgs,
			CustomAPIKey: customKey,
		}

		text, err := o.endpoint.Complete(ctx, req)
		if err == nil {
			if i > 0 {
				o.logger.Info("fallback provider succeeded", "provider", p.ID)
			}
			o.logger.Debug("reply generated", "provider", p.ID, "chars", len(text))
			return Reply{Text: Truncate(text), Provider: p.ID}, nil
		}

		failures = append(failures, WrapError(p.ID, err))
		o.logger.Warn("provider failed, trying next",
			"provider", p.ID,
			"error", WrapError(p.ID, err),
		)

		if ctx.Err() != nil {
			return Reply{}, ctx.Err()
		}
	}

	o.logger.Warn("all providers failed, returning apology",
		"error", &ChainError{Errors: failures},
	)
	return Reply{Text: Apology}, nil
}
