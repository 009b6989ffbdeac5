package reply

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrNoEndpoint is returned when no endpoint collaborator is configured.
	ErrNoEndpoint = errors.New("reply: endpoint required")

	// ErrNoContent is returned when a response carries no extractable reply text.
	ErrNoContent = errors.New("reply: no content in response")
)

// APIError represents a non-success response from the text-generation endpoint.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Message is the error message from the endpoint.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("reply: API error %d: %s", e.StatusCode, e.Message)
}

// IsServerError returns true if this is a server-side error (HTTP 5xx).
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// ChainError aggregates the per-provider failures of one exhausted
// fallback pass. It never reaches callers of Generate (they get the
// apology); it exists for logs and diagnostics.
type ChainError struct {
	Errors []error
}

// Error implements the error interface.
func (e *ChainError) Error() string {
	return fmt.Sprintf("reply: all %d providers failed: %v", len(e.Errors), errors.Join(e.Errors...))
}

// Unwrap returns the aggregated errors.
func (e *ChainError) Unwrap() []error {
	return e.Errors
}

// ProviderError wraps an error with the failing provider's id.
type ProviderError struct {
	Provider string
	Err      error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("reply [%s]: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with provider context.
func WrapError(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Provider: provider, Err: err}
}
