package reply

import (
	"context"
	"sync"
)

// MockEndpoint implements Endpoint for testing.
type MockEndpoint struct {
	// CompleteFunc is called when Complete is invoked.
	// If nil, returns ErrNoContent.
	CompleteFunc func(ctx context.Context, req *Request) (string, error)

	mu    sync.Mutex
	calls []*Request
}

// Complete calls CompleteFunc and records the request.
func (m *MockEndpoint) Complete(ctx context.Context, req *Request) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return "", ErrNoContent
}

// Calls returns all recorded requests.
func (m *MockEndpoint) Calls() []*Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Request, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of Complete invocations.
func (m *MockEndpoint) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// ModelsTried returns the model of each attempt in dispatch order.
func (m *MockEndpoint) ModelsTried() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	for i, c := range m.calls {
		out[i] = c.Model
	}
	return out
}

// EndpointWithError returns a mock whose attempts all fail with err.
func EndpointWithError(err error) *MockEndpoint {
	return &MockEndpoint{
		CompleteFunc: func(ctx context.Context, req *Request) (string, error) {
			return "", err
		},
	}
}

// Verify MockEndpoint implements Endpoint at compile time.
var _ Endpoint = (*MockEndpoint)(nil)
