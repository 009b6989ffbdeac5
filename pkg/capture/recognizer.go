package capture

import (
	"context"
	"sync"
)

// Recognizer is the platform speech-to-text capability. One call captures
// one utterance: it blocks until a transcript is available, the platform
// fails, or ctx is cancelled.
type Recognizer interface {
	Recognize(ctx context.Context) (string, error)
}

// MockRecognizer implements Recognizer for testing.
type MockRecognizer struct {
	// RecognizeFunc is called when Recognize is invoked.
	// If nil, blocks until ctx is cancelled and returns ctx.Err().
	RecognizeFunc func(ctx context.Context) (string, error)

	mu    sync.Mutex
	calls int
}

// Recognize calls RecognizeFunc and records the call.
func (m *MockRecognizer) Recognize(ctx context.Context) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.RecognizeFunc != nil {
		return m.RecognizeFunc(ctx)
	}
	<-ctx.Done()
	return "", ctx.Err()
}

// CallCount returns the number of Recognize invocations.
func (m *MockRecognizer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// RecognizerWithTranscript returns a mock that immediately yields the
// given transcript.
func RecognizerWithTranscript(text string) *MockRecognizer {
	return &MockRecognizer{
		RecognizeFunc: func(ctx context.Context) (string, error) {
			return text, nil
		},
	}
}

// RecognizerWithError returns a mock that immediately fails with err.
func RecognizerWithError(err error) *MockRecognizer {
	return &MockRecognizer{
		RecognizeFunc: func(ctx context.Context) (string, error) {
			return "", err
		},
	}
}

// Verify MockRecognizer implements Recognizer at compile time.
var _ Recognizer = (*MockRecognizer)(nil)
