package synth

import (
	"context"
	"sync"
)

// Engine is the platform text-to-speech capability.
type Engine interface {
	// Speak synthesizes and plays one utterance, blocking until playback
	// finishes or ctx is cancelled. A zero Voice selects the platform
	// default.
	Speak(ctx context.Context, text string, voice Voice, rate float64) error

	// Voices returns the current catalog snapshot. It may legitimately be
	// empty before the platform catalog is ready; callers re-query.
	Voices() []Voice

	// RateBounds returns the supported rate multiplier range.
	RateBounds() (min, max float64)
}

// MockUtterance records one Speak invocation on a MockEngine.
type MockUtterance struct {
	Text  string
	Voice Voice
	Rate  float64
}

// MockEngine implements Engine for testing.
type MockEngine struct {
	// SpeakFunc is called when Speak is invoked.
	// If nil, returns immediately.
	SpeakFunc func(ctx context.Context, text string, voice Voice, rate float64) error

	// Catalog is returned by Voices.
	Catalog []Voice

	// MinRate and MaxRate are returned by RateBounds (defaults 0.5, 2.5).
	MinRate float64
	MaxRate float64

	mu         sync.Mutex
	utterances []MockUtterance
}

// Speak records the utterance and calls SpeakFunc.
func (m *MockEngine) Speak(ctx context.Context, text string, voice Voice, rate float64) error {
	m.mu.Lock()
	m.utterances = append(m.utterances, MockUtterance{Text: text, Voice: voice, Rate: rate})
	m.mu.Unlock()

	if m.SpeakFunc != nil {
		return m.SpeakFunc(ctx, text, voice, rate)
	}
	return nil
}

// Voices returns the configured catalog.
func (m *MockEngine) Voices() []Voice {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Voice, len(m.Catalog))
	copy(out, m.Catalog)
	return out
}

// RateBounds returns the configured or default bounds.
func (m *MockEngine) RateBounds() (float64, float64) {
	if m.MinRate == 0 && m.MaxRate == 0 {
		return 0.5, 2.5
	}
	return m.MinRate, m.MaxRate
}

// Utterances returns all recorded Speak calls.
func (m *MockEngine) Utterances() []MockUtterance {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockUtterance, len(m.utterances))
	copy(out, m.utterances)
	return out
}

// CallCount returns the number of Speak invocations.
func (m *MockEngine) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.utterances)
}

// Verify MockEngine implements Engine at compile time.
var _ Engine = (*MockEngine)(nil)
