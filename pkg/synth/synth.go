// Package synth wraps a platform text-to-speech capability: voice
// selection, rate control, and start/end notification around utterances.
//
// At most one utterance is active; a new Speak cancels the previous one
// (last caller wins, no queueing). OnSpeakEnd fires exactly once per
// utterance that started, including when Stop cuts it short, so callers
// can reliably stop whatever they synchronized to the speech.
package synth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Hooks are the speaker's event callbacks. Nil hooks are skipped.
type Hooks struct {
	// OnSpeakStart fires when an utterance begins.
	OnSpeakStart func()

	// OnSpeakEnd fires exactly once per started utterance.
	OnSpeakEnd func()
}

// utterance tracks one in-flight Speak call.
type utterance struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Speaker drives an Engine with the spoken-output contract.
type Speaker struct {
	mu       sync.Mutex
	engine   Engine
	hooks    Hooks
	logger   *slog.Logger
	rate     float64
	voiceKey string
	current  *utterance
}

// SpeakerOption configures a Speaker.
type SpeakerOption func(*Speaker)

// WithRate sets the initial rate multiplier (clamped to engine bounds).
func WithRate(rate float64) SpeakerOption {
	return func(s *Speaker) {
		s.rate = rate
	}
}

// WithVoiceKey sets the initial voice by its name/language key.
func WithVoiceKey(key string) SpeakerOption {
	return func(s *Speaker) {
		s.voiceKey = key
	}
}

// WithSpeakerLogger sets the structured logger.
func WithSpeakerLogger(logger *slog.Logger) SpeakerOption {
	return func(s *Speaker) {
		s.logger = logger
	}
}

// NewSpeaker creates a speaker over the given engine.
func NewSpeaker(engine Engine, opts ...SpeakerOption) *Speaker {
	s := &Speaker{
		engine: engine,
		rate:   1.0,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "synth.speaker")
	s.rate = s.clampRate(s.rate)
	return s
}

// SetHooks replaces the event hooks. Call before Speak.
func (s *Speaker) SetHooks(h Hooks) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = h
}

// SetVoice selects a voice by key. Unknown keys fall back to the platform
// default voice at speak time rather than failing.
func (s *Speaker) SetVoice(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voiceKey = key
}

// SetRate sets the rate multiplier, clamped to the engine's bounds.
func (s *Speaker) SetRate(rate float64) {
	clamped := s.clampRate(rate)
	s.mu.Lock()
	s.rate = clamped
	s.mu.Unlock()
}

// Rate returns the current rate multiplier.
func (s *Speaker) Rate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rate
}

// Voices returns a snapshot of the engine's voice catalog.
func (s *Speaker) Voices() []Voice {
	return s.engine.Voices()
}

// Speaking reports whether an utterance is in flight.
func (s *Speaker) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// Speak cancels any in-progress utterance and starts the new one. The
// superseded utterance's OnSpeakEnd fires before the new OnSpeakStart.
// Degenerate input (empty text) still runs the full start/end cycle.
func (s *Speaker) Speak(text string) {
	s.mu.Lock()
	prev := s.current
	s.current = nil
	s.mu.Unlock()

	if prev != nil {
		prev.cancel()
		<-prev.done
	}

	ctx, cancel := context.WithCancel(context.Background())
	u := &utterance{cancel: cancel, done: make(chan struct{})}

	s.mu.Lock()
	s.current = u
	voice := ResolveVoice(s.engine.Voices(), s.voiceKey)
	rate := s.rate
	hooks := s.hooks
	s.mu.Unlock()

	go func() {
		defer close(u.done)

		if hooks.OnSpeakStart != nil {
			hooks.OnSpeakStart()
		}

		err := s.engine.Speak(ctx, text, voice, rate)
		if err != nil && !errors.Is(err, context.Canceled) {
			// Synthesis failure is non-fatal; the end hook still fires so
			// anything synchronized to the speech settles.
			s.logger.Warn("synthesis failed", "error", err)
		}

		s.mu.Lock()
		if s.current == u {
			s.current = nil
		}
		s.mu.Unlock()

		if hooks.OnSpeakEnd != nil {
			hooks.OnSpeakEnd()
		}
	}()
}

// Stop cancels the current utterance, if any. OnSpeakEnd has fired by the
// time Stop returns.
func (s *Speaker) Stop() {
	s.mu.Lock()
	u := s.current
	s.current = nil
	s.mu.Unlock()

	if u != nil {
		u.cancel()
		<-u.done
	}
}

func (s *Speaker) clampRate(rate float64) float64 {
	min, max := s.engine.RateBounds()
	if rate < min {
		return min
	}
	if rate > max {
		return max
	}
	return rate
}
