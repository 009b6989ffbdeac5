// Package capture wraps a platform speech-to-text capability in a
// controlled start/stop state machine with event hooks.
//
// A listening session is single-utterance: it ends with exactly one
// OnResult or one OnError, always followed by OnEnd. The listener never
// touches presentation; callers react to the hooks.
package capture

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Hooks are the listener's event callbacks. Nil hooks are skipped.
type Hooks struct {
	// OnStart fires when a listening session begins.
	OnStart func()

	// OnResult fires with the best transcript, at most once per session.
	OnResult func(transcript string)

	// OnError fires when the platform fails to recognize speech.
	// OnResult does not fire for that session.
	OnError func(err error)

	// OnEnd fires whenever the listener leaves the Listening state,
	// regardless of success or error.
	OnEnd func()
}

// Listener drives one Recognizer through Idle -> Listening -> Idle.
type Listener struct {
	mu      sync.Mutex
	rec     Recognizer
	hooks   Hooks
	logger  *slog.Logger
	session uint64
	active  bool
	cancel  context.CancelFunc
}

// NewListener creates a listener over the given recognizer.
func NewListener(rec Recognizer, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{
		rec:    rec,
		logger: logger.With("component", "capture.listener"),
	}
}

// SetHooks replaces the event hooks. Call before Start.
func (l *Listener) SetHooks(h Hooks) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hooks = h
}

// Listening reports whether a session is active.
func (l *Listener) Listening() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// Start begins a listening session. It is a no-op while already listening.
func (l *Listener) Start() {
	l.mu.Lock()
	if l.active {
		l.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.active = true
	l.cancel = cancel
	l.session++
	session := l.session
	hooks := l.hooks
	l.mu.Unlock()

	l.logger.Debug("listening session started", "session", session)
	if hooks.OnStart != nil {
		hooks.OnStart()
	}

	go l.run(ctx, session, hooks)
}

// Stop cancels the active session. It is a no-op while idle. OnEnd fires
// once when the session actually winds down.
func (l *Listener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.active || l.cancel == nil {
		return
	}
	l.cancel()
	l.cancel = nil
}

// Toggle starts or stops based on the current state.
func (l *Listener) Toggle() {
	if l.Listening() {
		l.Stop()
	} else {
		l.Start()
	}
}

// run owns one session: it delivers at most one OnResult or OnError, then
// always OnEnd, and returns the listener to Idle.
func (l *Listener) run(ctx context.Context, session uint64, hooks Hooks) {
	transcript, err := l.rec.Recognize(ctx)

	l.mu.Lock()
	if session != l.session {
		// A newer session took over; this one is already accounted for.
		l.mu.Unlock()
		return
	}
	l.active = false
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.mu.Unlock()

	switch {
	case err == nil:
		l.logger.Debug("transcript recognized", "session", session, "chars", len(transcript))
		if hooks.OnResult != nil {
			hooks.OnResult(transcript)
		}
	case errors.Is(err, context.Canceled):
		// Cancelled by Stop; ends without a result or an error.
		l.logger.Debug("listening session cancelled", "session", session)
	default:
		l.logger.Warn("recognition failed", "session", session, "error", err)
		if hooks.OnError != nil {
			hooks.OnError(err)
		}
	}

	if hooks.OnEnd != nil {
		hooks.OnEnd()
	}
}
