// Package assistant coordinates capture, reply generation, synthesis and
// visualization into a single conversational session.
package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/vanshgarg/go-pooja/pkg/capture"
	"github.com/vanshgarg/go-pooja/pkg/chat"
	"github.com/vanshgarg/go-pooja/pkg/reply"
	"github.com/vanshgarg/go-pooja/pkg/synth"
)

// Fixed conversational lines. Greeting seeds a fresh session; ResetGreeting
// seeds the log after a reset.
const (
	Greeting      = "Hi, I'm Pooja. I'm here to support your mental wellbeing. How are you feeling today?"
	ResetGreeting = "I'm here to support you. How are you feeling now?"

	captureApology = "I didn't catch that. Could you try again?"
	faultApology   = "I'm having trouble responding. Can we try again?"
)

// ErrBusy is returned when a submission arrives while a previous one is
// still being processed.
var ErrBusy = errors.New("assistant: response already in progress")

// Speaker voices assistant replies.
type Speaker interface {
	Speak(text string)
	Stop()
	SetHooks(synth.Hooks)
}

// Listener captures and transcribes user speech.
type Listener interface {
	SetHooks(capture.Hooks)
	Start()
	Stop()
	Toggle()
	Listening() bool
}

// Visualizer animates while speech plays.
type Visualizer interface {
	Start()
	Stop()
}

// Orchestrator produces assistant replies from conversation history.
type Orchestrator interface {
	Generate(ctx context.Context, history []chat.Message, userText string, cred reply.Credential) (reply.Reply, error)
}

// Assistant is the session controller. It owns the chat log, derives the
// activity status from component events, and serializes reply generation
// so at most one request is in flight.
type Assistant struct {
	speaker    Speaker
	listener   Listener
	visualizer Visualizer
	orch       Orchestrator
	logger     *slog.Logger

	sessionID string
	log       *chat.Log

	mu         sync.Mutex
	phase      Phase
	processing bool
	generation uint64
	pending    string
	credential reply.Credential

	onStatus  func(Status)
	onMessage func(chat.Message)
}

// AssistantOption configures an Assistant.
type AssistantOption func(*Assistant)

// WithStatusFunc registers a callback invoked on every status change.
func WithStatusFunc(fn func(Status)) AssistantOption {
	return func(a *Assistant) { a.onStatus = fn }
}

// WithMessageFunc registers a callback invoked whenever a message is
// appended to the log.
func WithMessageFunc(fn func(chat.Message)) AssistantOption {
	return func(a *Assistant) { a.onMessage = fn }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) AssistantOption {
	return func(a *Assistant) { a.logger = logger }
}

// New wires the components together and seeds the log with the greeting.
// The speaker's and listener's hooks are claimed by the assistant.
func New(orch Orchestrator, speaker Speaker, listener Listener, visualizer Visualizer, opts ...AssistantOption) *Assistant {
	a := &Assistant{
		speaker:    speaker,
		listener:   listener,
		visualizer: visualizer,
		orch:       orch,
		logger:     slog.Default(),
		sessionID:  uuid.NewString(),
		log:        chat.NewLog(Greeting),
		phase:      PhaseIdle,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With("component", "assistant", "session", a.sessionID)

	speaker.SetHooks(synth.Hooks{
		OnSpeakStart: a.handleSpeakStart,
		OnSpeakEnd:   a.handleSpeakEnd,
	})
	listener.SetHooks(capture.Hooks{
		OnStart:  a.handleCaptureStart,
		OnResult: a.handleCaptureResult,
		OnError:  a.handleCaptureError,
		OnEnd:    a.handleCaptureEnd,
	})
	return a
}

// Log returns the session's chat log.
func (a *Assistant) Log() *chat.Log {
	return a.log
}

// Status returns the current activity status.
func (a *Assistant) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return statusFor(a.phase)
}

// SetCredential installs or clears the user-supplied relay credential.
// An empty key returns the session to default-credential mode.
func (a *Assistant) SetCredential(key string) {
	key = strings.TrimSpace(key)
	a.mu.Lock()
	a.credential = reply.Credential{Present: key != "", Key: key}
	a.mu.Unlock()
}

// ToggleListening starts capture when idle and stops it when active.
func (a *Assistant) ToggleListening() {
	a.listener.Toggle()
}

// Listening reports whether capture is active.
func (a *Assistant) Listening() bool {
	return a.listener.Listening()
}

// SubmitText runs one conversational turn for typed input. Blank input is
// ignored. A submission while another is in flight returns ErrBusy.
func (a *Assistant) SubmitText(ctx context.Context, text string) error {
	return a.submit(ctx, text, "text")
}

// SubmitVoiceTranscript runs one conversational turn for a transcript
// produced by capture. Semantics match SubmitText.
func (a *Assistant) SubmitVoiceTranscript(ctx context.Context, text string) error {
	return a.submit(ctx, text, "voice")
}

func (a *Assistant) submit(ctx context.Context, text, source string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	a.mu.Lock()
	if a.processing {
		a.mu.Unlock()
		return ErrBusy
	}
	a.processing = true
	gen := a.generation
	cred := a.credential
	a.mu.Unlock()

	// History is snapshotted before the user message is appended; the
	// orchestrator appends the user text to the prompt itself.
	history := a.log.Messages()

	a.emitMessage(a.log.Append(text, chat.RoleUser))
	a.setPhase(PhaseProcessing)
	a.logger.Debug("turn started", "source", source, "chars", len(text))

	rep, err := a.orch.Generate(ctx, history, text, cred)

	a.mu.Lock()
	stale := gen != a.generation
	if !stale {
		a.processing = false
	}
	a.mu.Unlock()
	if stale {
		a.logger.Debug("discarding stale reply", "source", source)
		return nil
	}

	if err != nil {
		a.logger.Error("turn failed", "error", err)
		a.emitMessage(a.log.Append(faultApology, chat.RoleAssistant))
		a.setPhase(PhaseError)
		a.setPhase(PhaseIdle)
		return err
	}

	if rep.Provider == "" {
		// All providers failed; surface the error state briefly, then
		// voice the apology like any other reply.
		a.logger.Warn("all providers exhausted, speaking apology")
		a.setPhase(PhaseError)
	}

	a.emitMessage(a.log.Append(rep.Text, chat.RoleAssistant))
	a.speaker.Speak(rep.Text)
	return nil
}

// Reset abandons any in-flight turn, stops speech, and reseeds the log.
func (a *Assistant) Reset() {
	a.mu.Lock()
	a.generation++
	a.processing = false
	a.pending = ""
	a.mu.Unlock()

	a.speaker.Stop()
	a.log.Reset(ResetGreeting)
	if msgs := a.log.Messages(); len(msgs) > 0 {
		a.emitMessage(msgs[0])
	}
	a.setPhase(PhaseIdle)
	a.logger.Info("session reset")
}

func (a *Assistant) handleSpeakStart() {
	a.setPhase(PhaseSpeaking)
	a.visualizer.Start()
}

func (a *Assistant) handleSpeakEnd() {
	a.visualizer.Stop()
	a.setPhase(PhaseIdle)
}

func (a *Assistant) handleCaptureStart() {
	a.setPhase(PhaseListening)
}

func (a *Assistant) handleCaptureResult(text string) {
	a.mu.Lock()
	a.pending = text
	a.mu.Unlock()
}

func (a *Assistant) handleCaptureError(err error) {
	a.logger.Warn("capture failed", "error", err)
	a.emitMessage(a.log.Append(captureApology, chat.RoleAssistant))
}

func (a *Assistant) handleCaptureEnd() {
	a.setPhase(PhaseIdle)

	a.mu.Lock()
	text := a.pending
	a.pending = ""
	a.mu.Unlock()
	if text == "" {
		return
	}
	go func() {
		if err := a.SubmitVoiceTranscript(context.Background(), text); err != nil {
			a.logger.Warn("voice turn rejected", "error", err)
		}
	}()
}

func (a *Assistant) setPhase(p Phase) {
	a.mu.Lock()
	changed := a.phase != p
	a.phase = p
	onStatus := a.onStatus
	a.mu.Unlock()

	if changed && onStatus != nil {
		onStatus(statusFor(p))
	}
}

func (a *Assistant) emitMessage(msg chat.Message) {
	a.mu.Lock()
	onMessage := a.onMessage
	a.mu.Unlock()
	if onMessage != nil {
		onMessage(msg)
	}
}
