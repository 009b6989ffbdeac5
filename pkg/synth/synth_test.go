package synth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// speakEvents records hook firings in order.
type speakEvents struct {
	mu    sync.Mutex
	order []string
}

func (e *speakEvents) hooks() Hooks {
	return Hooks{
		OnSpeakStart: func() { e.add("start") },
		OnSpeakEnd:   func() { e.add("end") },
	}
}

func (e *speakEvents) add(s string) {
	e.mu.Lock()
	e.order = append(e.order, s)
	e.mu.Unlock()
}

func (e *speakEvents) snapshot() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("Condition not met in time")
}

func TestSpeakFiresStartAndEnd(t *testing.T) {
	engine := &MockEngine{}
	ev := &speakEvents{}

	s := NewSpeaker(engine)
	s.SetHooks(ev.hooks())

	s.Speak("hello world")
	waitFor(t, func() bool { return len(ev.snapshot()) == 2 })

	order := ev.snapshot()
	if order[0] != "start" || order[1] != "end" {
		t.Errorf("Expected start then end, got %v", order)
	}
	if engine.CallCount() != 1 {
		t.Errorf("Expected 1 engine call, got %d", engine.CallCount())
	}
}

func TestSpeakEmptyTextStillCycles(t *testing.T) {
	engine := &MockEngine{}
	ev := &speakEvents{}

	s := NewSpeaker(engine)
	s.SetHooks(ev.hooks())

	s.Speak("")
	waitFor(t, func() bool { return len(ev.snapshot()) == 2 })

	order := ev.snapshot()
	if order[0] != "start" || order[1] != "end" {
		t.Errorf("Degenerate input must still run the full cycle, got %v", order)
	}
}

func TestSpeakLastCallerWins(t *testing.T) {
	engine := &MockEngine{
		SpeakFunc: func(ctx context.Context, text string, voice Voice, rate float64) error {
			if text == "first utterance" {
				<-ctx.Done()
				return ctx.Err()
			}
			return nil
		},
	}
	ev := &speakEvents{}

	s := NewSpeaker(engine)
	s.SetHooks(ev.hooks())

	s.Speak("first utterance")
	waitFor(t, func() bool { return len(ev.snapshot()) >= 1 })

	// Second Speak supersedes the first; its end hook fires before the
	// new start.
	s.Speak("second utterance")
	waitFor(t, func() bool { return len(ev.snapshot()) == 4 })

	order := ev.snapshot()
	want := []string{"start", "end", "start", "end"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("Superseded utterance must settle first, got %v", order)
		}
	}

	utts := engine.Utterances()
	if len(utts) != 2 || utts[1].Text != "second utterance" {
		t.Errorf("Unexpected utterances: %+v", utts)
	}
}

func TestStopFiresEndBeforeReturn(t *testing.T) {
	engine := &MockEngine{
		SpeakFunc: func(ctx context.Context, text string, voice Voice, rate float64) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}
	ev := &speakEvents{}

	s := NewSpeaker(engine)
	s.SetHooks(ev.hooks())

	s.Speak("long speech")
	waitFor(t, func() bool { return s.Speaking() })

	s.Stop()

	order := ev.snapshot()
	if len(order) != 2 || order[1] != "end" {
		t.Errorf("OnSpeakEnd must have fired by the time Stop returns, got %v", order)
	}
	if s.Speaking() {
		t.Error("Speaker should be idle after Stop")
	}
}

func TestStopWhileIdleIsNoop(t *testing.T) {
	s := NewSpeaker(&MockEngine{})
	s.Stop()
	s.Stop()
}

func TestSetRateClamped(t *testing.T) {
	engine := &MockEngine{MinRate: 0.5, MaxRate: 2.0}
	s := NewSpeaker(engine)

	s.SetRate(10)
	if s.Rate() != 2.0 {
		t.Errorf("Rate should clamp to max, got %v", s.Rate())
	}

	s.SetRate(0.01)
	if s.Rate() != 0.5 {
		t.Errorf("Rate should clamp to min, got %v", s.Rate())
	}

	s.SetRate(1.3)
	if s.Rate() != 1.3 {
		t.Errorf("In-range rate should stick, got %v", s.Rate())
	}
}

func TestSpeakUsesSelectedVoice(t *testing.T) {
	catalog := []Voice{
		{Index: 0, Name: "en-gb", Language: "en-GB"},
		{Index: 1, Name: "hi", Language: "hi"},
	}
	engine := &MockEngine{Catalog: catalog}

	s := NewSpeaker(engine, WithVoiceKey("hi/hi"))
	s.Speak("namaste")
	waitFor(t, func() bool { return engine.CallCount() == 1 })

	if got := engine.Utterances()[0].Voice; got.Name != "hi" {
		t.Errorf("Expected the selected voice, got %+v", got)
	}
}

func TestSpeakUnknownVoiceFallsBack(t *testing.T) {
	engine := &MockEngine{Catalog: []Voice{{Name: "en-gb", Language: "en-GB"}}}

	s := NewSpeaker(engine, WithVoiceKey("does-not-exist"))
	s.Speak("hello")
	waitFor(t, func() bool { return engine.CallCount() == 1 })

	if got := engine.Utterances()[0].Voice; got != (Voice{}) {
		t.Errorf("Unknown voice must fall back to the platform default, got %+v", got)
	}
}

func TestSpeakSynthesisFailureStillEnds(t *testing.T) {
	engine := &MockEngine{
		SpeakFunc: func(ctx context.Context, text string, voice Voice, rate float64) error {
			return errors.New("device busy")
		},
	}
	ev := &speakEvents{}

	s := NewSpeaker(engine)
	s.SetHooks(ev.hooks())

	s.Speak("hello")
	waitFor(t, func() bool { return len(ev.snapshot()) == 2 })

	if order := ev.snapshot(); order[1] != "end" {
		t.Errorf("End hook must fire on synthesis failure, got %v", order)
	}
}
