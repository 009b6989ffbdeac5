package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// Transcriber converts captured PCM into text with a local whisper.cpp model.
type Transcriber struct {
	model whisper.Model
}

// NewTranscriber loads the whisper model at the given path.
func NewTranscriber(modelPath string) (*Transcriber, error) {
	if modelPath == "" {
		return nil, errors.New("capture: empty whisper model path")
	}
	m, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("capture: load whisper model: %w", err)
	}
	return &Transcriber{model: m}, nil
}

// Close releases the model.
func (t *Transcriber) Close() error {
	if t.model == nil {
		return nil
	}
	return t.model.Close()
}

// Transcribe runs the model over mono 16 kHz float32 PCM and returns the
// concatenated transcript.
func (t *Transcriber) Transcribe(ctx context.Context, pcm []float32) (string, error) {
	if t.model == nil {
		return "", errors.New("capture: nil whisper model")
	}
	if len(pcm) == 0 {
		return "", ErrNoSpeech
	}

	wctx, err := t.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("capture: whisper context: %w", err)
	}

	if err := wctx.SetLanguage("auto"); err != nil {
		return "", fmt.Errorf("capture: set language: %w", err)
	}
	wctx.SetThreads(uint(runtime.NumCPU()))

	if err := wctx.Process(pcm, nil, nil, nil); err != nil {
		return "", fmt.Errorf("capture: whisper process: %w", err)
	}

	var parts []string
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		s, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("capture: next segment: %w", err)
		}
		parts = append(parts, strings.TrimSpace(s.Text))
	}

	return strings.Join(parts, " "), nil
}

// MicRecognizer is the production Recognizer: PortAudio capture endpointed
// by silence, transcribed locally by whisper.cpp.
type MicRecognizer struct {
	rec    *Recorder
	tr     *Transcriber
	logger *slog.Logger
}

// NewMicRecognizer combines a recorder and transcriber.
func NewMicRecognizer(rec *Recorder, tr *Transcriber, logger *slog.Logger) *MicRecognizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &MicRecognizer{
		rec:    rec,
		tr:     tr,
		logger: logger.With("component", "capture.mic"),
	}
}

// Recognize captures one utterance and returns its transcript.
func (m *MicRecognizer) Recognize(ctx context.Context) (string, error) {
	pcm, err := m.rec.Record(ctx)
	if err != nil {
		return "", err
	}

	m.logger.Debug("utterance recorded", "samples", len(pcm))

	text, err := m.tr.Transcribe(ctx, pcm)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}

// Verify MicRecognizer implements Recognizer at compile time.
var _ Recognizer = (*MicRecognizer)(nil)
