package capture

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

// Microphone capture parameters. Whisper expects mono 16 kHz float32.
const (
	sampleRate      = 16000
	frameSize       = 320 // 20ms
	frameMS         = 20
	silenceThresh   = 0.015
	silenceDuration = 600 * time.Millisecond
	maxUtterance    = 10 * time.Second
)

// ErrNoSpeech is returned when a session captured no voiced audio.
var ErrNoSpeech = errors.New("capture: no speech detected")

// Recorder captures one utterance from the default input device, using
// RMS-based endpointing: recording starts at the first voiced frame and
// ends after a run of silence or the utterance cap.
type Recorder struct{}

// NewRecorder creates a recorder. Call Init before recording.
func NewRecorder() *Recorder { return &Recorder{} }

// Init initializes the audio backend.
func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

// Close releases the audio backend.
func (r *Recorder) Close() {
	portaudio.Terminate()
}

// Record captures one endpointed utterance as mono 16 kHz float32 PCM.
// It returns early with ctx.Err() when the session is cancelled.
func (r *Recorder) Record(ctx context.Context) ([]float32, error) {
	buf := make([]float32, frameSize)
	out := make([]float32, 0, sampleRate*3)

	stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	var (
		speaking      bool
		silenceFrames int
	)

	maxFrames := int(maxUtterance/time.Millisecond) / frameMS
	silenceFrameLimit := int(silenceDuration/time.Millisecond) / frameMS

	for i := 0; i < maxFrames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := stream.Read(); err != nil {
			return nil, err
		}

		if frameRMS(buf) > silenceThresh {
			speaking = true
			silenceFrames = 0
			out = append(out, buf...)
			continue
		}

		if speaking {
			silenceFrames++
			if silenceFrames >= silenceFrameLimit {
				break
			}
			out = append(out, buf...)
		}
	}

	if len(out) == 0 {
		return nil, ErrNoSpeech
	}
	return out, nil
}

func frameRMS(f []float32) float64 {
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
