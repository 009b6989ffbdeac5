// Package cue plays short audible cues around voice capture.
package cue

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const (
	sampleRate beep.SampleRate = 44100

	listenFreq = 880.0 // Hz
	listenDur  = 120 * time.Millisecond
)

var initOnce sync.Once
var initErr error

// Player plays cues through the default audio output. A failed speaker
// init disables it; cues never block or fail the caller.
type Player struct {
	logger *slog.Logger
}

// NewPlayer initializes audio output on first use.
func NewPlayer(logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Player{logger: logger.With("component", "cue")}
	initOnce.Do(func() {
		initErr = speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	})
	if initErr != nil {
		p.logger.Warn("audio output unavailable, cues disabled", "error", initErr)
	}
	return p
}

// Listen plays the capture-started cue and returns once it finished.
func (p *Player) Listen() {
	p.play(tone(listenFreq, listenDur))
}

func (p *Player) play(s beep.Streamer) {
	if initErr != nil {
		return
	}
	done := make(chan bool)
	speaker.Play(beep.Seq(s, beep.Callback(func() {
		done <- true
	})))
	<-done
}

// tone produces a sine burst with a short fade to avoid clicks.
func tone(freq float64, dur time.Duration) beep.Streamer {
	total := sampleRate.N(dur)
	fade := sampleRate.N(5 * time.Millisecond)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if pos >= total {
				break
			}
			v := 0.3 * math.Sin(2*math.Pi*freq*float64(pos)/float64(sampleRate))
			if pos < fade {
				v *= float64(pos) / float64(fade)
			}
			if rem := total - pos; rem < fade {
				v *= float64(rem) / float64(fade)
			}
			samples[i][0] = v
			samples[i][1] = v
			pos++
			n++
		}
		return n, true
	})
}
