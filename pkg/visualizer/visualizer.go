// Package visualizer animates bar levels while synthesized speech plays.
//
// The visualizer is purely presentational: it knows nothing about speech
// content and is driven exclusively by the speaker's start/end hooks. It
// renders frames through a caller-supplied Renderer.
package visualizer

import (
	"math"
	"sync"
	"time"
)

// Renderer receives one frame of bar levels, each in [0, 1].
type Renderer func(levels []float64)

// Defaults for the animation loop.
const (
	DefaultBars          = 20
	DefaultFrameInterval = 33 * time.Millisecond
)

// Oscillator tuning. Two detuned sines per bar keep the motion organic
// without any audio analysis.
const (
	baseFreq   = 1.7 // Hz
	freqSpread = 0.23
	phaseStep  = 0.61
	floorLevel = 0.08
)

// Visualizer runs a frame-driven animation loop between Start and Stop.
type Visualizer struct {
	mu       sync.Mutex
	renderer Renderer
	bars     int
	interval time.Duration
	running  bool
	stop     chan struct{}
}

// Option configures a Visualizer.
type Option func(*Visualizer)

// WithBars sets the number of bars.
func WithBars(n int) Option {
	return func(v *Visualizer) {
		if n > 0 {
			v.bars = n
		}
	}
}

// WithFrameInterval sets the animation cadence.
func WithFrameInterval(d time.Duration) Option {
	return func(v *Visualizer) {
		if d > 0 {
			v.interval = d
		}
	}
}

// New creates a visualizer rendering through the given renderer.
func New(renderer Renderer, opts ...Option) *Visualizer {
	v := &Visualizer{
		renderer: renderer,
		bars:     DefaultBars,
		interval: DefaultFrameInterval,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Running reports whether the animation loop is active.
func (v *Visualizer) Running() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.running
}

// Start begins the animation loop. Redundant calls are safe no-ops.
func (v *Visualizer) Start() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.running {
		return
	}
	v.running = true
	v.stop = make(chan struct{})
	go v.loop(v.stop)
}

// Stop halts the loop; no further frames are produced after the current
// one. A final settle frame zeroes the bars. Redundant calls are safe.
func (v *Visualizer) Stop() {
	v.mu.Lock()
	if !v.running {
		v.mu.Unlock()
		return
	}
	v.running = false
	close(v.stop)
	v.stop = nil
	renderer := v.renderer
	bars := v.bars
	v.mu.Unlock()

	if renderer != nil {
		renderer(make([]float64, bars))
	}
}

func (v *Visualizer) loop(stop chan struct{}) {
	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	start := time.Now()
	levels := make([]float64, v.bars)

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			t := now.Sub(start).Seconds()
			for i := range levels {
				levels[i] = barLevel(i, t)
			}
			if v.renderer != nil {
				v.renderer(levels)
			}
		}
	}
}

// barLevel computes one bar's height from two detuned oscillators.
func barLevel(bar int, t float64) float64 {
	f := baseFreq + freqSpread*float64(bar%5)
	p := phaseStep * float64(bar)
	a := math.Abs(math.Sin(2*math.Pi*f*t + p))
	b := math.Abs(math.Sin(2*math.Pi*f*0.37*t + p*1.9))
	return floorLevel + (1-floorLevel)*(0.7*a+0.3*b)
}
