package visualizer

import (
	"sync"
	"testing"
	"time"
)

// frameSink counts rendered frames.
type frameSink struct {
	mu     sync.Mutex
	frames [][]float64
}

func (f *frameSink) render(levels []float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := make([]float64, len(levels))
	copy(snap, levels)
	f.frames = append(f.frames, snap)
}

func (f *frameSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

func (f *frameSink) last() []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.frames) == 0 {
		return nil
	}
	return f.frames[len(f.frames)-1]
}

func (f *frameSink) hasZeroFrame() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, frame := range f.frames {
		zero := true
		for _, lv := range frame {
			if lv != 0 {
				zero = false
				break
			}
		}
		if zero {
			return true
		}
	}
	return false
}

func TestVisualizerRendersFrames(t *testing.T) {
	sink := &frameSink{}
	v := New(sink.render, WithBars(8), WithFrameInterval(5*time.Millisecond))

	v.Start()
	defer v.Stop()

	deadline := time.Now().Add(time.Second)
	for sink.count() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if sink.count() < 3 {
		t.Fatalf("Expected at least 3 frames, got %d", sink.count())
	}

	frame := sink.last()
	if len(frame) != 8 {
		t.Fatalf("Expected 8 bars, got %d", len(frame))
	}
	for i, lv := range frame {
		if lv < 0 || lv > 1 {
			t.Errorf("Bar %d out of range: %v", i, lv)
		}
	}
}

func TestVisualizerStopHaltsFrames(t *testing.T) {
	sink := &frameSink{}
	v := New(sink.render, WithFrameInterval(5*time.Millisecond))

	v.Start()
	time.Sleep(30 * time.Millisecond)
	v.Stop()

	// The settle frame may land right after Stop; after that, nothing.
	time.Sleep(10 * time.Millisecond)
	n := sink.count()
	time.Sleep(50 * time.Millisecond)
	if sink.count() != n {
		t.Errorf("Frames kept arriving after Stop: %d -> %d", n, sink.count())
	}

	if !sink.hasZeroFrame() {
		t.Error("Stop must emit a settle frame zeroing the bars")
	}
}

func TestVisualizerIdempotentStartStop(t *testing.T) {
	sink := &frameSink{}
	v := New(sink.render, WithFrameInterval(5*time.Millisecond))

	v.Start()
	v.Start()
	if !v.Running() {
		t.Fatal("Visualizer should be running")
	}

	v.Stop()
	v.Stop()
	if v.Running() {
		t.Error("Visualizer should have stopped")
	}

	// Restart works after a stop.
	v.Start()
	if !v.Running() {
		t.Error("Visualizer should restart cleanly")
	}
	v.Stop()
}

func TestVisualizerLevelsVaryOverTime(t *testing.T) {
	a := barLevel(0, 0.1)
	b := barLevel(0, 0.3)
	if a == b {
		t.Error("Bar level should change over time")
	}

	x := barLevel(1, 0.2)
	y := barLevel(4, 0.2)
	if x == y {
		t.Error("Bars should not move in lockstep")
	}
}
