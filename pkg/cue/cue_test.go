package cue

import (
	"testing"
	"time"
)

func TestToneProducesExpectedSamples(t *testing.T) {
	dur := 120 * time.Millisecond
	s := tone(880, dur)

	total := 0
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			break
		}
	}

	want := sampleRate.N(dur)
	if total != want {
		t.Errorf("Expected %d samples, got %d", want, total)
	}
}

func TestToneAmplitudeBounded(t *testing.T) {
	s := tone(880, 50*time.Millisecond)

	buf := make([][2]float64, 256)
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			l, r := buf[i][0], buf[i][1]
			if l < -1 || l > 1 || r < -1 || r > 1 {
				t.Fatalf("Sample out of range: %v/%v", l, r)
			}
			if l != r {
				t.Fatal("Cue should be mono across both channels")
			}
		}
		if !ok {
			break
		}
	}
}

func TestToneStartsAndEndsQuiet(t *testing.T) {
	s := tone(880, 50*time.Millisecond)

	var samples [][2]float64
	buf := make([][2]float64, 256)
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			samples = append(samples, buf[i])
		}
		if !ok {
			break
		}
	}

	if v := samples[0][0]; v != 0 {
		t.Errorf("First sample should be faded to silence, got %v", v)
	}
	if v := samples[len(samples)-1][0]; v > 0.01 || v < -0.01 {
		t.Errorf("Last sample should be near silence, got %v", v)
	}
}
