package state

import (
	"testing"

	"notewatch/layout"
)

func TestDetectPlaying(t *testing.T) {
	d := NewDetector()
	if got := d.Detect(1, 1, 0); got != layout.Playing {
		t.Fatalf("got %v, want Playing", got)
	}
}

func TestDetectSongSelectNeverRegressesToResultScreen(t *testing.T) {
	d := NewDetector()
	if got := d.Detect(0, 0, 1); got != layout.SongSelect {
		t.Fatalf("got %v, want SongSelect", got)
	}
	// Markers go back to all-zero without an explicit select marker; since
	// we were in SongSelect, we must not flip straight to ResultScreen.
	if got := d.Detect(0, 0, 0); got != layout.SongSelect {
		t.Fatalf("got %v, want SongSelect (no direct SongSelect->ResultScreen)", got)
	}
}

func TestDetectResultScreenFallthrough(t *testing.T) {
	d := NewDetector()
	if got := d.Detect(0, 0, 0); got != layout.ResultScreen {
		t.Fatalf("got %v, want ResultScreen", got)
	}
}

func TestDetectFullTrace(t *testing.T) {
	d := NewDetector()
	trace := []struct {
		m54, m55, sel int32
		want          layout.GameState
	}{
		{0, 0, 1, layout.SongSelect},
		{1, 1, 0, layout.Playing},
		{0, 0, 0, layout.ResultScreen},
		{0, 0, 1, layout.SongSelect},
	}
	for i, step := range trace {
		got := d.Detect(step.m54, step.m55, step.sel)
		if got != step.want {
			t.Fatalf("step %d: got %v, want %v", i, got, step.want)
		}
	}
}

func TestReset(t *testing.T) {
	d := NewDetector()
	d.Detect(1, 1, 0)
	d.Reset()
	if d.LastState() != layout.Unknown {
		t.Fatalf("expected Unknown after reset, got %v", d.LastState())
	}
}
