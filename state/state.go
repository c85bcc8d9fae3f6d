// Package state implements the game-state detector the tracker loop polls
// each tick: three raw sentinel words in, one GameState out.
package state

import "notewatch/layout"

// Detector tracks the last observed GameState so it can apply the
// SongSelect-never-regresses-to-ResultScreen rule.
type Detector struct {
	lastState layout.GameState
}

// NewDetector returns a Detector starting in the Unknown state.
func NewDetector() *Detector {
	return &Detector{lastState: layout.Unknown}
}

// Detect determines the current GameState from the three JudgeData/
// PlaySettings sentinel words read this tick.
//
//   - Both JudgeData state markers nonzero: Playing.
//   - Last state was SongSelect: stays SongSelect (song select never jumps
//     straight to the result screen).
//   - PlaySettings' song-select marker equals 1: SongSelect.
//   - Otherwise: ResultScreen.
func (d *Detector) Detect(judgeMarker54, judgeMarker55, songSelectMarker int32) layout.GameState {
	if judgeMarker54 != 0 && judgeMarker55 != 0 {
		d.lastState = layout.Playing
		return layout.Playing
	}

	if d.lastState == layout.SongSelect {
		return layout.SongSelect
	}

	if songSelectMarker == 1 {
		d.lastState = layout.SongSelect
		return layout.SongSelect
	}

	d.lastState = layout.ResultScreen
	return layout.ResultScreen
}

// Reset returns the detector to Unknown, used when reconnecting to a fresh
// process instance.
func (d *Detector) Reset() {
	d.lastState = layout.Unknown
}

// LastState returns the most recently detected state.
func (d *Detector) LastState() layout.GameState {
	return d.lastState
}
