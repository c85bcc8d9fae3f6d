package game

import "notewatch/layout"

// SongInfo is the metadata and per-difficulty chart stats for one song
// entry decoded from the SongList.
type SongInfo struct {
	ID           string
	Title        string
	TitleEnglish string
	Artist       string
	Genre        string
	BPM          string
	Folder       int32
	// Levels and TotalNotes are indexed by Difficulty (SpB..DpL).
	Levels     [10]uint8
	TotalNotes [10]uint32
	UnlockType layout.UnlockType
}

// MemorySize is the size of one song entry in the legacy song list layout.
const MemorySize = layout.SongMemorySize

// GetLevel returns the level for a difficulty index, or 0 if out of range.
func (s SongInfo) GetLevel(difficultyIndex int) uint8 {
	if difficultyIndex < 0 || difficultyIndex >= len(s.Levels) {
		return 0
	}
	return s.Levels[difficultyIndex]
}

// GetTotalNotes returns the note count for a difficulty index, or 0 if out
// of range.
func (s SongInfo) GetTotalNotes(difficultyIndex int) uint32 {
	if difficultyIndex < 0 || difficultyIndex >= len(s.TotalNotes) {
		return 0
	}
	return s.TotalNotes[difficultyIndex]
}
