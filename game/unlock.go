package game

import (
	"encoding/binary"

	"notewatch/layout"
)

// UnlockData is the per-song unlock bitmask decoded from UnlockData memory.
type UnlockData struct {
	SongID     int32
	UnlockType layout.UnlockType
	Unlocks    int32 // bitmask of unlocked difficulties
}

// UnlockDataMemorySize is the size of one UnlockData entry in memory.
const UnlockDataMemorySize = layout.UnlockMemorySize

// IsDifficultyUnlocked tests whether a given difficulty's bit is set.
func (u UnlockData) IsDifficultyUnlocked(d layout.Difficulty) bool {
	bit := int32(1) << uint(d)
	return u.Unlocks&bit != 0
}

// UnlockDataFromBytes decodes a raw UnlockData entry, returning false if
// bytes is shorter than UnlockDataMemorySize.
func UnlockDataFromBytes(b []byte) (UnlockData, bool) {
	if len(b) < UnlockDataMemorySize {
		return UnlockData{}, false
	}

	songID := int32(binary.LittleEndian.Uint32(b[0:4]))
	unlockTypeVal := int32(binary.LittleEndian.Uint32(b[4:8]))
	unlocks := int32(binary.LittleEndian.Uint32(b[8:12]))

	var unlockType layout.UnlockType
	switch unlockTypeVal {
	case 1:
		unlockType = layout.UnlockBase
	case 2:
		unlockType = layout.UnlockBits
	case 3:
		unlockType = layout.UnlockSub
	default:
		unlockType = layout.UnlockBase
	}

	return UnlockData{SongID: songID, UnlockType: unlockType, Unlocks: unlocks}, true
}
