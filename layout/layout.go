// Package layout centralizes the byte-offset constants used to read
// INFINITAS data structures out of raw process memory. Nothing here touches
// a process handle; it only describes where fields live relative to a
// structure's base address.
package layout

// Word is the size of a single 32-bit field used throughout these structures.
const Word = 4

// Judge holds the byte offsets within the JudgeData structure.
var Judge = struct {
	P1PGreat, P1Great, P1Good, P1Bad, P1Poor                 uint64
	P2PGreat, P2Great, P2Good, P2Bad, P2Poor                 uint64
	P1ComboBreak, P2ComboBreak                               uint64
	P1Fast, P2Fast, P1Slow, P2Slow                           uint64
	P1MeasureEnd, P2MeasureEnd                               uint64
	StateMarker1, StateMarker2                               uint64
	P1Gauge, P2Gauge                                         uint64
	InitialZeroSize                                          int
}{
	P1PGreat: 0, P1Great: Word, P1Good: Word * 2, P1Bad: Word * 3, P1Poor: Word * 4,
	P2PGreat: Word * 5, P2Great: Word * 6, P2Good: Word * 7, P2Bad: Word * 8, P2Poor: Word * 9,
	P1ComboBreak: Word * 10, P2ComboBreak: Word * 11,
	P1Fast: Word * 12, P2Fast: Word * 13, P1Slow: Word * 14, P2Slow: Word * 15,
	P1MeasureEnd: Word * 16, P2MeasureEnd: Word * 17,
	StateMarker1: Word * 54, StateMarker2: Word * 55,
	P1Gauge: Word * 81, P2Gauge: Word * 82,
	// P1 (5) + P2 (5) + combo-break (2) + fast/slow (4) + measure-end (2) = 18 words.
	InitialZeroSize: 72,
}

// Play holds the byte offsets within the PlayData structure.
var Play = struct {
	SongID, Difficulty, Lamp uint64
}{
	SongID: 0, Difficulty: Word, Lamp: Word * 6,
}

// CurrentSong holds the byte offsets within the CurrentSong structure.
var CurrentSong = struct {
	SongID, Difficulty, Aux uint64
}{
	SongID: 0, Difficulty: Word, Aux: Word * 2,
}

// Settings holds the byte offsets within the PlaySettings structure. The
// five words (style/gauge/assist/flip/range) and the song-select sentinel
// are the ones the search pipeline validates against. SongSelectMarker is
// read at the base minus this offset. The second player's mirrored block
// starts game.P2SettingsOffset bytes after the base.
var Settings = struct {
	Style, Gauge, Assist, Flip, Range uint64
	SongSelectMarker                  uint64
}{
	Style: 0, Gauge: Word, Assist: Word * 2, Flip: Word * 3, Range: Word * 4,
	SongSelectMarker: Word * 6,
}

// Timing constants governing the tracker's poll loop.
const (
	GameStatePollIntervalMS  = 100
	ServerSyncRequestDelayMS = 20
)

// SongList entry layout (legacy 0x3F0-byte records).
var SongEntryOffset = struct {
	Title, BPM, Levels, NoteCounts, SongID, Folder uint64
}{
	Title: 0, BPM: 256, Levels: 288, NoteCounts: 500, SongID: 624, Folder: 628,
}

// Song decode layout.
const (
	SongMemorySize   = 0x3F0
	UnlockMemorySize = 32

	// TitleFieldSize and BPMFieldSize bound the fixed-capacity windows for
	// the two Shift-JIS text fields in a SongList entry: title occupies
	// the 256 bytes before the BPM string, BPM the 32 bytes before the
	// difficulty levels.
	TitleFieldSize = 256
	BPMFieldSize   = 32

	// SongMemorySizeAlt is the alternative, newer per-entry record size a
	// SongList candidate may use instead of the legacy SongMemorySize.
	SongMemorySizeAlt = 312

	// SongMetadataTableOffset locates the (song_id, folder) confirmation
	// pair a candidate address must carry when the legacy validator can't
	// reach the minimum expected song count on its own.
	SongMetadataTableOffset = 0x7E0
)

// SongMetadataTableEntry is the (song_id, folder) pair read at
// base+SongMetadataTableOffset, used to confirm a SongList candidate under
// the alternative 312-byte layout.
var SongMetadataTableEntry = struct {
	SongID, Folder uint64
}{
	SongID: SongMetadataTableOffset, Folder: SongMetadataTableOffset + 4,
}
