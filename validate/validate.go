// Package validate holds the pure, total, never-panicking predicate
// functions used as oracles during offset search: a candidate address is
// only accepted once its pointed-to bytes pass the validator for the
// structure being searched for. Every function here is a plain (inputs) ->
// bool mapping with no I/O, so it is safe to call millions of times across
// a megabyte-scale scan without risk of a false positive cascading into a
// crash.
package validate

// InRange reports whether v lies in [lo, hi] inclusive.
func InRange(v, lo, hi int64) bool {
	return v >= lo && v <= hi
}

// Aligned4 reports whether addr is 4-byte aligned.
func Aligned4(addr uint64) bool {
	return addr%4 == 0
}

// Aligned8 reports whether addr is 8-byte aligned.
func Aligned8(addr uint64) bool {
	return addr%8 == 0
}

// JudgeDataCandidate validates a candidate JudgeData address using its two
// state-marker words: both must be 4-byte aligned by construction (caller's
// job) and each marker must sit in the sane [0,100] gauge/percentage range
// the game actually uses for these bytes when idle.
func JudgeDataCandidate(addr uint64, marker1, marker2 int32) bool {
	return Aligned4(addr) && InRange(int64(marker1), 0, 100) && InRange(int64(marker2), 0, 100)
}

// IsPowerOfTwo reports whether n is a positive power of two. CurrentSong
// uses this to reject address-aliasing artifacts: a raw pointer value
// read back as if it were a song_id tends to land on a power of two.
func IsPowerOfTwo(n int32) bool {
	return n > 0 && n&(n-1) == 0
}

// PlayDataCandidate validates a candidate PlayData address from its
// song_id, difficulty, and lamp fields. The all-zero triple is the
// sentinel PlayData carries between plays and before the first result;
// any other combination must fall within the domain each field actually
// uses.
func PlayDataCandidate(songID, difficulty, lamp int32) bool {
	if songID == 0 && difficulty == 0 && lamp == 0 {
		return true
	}
	return InRange(int64(songID), 1000, 90000) &&
		InRange(int64(difficulty), 0, 9) &&
		InRange(int64(lamp), 0, 7)
}

// PlaySettingsCandidate validates a candidate PlaySettings address from its
// five option words plus the song-select marker, which is only ever 0 or 1.
func PlaySettingsCandidate(style, gauge, assist, flip, rang, songSelectMarker int32) bool {
	return InRange(int64(style), 0, 6) &&
		InRange(int64(gauge), 0, 4) &&
		InRange(int64(assist), 0, 5) &&
		InRange(int64(flip), 0, 1) &&
		InRange(int64(rang), 0, 5) &&
		(songSelectMarker == 0 || songSelectMarker == 1)
}

// CurrentSongCandidate validates a candidate CurrentSong address from its
// song_id, difficulty, and auxiliary fields. CurrentSong uses a tighter
// bound than PlayData because it only ever names songs already present in
// the loaded SongList, never the sentinel/placeholder IDs PlayData can
// carry between plays; a song_id that is a power of two is rejected as an
// address-aliasing artifact rather than a real song.
func CurrentSongCandidate(songID, difficulty, aux int32) bool {
	if songID == 0 && difficulty == 0 && aux == 0 {
		return true
	}
	return InRange(int64(songID), 1000, 50000) &&
		!IsPowerOfTwo(songID) &&
		InRange(int64(difficulty), 0, 9) &&
		InRange(int64(aux), 0, 10000)
}

// UnlockDataCandidate validates a decoded UnlockData entry.
func UnlockDataCandidate(songID int32, unlockType int32) bool {
	return InRange(int64(songID), 1000, 90000) && InRange(int64(unlockType), 0, 3)
}

// DataMapTableSize validates a candidate DataMap bucket-table byte size:
// must fall within the documented table-size envelope and be a whole
// multiple of the 8-byte slot size.
func DataMapTableSize(tableSize uint64) bool {
	const minSize, maxSize = 0x2000, 0x1000000
	return tableSize >= minSize && tableSize <= maxSize && tableSize%8 == 0
}

// DataMapNode validates one sampled DataMap bucket entry's decoded fields.
func DataMapNode(songID int32, playType int32, score int32, missCount int32, lamp int32) bool {
	return InRange(int64(songID), 0, 90000) &&
		InRange(int64(playType), 0, 2) &&
		score >= 0 &&
		missCount >= -1 &&
		InRange(int64(lamp), 0, 8)
}

// SongEntry validates a decoded SongInfo candidate against spec.md §3: a
// non-empty title, song_id in [1000,90000], folder in [1,200], and every
// difficulty level at most 12.
func SongEntry(songID, folder int32, title string, levels [10]uint8) bool {
	if title == "" {
		return false
	}
	if !InRange(int64(songID), 1000, 90000) {
		return false
	}
	if !InRange(int64(folder), 1, 200) {
		return false
	}
	for _, lvl := range levels {
		if lvl > 12 {
			return false
		}
	}
	return true
}

// SongListMetadataTable validates the (song_id, folder) confirmation pair
// read at a SongList candidate's metadata side-table, used to accept the
// alternative 312-byte layout when the legacy per-entry validator doesn't
// reach the minimum expected song count (spec.md §3, §4.4 step 1).
func SongListMetadataTable(songID, folder int32) bool {
	return InRange(int64(songID), 1000, 90000) && InRange(int64(folder), 1, 200)
}
