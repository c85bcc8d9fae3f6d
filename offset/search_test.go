package offset

import (
	"encoding/binary"
	"testing"

	"notewatch/layout"
	"notewatch/memory"
)

func TestSearchNearExpectedFindsOffsetCandidate(t *testing.T) {
	data := make([]byte, 0x2000)
	for i := range data {
		data[i] = 0xFF // -1 markers everywhere: fails the [0,100] gate by default
	}
	// Plant a valid JudgeData candidate 16 bytes away from "expected".
	addr := uint64(0x1010)
	binary.LittleEndian.PutUint32(data[addr+layout.Judge.StateMarker1:], 10)
	binary.LittleEndian.PutUint32(data[addr+layout.Judge.StateMarker2:], 20)

	s := NewSearcher(memory.NewBufferReader(0, data))
	got, ok := s.searchNearExpected(0x1000, 64, s.validateJudgeDataCandidate)
	if !ok {
		t.Fatal("expected a candidate to be found")
	}
	if got != addr {
		t.Fatalf("got 0x%x, want 0x%x", got, addr)
	}
}

func TestSearchNearExpectedNoCandidate(t *testing.T) {
	data := make([]byte, 0x200)
	for i := range data {
		data[i] = 0xFF
	}
	s := NewSearcher(memory.NewBufferReader(0, data))
	if _, ok := s.searchNearExpected(0x100, 32, s.validateJudgeDataCandidate); ok {
		t.Fatal("expected no candidate when every marker reads out of range")
	}
}

func TestValidateRelativeDistancesAccepts(t *testing.T) {
	s := NewSearcher(memory.NewBufferReader(0, nil))
	o := Collection{
		PlaySettings: 0x1000,
		JudgeData:    0x1000 + JudgeToPlaySettings,
		SongList:     0x1000 + JudgeToPlaySettings + JudgeToSongList,
		PlayData:     0x1000 + PlaySettingsToPlayData,
		CurrentSong:  0x1000 + JudgeToPlaySettings + JudgeToCurrentSong,
	}
	if err := s.validateRelativeDistances(o); err != nil {
		t.Fatalf("expected exact documented distances to pass, got %v", err)
	}
}

func TestValidateRelativeDistancesRejectsOutOfTolerance(t *testing.T) {
	s := NewSearcher(memory.NewBufferReader(0, nil))
	o := Collection{
		PlaySettings: 0x1000,
		JudgeData:    0x1000 + JudgeToPlaySettings + 10*PlaySettingsSearchRange,
		SongList:     0x1000 + JudgeToPlaySettings + JudgeToSongList,
		PlayData:     0x1000 + PlaySettingsToPlayData,
		CurrentSong:  0x1000 + JudgeToPlaySettings + JudgeToCurrentSong,
	}
	if err := s.validateRelativeDistances(o); err == nil {
		t.Fatal("expected an out-of-tolerance judge_data distance to be rejected")
	}
}

func TestCountValidSongs(t *testing.T) {
	data := make([]byte, 5*layout.SongMemorySize)
	o := layout.SongEntryOffset
	for i := 0; i < 3; i++ {
		entryAddr := uint64(i) * layout.SongMemorySize
		binary.LittleEndian.PutUint32(data[entryAddr+o.SongID:], uint32(1000+i))
	}
	// Leave the fourth slot as song id 0: the scan must stop there rather
	// than skip it, even though the fifth slot below would look valid.
	binary.LittleEndian.PutUint32(data[4*layout.SongMemorySize+o.SongID:], 1004)

	s := NewSearcher(memory.NewBufferReader(0, data))
	if got := s.countValidSongs(0, 5); got != 3 {
		t.Fatalf("got %d valid songs, want 3 consecutive", got)
	}
}

func TestHasSongListMetadataTable(t *testing.T) {
	data := make([]byte, 0x800)
	m := layout.SongMetadataTableEntry
	binary.LittleEndian.PutUint32(data[m.SongID:], 1001)
	binary.LittleEndian.PutUint32(data[m.Folder:], 5)

	s := NewSearcher(memory.NewBufferReader(0, data))
	if !s.hasSongListMetadataTable(0) {
		t.Fatal("expected a valid (song_id, folder) pair to confirm the alternative layout")
	}
}

func TestHasSongListMetadataTableRejectsOutOfRange(t *testing.T) {
	data := make([]byte, 0x800)
	m := layout.SongMetadataTableEntry
	binary.LittleEndian.PutUint32(data[m.SongID:], 1001)
	binary.LittleEndian.PutUint32(data[m.Folder:], 500) // out of [1,200]

	s := NewSearcher(memory.NewBufferReader(0, data))
	if s.hasSongListMetadataTable(0) {
		t.Fatal("expected an out-of-range folder to reject the candidate")
	}
}

func TestProbeDataMapCandidateRejectsBadTableBounds(t *testing.T) {
	data := make([]byte, 64)
	binary.LittleEndian.PutUint64(data[0:], 100) // table_start
	binary.LittleEndian.PutUint64(data[8:], 50)  // table_end < table_start

	s := NewSearcher(memory.NewBufferReader(0, data))
	if _, _, _, ok := s.probeDataMapCandidate(0); ok {
		t.Fatal("expected table_end <= table_start to fail the probe")
	}
}
