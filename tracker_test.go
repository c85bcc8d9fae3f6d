package main

import (
	"encoding/binary"
	"testing"
	"time"

	"notewatch/config"
	"notewatch/layout"
	"notewatch/memory"
	"notewatch/offset"
)

func newTestTracker(t *testing.T) (*Tracker, []byte) {
	t.Helper()
	data := make([]byte, 0x10000)
	reader := memory.NewBufferReader(0, data)

	offsets := offset.Collection{
		Version:      "test",
		JudgeData:    0x1000,
		PlaySettings: 0x2000,
		PlayData:     0x3000,
		SongList:     0x4000,
		CurrentSong:  0x5000,
	}

	cfg := config.DefaultConfig()
	cfg.SessionDir = t.TempDir()
	cfg.MinExpectedSongs = 4

	return NewTracker(reader, offsets, cfg), data
}

func putI32(data []byte, addr uint64, v int32) {
	binary.LittleEndian.PutUint32(data[addr:], uint32(v))
}

func TestPollDetectsPlayingState(t *testing.T) {
	tr, data := newTestTracker(t)
	putI32(data, tr.offsets.JudgeData+layout.Judge.StateMarker1, 50)
	putI32(data, tr.offsets.JudgeData+layout.Judge.StateMarker2, 50)

	if err := tr.poll(); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if tr.prevState != layout.Playing {
		t.Fatalf("got state %v, want Playing", tr.prevState)
	}
}

func TestPollCapturesPlayOnResultTransition(t *testing.T) {
	tr, data := newTestTracker(t)
	if err := tr.StartSession(time.Date(2026, 1, 28, 12, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	// Tick 1: Playing. CurrentSong is armed with song 1000 so the
	// ResultScreen cross-check below agrees with PlayData's song_id.
	putI32(data, tr.offsets.JudgeData+layout.Judge.StateMarker1, 50)
	putI32(data, tr.offsets.JudgeData+layout.Judge.StateMarker2, 50)
	putI32(data, tr.offsets.CurrentSong+layout.CurrentSong.SongID, 1000)
	putI32(data, tr.offsets.CurrentSong+layout.CurrentSong.Difficulty, int32(layout.SpA))
	if err := tr.poll(); err != nil {
		t.Fatalf("poll 1: %v", err)
	}

	// Tick 2: markers drop to 0, PlaySettings marker also 0 -> ResultScreen.
	putI32(data, tr.offsets.JudgeData+layout.Judge.StateMarker1, 0)
	putI32(data, tr.offsets.JudgeData+layout.Judge.StateMarker2, 0)
	putI32(data, tr.offsets.PlaySettings-layout.Settings.SongSelectMarker, 0)
	putI32(data, tr.offsets.PlayData+layout.Play.SongID, 1000)
	putI32(data, tr.offsets.PlayData+layout.Play.Difficulty, int32(layout.SpA))
	putI32(data, tr.offsets.PlayData+layout.Play.Lamp, int32(layout.FullCombo))
	putI32(data, tr.offsets.JudgeData+layout.Judge.P1PGreat, 900)

	if err := tr.poll(); err != nil {
		t.Fatalf("poll 2: %v", err)
	}
	if tr.prevState != layout.ResultScreen {
		t.Fatalf("got state %v, want ResultScreen", tr.prevState)
	}

	best, ok := tr.scores.Get("1000")
	if !ok {
		t.Fatal("expected a score entry for song 1000")
	}
	if best.GetScore(layout.SpA) != 1800 {
		t.Fatalf("got score %d, want 1800", best.GetScore(layout.SpA))
	}
}

func TestPollDiscardsResultWhenSongIDDisagreesWithArmedChart(t *testing.T) {
	tr, data := newTestTracker(t)
	if err := tr.StartSession(time.Date(2026, 1, 28, 12, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	// Tick 1: Playing, armed chart is song 1000.
	putI32(data, tr.offsets.JudgeData+layout.Judge.StateMarker1, 50)
	putI32(data, tr.offsets.JudgeData+layout.Judge.StateMarker2, 50)
	putI32(data, tr.offsets.CurrentSong+layout.CurrentSong.SongID, 1000)
	if err := tr.poll(); err != nil {
		t.Fatalf("poll 1: %v", err)
	}

	// Tick 2: ResultScreen, but PlayData now names a different song - the
	// four reads weren't atomic, so this snapshot must be discarded rather
	// than emitted or attributed to the wrong chart.
	putI32(data, tr.offsets.JudgeData+layout.Judge.StateMarker1, 0)
	putI32(data, tr.offsets.JudgeData+layout.Judge.StateMarker2, 0)
	putI32(data, tr.offsets.PlaySettings-layout.Settings.SongSelectMarker, 0)
	putI32(data, tr.offsets.PlayData+layout.Play.SongID, 2000)
	putI32(data, tr.offsets.PlayData+layout.Play.Difficulty, int32(layout.SpA))
	putI32(data, tr.offsets.PlayData+layout.Play.Lamp, int32(layout.FullCombo))

	if err := tr.poll(); err != nil {
		t.Fatalf("poll 2: %v", err)
	}
	if _, ok := tr.scores.Get("1000"); ok {
		t.Fatal("expected no score entry for the armed chart")
	}
	if _, ok := tr.scores.Get("2000"); ok {
		t.Fatal("expected the mismatched snapshot to be discarded, not emitted under the new song")
	}
}

func TestLoadSongDirectorySkipsInvalidEntries(t *testing.T) {
	tr, data := newTestTracker(t)
	o := layout.SongEntryOffset

	// Entry 0: valid - title, song_id, folder all in range, SPA notes set.
	entry0 := tr.offsets.SongList
	copy(data[entry0+o.Title:], []byte("dive into yourself"))
	putI32(data, entry0+o.SongID, 1000)
	putI32(data, entry0+o.Folder, 5)
	binary.LittleEndian.PutUint16(data[entry0+o.NoteCounts+uint64(layout.SpA)*2:], 500)

	// Entry 1: valid song_id/folder but no title (invalid).
	entry1 := tr.offsets.SongList + layout.SongMemorySize
	putI32(data, entry1+o.SongID, 1001)
	putI32(data, entry1+o.Folder, 5)

	// Entries 2, 3: zero id, zero title (invalid).

	n, err := tr.LoadSongDirectory()
	if err != nil {
		t.Fatalf("LoadSongDirectory: %v", err)
	}
	if n != 1 {
		t.Fatalf("got %d valid songs, want 1", n)
	}
	song, ok := tr.songs["1000"]
	if !ok {
		t.Fatal("expected song 1000 to be loaded")
	}
	if song.Title != "dive into yourself" {
		t.Errorf("got title %q, want %q", song.Title, "dive into yourself")
	}
	if song.GetTotalNotes(int(layout.SpA)) != 500 {
		t.Errorf("got SPA notes %d, want 500", song.GetTotalNotes(int(layout.SpA)))
	}
}
