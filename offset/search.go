package offset

import (
	"fmt"
	"log"

	"notewatch/layout"
	"notewatch/memory"
	"notewatch/signature"
	"notewatch/validate"
)

// Documented architectural distances between structures, stable across the
// nine game versions the original implementation was analyzed against (see
// the offset-relationship diagram this is grounded on). Each carries its
// own tolerance for the post-hoc relative-distance gate and the proximity
// fallback's search radius.
const (
	JudgeToPlaySettings = 0x2ACE00
	JudgeToSongList     = 0x94E000
	PlaySettingsToPlayData = 0x2B0
	JudgeToCurrentSong     = 0x1E4

	PlaySettingsSearchRange = 0x1000
	JudgeDataSearchRange    = 0x100000
	PlayDataSearchRange     = 0x1000
	CurrentSongSearchRange  = 0x1000

	// Relative-distance gate tolerances (spec.md §4.4 table). These differ
	// from the proximity-search ranges above (tighter for JudgeData,
	// PlayData and CurrentSong; wider for PlaySettings, 0x2000 against a
	// 0x1000 search range): the search ranges bound how far a fallback scan looks, while the gate
	// tolerances bound how far a *resolved* pair of offsets, however each
	// was found, is allowed to drift from the documented architecture
	// before the whole collection is rejected.
	JudgeToPlaySettingsTolerance = 0x2000
	JudgeToSongListTolerance     = 0x10000
	PlaySettingsToPlayDataTolerance = 0x100
	JudgeToCurrentSongTolerance     = 0x100

	dataMapNodeSamples = 32
	dataMapNodeSize    = 64
)

// Searcher resolves a Collection's addresses against a live (or buffered)
// process, anchored by a signature file and falling back to proximity
// search when a signature fails to resolve.
type Searcher struct {
	reader memory.ReadMemory
}

// NewSearcher creates a Searcher reading through r.
func NewSearcher(r memory.ReadMemory) *Searcher {
	return &Searcher{reader: r}
}

// SearchAll runs the full seven-phase pipeline: SongList, JudgeData,
// PlaySettings, PlayData, CurrentSong, DataMap, UnlockData. Every phase
// tries signature resolution; JudgeData, PlaySettings, PlayData and
// CurrentSong fall back to a proximity search around an already-found
// address, while SongList, DataMap and UnlockData have no fallback. A
// DataMap or UnlockData failure is logged and leaves that address zero.
// The result is validated against the documented relative distances before
// being returned.
func (s *Searcher) SearchAll(sigs signature.OffsetSignatureSet, minExpectedSongs int) (Collection, error) {
	offsets := Collection{Version: sigs.Version}

	songList, err := s.searchSongListOffset(sigs, minExpectedSongs)
	if err != nil {
		return Collection{}, fmt.Errorf("song list: %w", err)
	}
	offsets.SongList = songList
	log.Printf("offset search: SongList resolved to 0x%x", songList)

	judgeData, err := s.resolveByNameOrProximity(sigs, "JudgeData", s.validateJudgeDataCandidate, func() (uint64, error) {
		return s.searchJudgeDataNearSongList(songList)
	})
	if err != nil {
		return Collection{}, fmt.Errorf("judge data: %w", err)
	}
	offsets.JudgeData = judgeData
	log.Printf("offset search: JudgeData resolved to 0x%x", judgeData)

	playSettings, err := s.resolveByNameOrProximity(sigs, "PlaySettings", s.validatePlaySettingsCandidate, func() (uint64, error) {
		return s.searchPlaySettingsNearJudgeData(judgeData)
	})
	if err != nil {
		return Collection{}, fmt.Errorf("play settings: %w", err)
	}
	offsets.PlaySettings = playSettings
	log.Printf("offset search: PlaySettings resolved to 0x%x", playSettings)

	playData, err := s.resolveByNameOrProximity(sigs, "PlayData", s.validatePlayDataCandidate, func() (uint64, error) {
		return s.searchPlayDataNearPlaySettings(playSettings)
	})
	if err != nil {
		return Collection{}, fmt.Errorf("play data: %w", err)
	}
	offsets.PlayData = playData
	log.Printf("offset search: PlayData resolved to 0x%x", playData)

	currentSong, err := s.resolveByNameOrProximity(sigs, "CurrentSong", s.validateCurrentSongCandidate, func() (uint64, error) {
		return s.searchCurrentSongNearJudgeData(judgeData)
	})
	if err != nil {
		return Collection{}, fmt.Errorf("current song: %w", err)
	}
	offsets.CurrentSong = currentSong
	log.Printf("offset search: CurrentSong resolved to 0x%x", currentSong)

	if dataMap, err := s.searchDataMapOffset(sigs); err != nil {
		log.Printf("offset search: DataMap not resolved: %v", err)
	} else {
		offsets.DataMap = dataMap
		log.Printf("offset search: DataMap resolved to 0x%x", dataMap)
	}

	if unlockData, err := s.searchUnlockDataOffset(sigs); err != nil {
		log.Printf("offset search: UnlockData not resolved: %v", err)
	} else {
		offsets.UnlockData = unlockData
		log.Printf("offset search: UnlockData resolved to 0x%x", unlockData)
	}

	if err := s.validateRelativeDistances(offsets); err != nil {
		return Collection{}, err
	}

	return offsets, nil
}

// resolveByNameOrProximity tries every signature registered under name, in
// order, falling back to a proximity search when none resolve.
func (s *Searcher) resolveByNameOrProximity(sigs signature.OffsetSignatureSet, name string, validate func(uint64) bool, fallback func() (uint64, error)) (uint64, error) {
	entry, ok := sigs.Entry(name)
	if ok {
		for _, sig := range entry.Signatures {
			candidates, err := signature.ResolveSignatureTargets(s.reader, sig)
			if err != nil {
				continue
			}
			var valid []uint64
			for _, addr := range candidates {
				if addr%4 == 0 && validate(addr) {
					valid = append(valid, addr)
				}
			}
			if len(valid) > 0 {
				return minUint64(valid), nil
			}
		}
	}
	return fallback()
}

// searchNearExpected does an expanding +/-delta proximity search in 4-byte
// steps out to range, checking the expected address first.
func (s *Searcher) searchNearExpected(expected uint64, rnge uint64, validate func(uint64) bool) (uint64, bool) {
	const step = 4
	for delta := uint64(0); delta <= rnge; delta += step {
		if delta == 0 {
			if expected%4 == 0 && validate(expected) {
				return expected, true
			}
			continue
		}
		if expected >= delta {
			if addr := expected - delta; addr%4 == 0 && validate(addr) {
				return addr, true
			}
		}
		if addr := expected + delta; addr%4 == 0 && validate(addr) {
			return addr, true
		}
	}
	return 0, false
}

func (s *Searcher) searchJudgeDataNearSongList(songList uint64) (uint64, error) {
	expected := songList - JudgeToSongList
	if addr, ok := s.searchNearExpected(expected, JudgeDataSearchRange, s.validateJudgeDataCandidate); ok {
		return addr, nil
	}
	return 0, fmt.Errorf("no valid candidates for JudgeData near SongList")
}

func (s *Searcher) searchPlaySettingsNearJudgeData(judgeData uint64) (uint64, error) {
	expected := judgeData - JudgeToPlaySettings
	if addr, ok := s.searchNearExpected(expected, PlaySettingsSearchRange, s.validatePlaySettingsCandidate); ok {
		return addr, nil
	}
	return 0, fmt.Errorf("no valid candidates for PlaySettings near JudgeData")
}

func (s *Searcher) searchPlayDataNearPlaySettings(playSettings uint64) (uint64, error) {
	expected := playSettings + PlaySettingsToPlayData
	if addr, ok := s.searchNearExpected(expected, PlayDataSearchRange, s.validatePlayDataCandidate); ok {
		return addr, nil
	}
	return 0, fmt.Errorf("no valid candidates for PlayData near PlaySettings")
}

func (s *Searcher) searchCurrentSongNearJudgeData(judgeData uint64) (uint64, error) {
	expected := judgeData + JudgeToCurrentSong
	if addr, ok := s.searchNearExpected(expected, CurrentSongSearchRange, s.validateCurrentSongCandidate); ok {
		return addr, nil
	}
	return 0, fmt.Errorf("no valid candidates for CurrentSong near JudgeData")
}

func (s *Searcher) validateJudgeDataCandidate(addr uint64) bool {
	m1, err1 := memory.ReadI32(s.reader, addr+layout.Judge.StateMarker1)
	m2, err2 := memory.ReadI32(s.reader, addr+layout.Judge.StateMarker2)
	if err1 != nil || err2 != nil {
		return false
	}
	return validate.JudgeDataCandidate(addr, m1, m2)
}

func (s *Searcher) validatePlaySettingsCandidate(addr uint64) bool {
	style, err1 := memory.ReadI32(s.reader, addr+layout.Settings.Style)
	gauge, err2 := memory.ReadI32(s.reader, addr+layout.Settings.Gauge)
	assist, err3 := memory.ReadI32(s.reader, addr+layout.Settings.Assist)
	flip, err4 := memory.ReadI32(s.reader, addr+layout.Settings.Flip)
	rang, err5 := memory.ReadI32(s.reader, addr+layout.Settings.Range)
	marker, err6 := memory.ReadI32(s.reader, addr-layout.Settings.SongSelectMarker)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil || err6 != nil {
		return false
	}
	return validate.PlaySettingsCandidate(style, gauge, assist, flip, rang, marker)
}

func (s *Searcher) validatePlayDataCandidate(addr uint64) bool {
	songID, err1 := memory.ReadI32(s.reader, addr+layout.Play.SongID)
	diff, err2 := memory.ReadI32(s.reader, addr+layout.Play.Difficulty)
	lamp, err3 := memory.ReadI32(s.reader, addr+layout.Play.Lamp)
	if err1 != nil || err2 != nil || err3 != nil {
		return false
	}
	return validate.PlayDataCandidate(songID, diff, lamp)
}

func (s *Searcher) validateCurrentSongCandidate(addr uint64) bool {
	songID, err1 := memory.ReadI32(s.reader, addr+layout.CurrentSong.SongID)
	diff, err2 := memory.ReadI32(s.reader, addr+layout.CurrentSong.Difficulty)
	aux, err3 := memory.ReadI32(s.reader, addr+layout.CurrentSong.Aux)
	if err1 != nil || err2 != nil || err3 != nil {
		return false
	}
	return validate.CurrentSongCandidate(songID, diff, aux)
}

// searchSongListOffset resolves candidates from the SongList signature entry
// and accepts the first 4-byte-aligned one that either starts
// minExpectedSongs consecutive valid legacy entries or carries the
// alternative layout's metadata side-table. There is no byte-search
// fallback: without a resolving SongList signature the search fails.
func (s *Searcher) searchSongListOffset(sigs signature.OffsetSignatureSet, minExpectedSongs int) (uint64, error) {
	entry, ok := sigs.Entry("SongList")
	if !ok {
		return 0, fmt.Errorf("no SongList signature entry")
	}

	for _, sig := range entry.Signatures {
		candidates, err := signature.ResolveSignatureTargets(s.reader, sig)
		if err != nil {
			continue
		}
		for _, addr := range candidates {
			if addr%4 != 0 {
				continue
			}
			if s.countValidSongs(addr, minExpectedSongs) >= minExpectedSongs {
				return addr, nil
			}
			// Legacy layout didn't reach the bar; this address may still be
			// a valid anchor under the alternative 312-byte layout, which
			// this searcher doesn't decode entries for but can confirm via
			// the metadata side-table (spec.md §3, §4.4 step 1).
			if s.hasSongListMetadataTable(addr) {
				return addr, nil
			}
		}
	}

	return 0, fmt.Errorf("no SongList candidate reached the minimum expected song count (%d)", minExpectedSongs)
}

// hasSongListMetadataTable reports whether addr carries a plausible
// (song_id, folder) confirmation pair at the alternative layout's metadata
// side-table offset.
func (s *Searcher) hasSongListMetadataTable(addr uint64) bool {
	m := layout.SongMetadataTableEntry
	songID, err1 := memory.ReadI32(s.reader, addr+m.SongID)
	folder, err2 := memory.ReadI32(s.reader, addr+m.Folder)
	if err1 != nil || err2 != nil {
		return false
	}
	return validate.SongListMetadataTable(songID, folder)
}

// countValidSongs walks entries of SongMemorySize starting at addr and
// returns the number of consecutive valid entries from the front (spec.md
// §4.2): the scan stops at the first entry whose song_id falls outside the
// legacy layout's valid range, since a real SongList is densely packed and
// a gap that early means addr isn't a real table start.
func (s *Searcher) countValidSongs(addr uint64, limit int) int {
	o := layout.SongEntryOffset
	count := 0
	for i := 0; i < limit; i++ {
		entryAddr := addr + uint64(i)*layout.SongMemorySize
		songID, err := memory.ReadI32(s.reader, entryAddr+o.SongID)
		if err != nil {
			break
		}
		if songID < 1000 || songID > 90000 {
			break
		}
		count++
	}
	return count
}

// searchDataMapOffset resolves the DataMap bucket table and ranks
// candidates by how many sampled bucket entries decode into a plausible
// Node, preferring smaller, denser tables over larger sparse ones.
func (s *Searcher) searchDataMapOffset(sigs signature.OffsetSignatureSet) (uint64, error) {
	entry, ok := sigs.Entry("DataMap")
	if !ok {
		return 0, fmt.Errorf("no DataMap signature entry")
	}

	var best uint64
	var bestValidNodes = -1
	var bestNonNull = -1
	var bestTableSize uint64 = ^uint64(0)
	found := false

	for _, sig := range entry.Signatures {
		candidates, err := signature.ResolveSignatureTargets(s.reader, sig)
		if err != nil {
			continue
		}
		for _, addr := range candidates {
			validNodes, nonNull, tableSize, ok := s.probeDataMapCandidate(addr)
			if !ok {
				continue
			}
			if !found || validNodes > bestValidNodes ||
				(validNodes == bestValidNodes && nonNull > bestNonNull) ||
				(validNodes == bestValidNodes && nonNull == bestNonNull && tableSize < bestTableSize) {
				best, bestValidNodes, bestNonNull, bestTableSize, found = addr, validNodes, nonNull, tableSize, true
			}
		}
	}

	if !found {
		return 0, fmt.Errorf("no DataMap candidate probed successfully")
	}
	return best, nil
}

// probeDataMapCandidate reads the bucket-table header at addr and samples
// up to dataMapNodeSamples non-null entries, returning how many decoded
// into a plausible Node.
func (s *Searcher) probeDataMapCandidate(addr uint64) (validNodes, nonNull int, tableSize uint64, ok bool) {
	tableStart, err := memory.ReadU64(s.reader, addr)
	if err != nil {
		return 0, 0, 0, false
	}
	tableEnd, err := memory.ReadU64(s.reader, addr+8)
	if err != nil {
		return 0, 0, 0, false
	}
	if tableEnd <= tableStart {
		return 0, 0, 0, false
	}
	size := tableEnd - tableStart
	if !validate.DataMapTableSize(size) {
		return 0, 0, 0, false
	}

	slots := int(size / 8)
	sampled := 0
	for i := 0; i < slots && sampled < dataMapNodeSamples; i++ {
		entryAddr, err := memory.ReadU64(s.reader, tableStart+uint64(i)*8)
		if err != nil || entryAddr == 0 {
			continue
		}
		sampled++
		nonNull++
		if s.validateDataMapNode(entryAddr) {
			validNodes++
		}
	}

	return validNodes, nonNull, size, true
}

func (s *Searcher) validateDataMapNode(addr uint64) bool {
	node, err := s.reader.ReadBytes(addr, dataMapNodeSize)
	if err != nil || len(node) < 24 {
		return false
	}
	songID, err1 := memory.ReadI32(s.reader, addr+0)
	playType, err2 := memory.ReadI32(s.reader, addr+4)
	score, err3 := memory.ReadI32(s.reader, addr+8)
	missCount, err4 := memory.ReadI32(s.reader, addr+12)
	lamp, err5 := memory.ReadI32(s.reader, addr+16)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return false
	}
	return validate.DataMapNode(songID, playType, score, missCount, lamp)
}

// searchUnlockDataOffset scans for the UnlockData signature pattern and, per
// the original heuristic, takes the last match rather than the first: the
// unlock table's earliest entries are reused as scratch space by other
// systems during song select.
func (s *Searcher) searchUnlockDataOffset(sigs signature.OffsetSignatureSet) (uint64, error) {
	entry, ok := sigs.Entry("UnlockData")
	if !ok {
		return 0, fmt.Errorf("no UnlockData signature entry")
	}

	var last uint64
	found := false
	for _, sig := range entry.Signatures {
		candidates, err := signature.ResolveSignatureTargets(s.reader, sig)
		if err != nil {
			continue
		}
		for _, addr := range candidates {
			data, err := s.reader.ReadBytes(addr, layout.UnlockMemorySize)
			if err != nil {
				continue
			}
			songID, err1 := memory.ReadI32(s.reader, addr)
			unlockType, err2 := memory.ReadI32(s.reader, addr+4)
			if err1 != nil || err2 != nil || !validate.UnlockDataCandidate(songID, unlockType) {
				continue
			}
			_ = data
			last, found = addr, true
		}
	}
	if !found {
		return 0, fmt.Errorf("no valid UnlockData candidate")
	}
	return last, nil
}

// validateRelativeDistances is the final post-hoc gate: every pair of
// resolved offsets must sit within tolerance of its documented
// architectural distance, regardless of how each was individually
// resolved. A signature and a proximity fallback landing on inconsistent
// addresses is exactly the failure mode this catches.
func (s *Searcher) validateRelativeDistances(o Collection) error {
	within := func(actual, expected, rnge uint64) bool {
		var diff uint64
		if actual >= expected {
			diff = actual - expected
		} else {
			diff = expected - actual
		}
		return diff <= rnge
	}

	if !within(o.JudgeData-o.PlaySettings, JudgeToPlaySettings, JudgeToPlaySettingsTolerance) {
		return fmt.Errorf("judge_data - play_settings out of expected range")
	}
	if !within(o.SongList-o.JudgeData, JudgeToSongList, JudgeToSongListTolerance) {
		return fmt.Errorf("song_list - judge_data out of expected range")
	}
	if !within(o.PlayData-o.PlaySettings, PlaySettingsToPlayData, PlaySettingsToPlayDataTolerance) {
		return fmt.Errorf("play_data - play_settings out of expected range")
	}
	if !within(o.CurrentSong-o.JudgeData, JudgeToCurrentSong, JudgeToCurrentSongTolerance) {
		return fmt.Errorf("current_song - judge_data out of expected range")
	}

	return nil
}

func minUint64(vals []uint64) uint64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
