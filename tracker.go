// ABOUTME: Core poll loop driving the live score tracker
// ABOUTME: Reads process memory each tick, detects game-state transitions, and logs finished plays

package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"notewatch/config"
	"notewatch/game"
	"notewatch/layout"
	"notewatch/memory"
	"notewatch/offset"
	"notewatch/session"
	"notewatch/state"
	"notewatch/tui"
	"notewatch/validate"
)

// Tracker owns the attached process reader, resolved offsets, and the
// running session/score state a single tracking run accumulates.
type Tracker struct {
	reader    memory.ReadMemory
	offsets   offset.Collection
	cfg       config.Config
	detector  *state.Detector
	prevState layout.GameState
	scores    *game.ScoreMap
	songs     map[string]game.SongInfo
	sess      *session.Manager
	status    chan<- tui.Update

	// currentPlaying is armed from CurrentSong on every transition into
	// Playing and cross-checked against PlayData's song_id on the
	// following Playing->ResultScreen transition (spec.md §4.7, §5): a
	// snapshot whose song_id disagrees with the armed chart is discarded
	// rather than emitted, since the four source reads aren't atomic.
	currentPlaying    armedChart
	hasCurrentPlaying bool
}

// armedChart is the (song_id, difficulty) pair snapshotted from CurrentSong
// at the moment a play starts.
type armedChart struct {
	songID     string
	difficulty int32
}

// AttachStatusChannel wires an optional sink that receives one Update per
// poll tick, used to drive the live dashboard in -visual mode. Calling it
// is optional; Run works the same without a status sink attached.
func (t *Tracker) AttachStatusChannel(c chan<- tui.Update) {
	t.status = c
}

func (t *Tracker) publishStatus(state layout.GameState) {
	if t.status == nil {
		return
	}
	update := tui.Update{
		State:         state,
		ScoresTracked: t.scores.Len(),
		SessionPath:   t.sess.CurrentSessionPath(),
		Timestamp:     time.Now(),
	}
	select {
	case t.status <- update:
	default:
	}
}

// NewTracker builds a Tracker ready to Run once offsets have been resolved.
func NewTracker(reader memory.ReadMemory, offsets offset.Collection, cfg config.Config) *Tracker {
	return &Tracker{
		reader:    reader,
		offsets:   offsets,
		cfg:       cfg,
		detector:  state.NewDetector(),
		prevState: layout.Unknown,
		scores:    game.NewScoreMap(),
		songs:     make(map[string]game.SongInfo),
		sess:      session.NewManager(cfg.SessionDir),
	}
}

// LoadSongDirectory scans the resolved SongList for up to cfg.MinExpectedSongs
// entries, keeping every candidate that passes validate.SongEntry, keyed by
// song ID. It must be called once after offsets are resolved and before Run.
func (t *Tracker) LoadSongDirectory() (int, error) {
	loaded := 0
	for i := 0; i < t.cfg.MinExpectedSongs; i++ {
		addr := t.offsets.SongList + uint64(i)*uint64(game.MemorySize)
		raw, err := t.reader.ReadBytes(addr, game.MemorySize)
		if err != nil {
			break
		}

		song, ok := decodeSongInfo(raw)
		if !ok {
			continue
		}
		t.songs[song.ID] = song
		loaded++
	}

	if loaded == 0 {
		return 0, newErr(KindSongDatabaseNotLoaded, "no valid song entries found in song list")
	}
	return loaded, nil
}

// decodeSongInfo decodes one legacy-layout SongList entry through
// layout.SongEntryOffset (spec.md §3): title and BPM are fixed-capacity,
// null-terminated Shift-JIS text; levels are one byte per difficulty;
// note counts are 16-bit words; song_id and folder are 32-bit. Artist and
// English title have no documented offset in spec.md or the original
// layout and are left blank.
func decodeSongInfo(raw []byte) (game.SongInfo, bool) {
	o := layout.SongEntryOffset
	if uint64(len(raw)) < o.NoteCounts+20 || uint64(len(raw)) < o.Folder+4 {
		return game.SongInfo{}, false
	}

	songID := int32(binary.LittleEndian.Uint32(raw[o.SongID:]))
	folder := int32(binary.LittleEndian.Uint32(raw[o.Folder:]))

	var levels [10]uint8
	copy(levels[:], raw[o.Levels:o.Levels+10])

	var totalNotes [10]uint32
	for d := 0; d < 10; d++ {
		off := o.NoteCounts + uint64(d)*2
		totalNotes[d] = uint32(binary.LittleEndian.Uint16(raw[off:]))
	}

	title := decodeShiftJIS(raw[o.Title : o.Title+layout.TitleFieldSize])
	bpm := decodeShiftJIS(raw[o.BPM : o.BPM+layout.BPMFieldSize])

	if !validate.SongEntry(songID, folder, title, levels) {
		return game.SongInfo{}, false
	}

	return game.SongInfo{
		ID:         strconv.FormatInt(int64(songID), 10),
		Title:      title,
		BPM:        bpm,
		Folder:     folder,
		Levels:     levels,
		TotalNotes: totalNotes,
	}, true
}

// decodeShiftJIS trims b at its first NUL byte and transcodes the remainder
// from Shift-JIS to UTF-8, returning "" on a malformed sequence rather than
// propagating an error through the song-load path.
func decodeShiftJIS(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), b)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(decoded))
}

// StartSession opens a new session TSV file and writes its header.
func (t *Tracker) StartSession(now time.Time) error {
	path, err := t.sess.StartSession(now)
	if err != nil {
		return err
	}
	if err := t.sess.AppendLine(session.FullTSVHeader()); err != nil {
		return err
	}
	log.Printf("tracker: session started at %s", path)
	return nil
}

// Run polls the attached process at cfg.PollInterval until ctx is
// cancelled or shutdown fires, logging one TSV row per completed play.
func (t *Tracker) Run(ctx context.Context, shutdown *session.ShutdownSignal) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := t.poll(); err != nil {
			log.Printf("tracker: poll error: %v", err)
		}

		if shutdown.Wait(t.cfg.PollInterval()) {
			return nil
		}
	}
}

// poll runs a single tick: read the three state-sentinel words, detect the
// GameState, and on a Playing->ResultScreen transition, capture and log the
// finished play.
func (t *Tracker) poll() error {
	marker1, err := memory.ReadI32(t.reader, t.offsets.JudgeData+layout.Judge.StateMarker1)
	if err != nil {
		return memReadErr(t.offsets.JudgeData+layout.Judge.StateMarker1, err.Error())
	}
	marker2, err := memory.ReadI32(t.reader, t.offsets.JudgeData+layout.Judge.StateMarker2)
	if err != nil {
		return memReadErr(t.offsets.JudgeData+layout.Judge.StateMarker2, err.Error())
	}
	songSelectMarker, err := memory.ReadI32(t.reader, t.offsets.PlaySettings-layout.Settings.SongSelectMarker)
	if err != nil {
		return memReadErr(t.offsets.PlaySettings-layout.Settings.SongSelectMarker, err.Error())
	}

	newState := t.detector.Detect(marker1, marker2, songSelectMarker)
	prevState := t.prevState
	defer func() {
		t.prevState = newState
		t.publishStatus(newState)
	}()

	if newState == layout.Playing && prevState != layout.Playing {
		t.armCurrentPlaying()
	}

	if newState != layout.ResultScreen || prevState != layout.Playing {
		return nil
	}

	return t.captureFinishedPlay()
}

// armCurrentPlaying snapshots CurrentSong's (song_id, difficulty) on every
// transition into Playing, including a missed SongSelect->Playing edge
// (spec.md §4.7 item 4, "* -> Playing directly"). A read failure here just
// leaves the tracker without an armed chart for the cross-check; it is not
// escalated since every per-tick read error degrades to a no-op (spec.md §7).
func (t *Tracker) armCurrentPlaying() {
	songID, err1 := memory.ReadI32(t.reader, t.offsets.CurrentSong+layout.CurrentSong.SongID)
	difficulty, err2 := memory.ReadI32(t.reader, t.offsets.CurrentSong+layout.CurrentSong.Difficulty)
	if err1 != nil || err2 != nil {
		t.hasCurrentPlaying = false
		return
	}
	t.currentPlaying = armedChart{songID: strconv.FormatInt(int64(songID), 10), difficulty: difficulty}
	t.hasCurrentPlaying = true
}

// captureFinishedPlay decodes PlayData+JudgeData+Settings for the play that
// just ended, joins it against the song directory, folds it into the score
// map, and appends one TSV row to the active session.
func (t *Tracker) captureFinishedPlay() error {
	songIDRaw, err := memory.ReadI32(t.reader, t.offsets.PlayData+layout.Play.SongID)
	if err != nil {
		return memReadErr(t.offsets.PlayData+layout.Play.SongID, err.Error())
	}
	difficultyRaw, err := memory.ReadI32(t.reader, t.offsets.PlayData+layout.Play.Difficulty)
	if err != nil {
		return memReadErr(t.offsets.PlayData+layout.Play.Difficulty, err.Error())
	}
	lampRaw, err := memory.ReadI32(t.reader, t.offsets.PlayData+layout.Play.Lamp)
	if err != nil {
		return memReadErr(t.offsets.PlayData+layout.Play.Lamp, err.Error())
	}

	difficulty, ok := layout.DifficultyFromU8(uint8(difficultyRaw))
	if !ok {
		return newErr(KindInvalidOffset, fmt.Sprintf("play data difficulty out of range: %d", difficultyRaw))
	}
	lamp, ok := layout.LampFromU8(uint8(lampRaw))
	if !ok {
		return newErr(KindInvalidOffset, fmt.Sprintf("play data lamp out of range: %d", lampRaw))
	}

	songKeyForCheck := strconv.FormatInt(int64(songIDRaw), 10)
	if t.hasCurrentPlaying && songKeyForCheck != t.currentPlaying.songID {
		log.Printf("tracker: discarding result snapshot, song_id %s disagrees with armed chart %s", songKeyForCheck, t.currentPlaying.songID)
		t.hasCurrentPlaying = false
		return nil
	}
	t.hasCurrentPlaying = false

	judge, err := t.readJudge()
	if err != nil {
		return err
	}
	settings, err := t.readSettings(judge.PlayType)
	if err != nil {
		return err
	}

	songKey := songKeyForCheck
	song, known := t.songs[songKey]

	chart := game.ChartInfo{
		SongID:     songKey,
		Difficulty: difficulty,
		PlayType:   judge.PlayType,
	}
	if known {
		chart.Title = song.Title
		chart.TitleEnglish = song.TitleEnglish
		chart.Artist = song.Artist
		chart.Genre = song.Genre
		chart.BPM = song.BPM
		chart.Level = song.GetLevel(int(difficulty))
		chart.TotalNotes = song.GetTotalNotes(int(difficulty))
	}

	// DataAvailable is false whenever any assist option, H-RAN, or battle
	// was enabled, or the play ended early - the miss count and EX score
	// the game reports under those conditions aren't comparable to a clean
	// play (spec.md §3, emitted PlayData's data_available flag).
	dataAvailable := settings.Assist == game.AssistOff && !settings.HRan && !settings.Battle && !judge.PrematureEnd

	play := game.PlayData{
		Timestamp:     time.Now(),
		Chart:         chart,
		ExScore:       judge.ExScore(),
		Grade:         game.CalculateGrade(judge.ExScore(), chart.TotalNotes),
		Lamp:          lamp,
		Judge:         judge,
		Settings:      settings,
		DataAvailable: dataAvailable,
	}
	play.UpgradeLampIfPFC()

	best := t.scores.GetOrInsert(songKey)
	cmp := session.ApplyIfBest(play, best)
	if cmp.IsNewBest {
		log.Printf("tracker: new best on %s %s: %d EX", songKey, difficulty.ShortName(), play.ExScore)
	}

	if t.status != nil {
		update := tui.Update{
			State:             layout.ResultScreen,
			ChartTitle:        chart.Title,
			Difficulty:        difficulty.ShortName(),
			ExScore:           play.ExScore,
			Grade:             play.Grade.ShortName(),
			Lamp:              play.Lamp.ShortName(),
			ScoreRatioDisplay: scoreRatioDisplay(play.ExScore, cmp.PreviousScore, chart.TotalNotes),
			IsNewBest:         cmp.IsNewBest,
			ScoresTracked:     t.scores.Len(),
			SessionPath:       t.sess.CurrentSessionPath(),
			Timestamp:         time.Now(),
		}
		select {
		case t.status <- update:
		default:
		}
	}

	return t.sess.AppendLine(session.FormatFullTSVRow(play))
}

// scoreRatioDisplay formats the current play's achieved-score percentage
// with just enough decimal digits to read as distinct from the previous
// personal best's percentage, or "" when totalNotes is unknown.
func scoreRatioDisplay(exScore, prevExScore, totalNotes uint32) string {
	if totalNotes == 0 {
		return ""
	}
	maxScore := float64(totalNotes) * 2
	curr := float64(exScore) / maxScore * 100
	prev := float64(prevExScore) / maxScore * 100
	return FormatMinimalPrecision(prev, curr)
}

func (t *Tracker) readJudge() (game.Judge, error) {
	j := layout.Judge
	base := t.offsets.JudgeData

	vals := make([]int32, 18)
	offs := []uint64{
		j.P1PGreat, j.P1Great, j.P1Good, j.P1Bad, j.P1Poor,
		j.P2PGreat, j.P2Great, j.P2Good, j.P2Bad, j.P2Poor,
		j.P1ComboBreak, j.P2ComboBreak,
		j.P1Fast, j.P2Fast, j.P1Slow, j.P2Slow,
		j.P1MeasureEnd, j.P2MeasureEnd,
	}
	for i, off := range offs {
		v, err := memory.ReadI32(t.reader, base+off)
		if err != nil {
			return game.Judge{}, memReadErr(base+off, err.Error())
		}
		vals[i] = v
	}

	return game.JudgeFromRawValues(
		uint32(vals[0]), uint32(vals[1]), uint32(vals[2]), uint32(vals[3]), uint32(vals[4]),
		uint32(vals[5]), uint32(vals[6]), uint32(vals[7]), uint32(vals[8]), uint32(vals[9]),
		uint32(vals[10]), uint32(vals[11]),
		uint32(vals[12]), uint32(vals[13]), uint32(vals[14]), uint32(vals[15]),
		uint32(vals[16]), uint32(vals[17]),
	), nil
}

// readSettings decodes PlaySettings' style/gauge/assist/flip/range words for
// P1, plus P2's style word (game.P2SettingsOffset past P1's) when playType
// is DP. The layout catalog (spec.md §4.1) only names offsets for these five
// fields and the song-select sentinel; Battle and H-RAN have no documented
// offset, so Settings.Battle/HRan stay at their zero value rather than being
// read from an invented address.
func (t *Tracker) readSettings(playType layout.PlayType) (game.Settings, error) {
	b := layout.Settings
	base := t.offsets.PlaySettings

	style, err1 := memory.ReadI32(t.reader, base+b.Style)
	gauge, err2 := memory.ReadI32(t.reader, base+b.Gauge)
	assist, err3 := memory.ReadI32(t.reader, base+b.Assist)
	flip, err4 := memory.ReadI32(t.reader, base+b.Flip)
	rang, err5 := memory.ReadI32(t.reader, base+b.Range)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return game.Settings{}, memReadErr(base, "failed to read play settings")
	}

	var style2 int32
	if playType == layout.DP {
		var err6 error
		style2, err6 = memory.ReadI32(t.reader, base+game.P2SettingsOffset+b.Style)
		if err6 != nil {
			return game.Settings{}, memReadErr(base+game.P2SettingsOffset+b.Style, err6.Error())
		}
	}

	return game.SettingsFromRawValues(playType, style, style2, gauge, assist, rang, flip, 0, 0), nil
}
