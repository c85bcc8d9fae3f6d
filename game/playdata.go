package game

import (
	"time"

	"notewatch/layout"
)

// ChartInfo identifies the specific song/difficulty/play-type a PlayData
// belongs to, joined with the SongList metadata a session export needs.
type ChartInfo struct {
	SongID       string
	Title        string
	TitleEnglish string
	Artist       string
	Genre        string
	BPM          string
	Level        uint8
	TotalNotes   uint32
	Difficulty   layout.Difficulty
	PlayType     layout.PlayType
}

// PlayData is the complete record of a single play, captured at the result
// screen.
type PlayData struct {
	Timestamp     time.Time
	Chart         ChartInfo
	ExScore       uint32
	Gauge         uint8
	Grade         layout.Grade
	Lamp          layout.Lamp
	Judge         Judge
	Settings      Settings
	DataAvailable bool
}

// MissCountValid reports whether the miss count on this play can be
// trusted: only when play data was captured at all, the play wasn't cut
// short, and no assist option was enabled.
func (p PlayData) MissCountValid() bool {
	return p.DataAvailable && !p.Judge.PrematureEnd && p.Settings.Assist == AssistOff
}

// MissCount returns bad + poor judgments.
func (p PlayData) MissCount() uint32 {
	return p.Judge.MissCount()
}

// CalculateGrade derives a Grade from an EX score against a chart's total
// note count. A chart with no notes (not yet loaded) always grades F.
func CalculateGrade(exScore, totalNotes uint32) layout.Grade {
	if totalNotes == 0 {
		return layout.GradeF
	}
	maxEx := totalNotes * 2
	ratio := float64(exScore) / float64(maxEx)
	return layout.GradeFromScoreRatio(ratio)
}

// UpgradeLampIfPFC promotes a FullCombo lamp to Pfc when the underlying
// judge counts show no good/bad/poor at all.
func (p *PlayData) UpgradeLampIfPFC() {
	if p.Judge.IsPFC() && p.Lamp == layout.FullCombo {
		p.Lamp = layout.Pfc
	}
}
