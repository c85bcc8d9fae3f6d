// Package game holds the composite domain types decoded from the raw
// structures notewatch reads out of process memory: judge counts, play
// settings, song metadata, a full play record, unlock state, and the
// running per-song score map.
package game

import "notewatch/layout"

// Judge is the combined P1+P2 judge breakdown for a single play.
type Judge struct {
	PlayType      layout.PlayType
	PGreat        uint32
	Great         uint32
	Good          uint32
	Bad           uint32
	Poor          uint32
	Fast          uint32
	Slow          uint32
	ComboBreak    uint32
	PrematureEnd  bool
}

// IsPFC reports a Perfect Full Combo: no good/bad/poor judgments at all.
func (j Judge) IsPFC() bool {
	return j.Good == 0 && j.Bad == 0 && j.Poor == 0
}

// ExScore computes the standard EX score: pgreat*2 + great.
func (j Judge) ExScore() uint32 {
	return j.PGreat*2 + j.Great
}

// MissCount computes bad + poor.
func (j Judge) MissCount() uint32 {
	return j.Bad + j.Poor
}

// JudgeFromRawValues combines the raw P1/P2 words read from JudgeData into
// a single Judge, inferring PlayType from which side recorded judgments.
func JudgeFromRawValues(
	p1PGreat, p1Great, p1Good, p1Bad, p1Poor,
	p2PGreat, p2Great, p2Good, p2Bad, p2Poor,
	p1CB, p2CB,
	p1Fast, p2Fast, p1Slow, p2Slow,
	p1MeasureEnd, p2MeasureEnd uint32,
) Judge {
	p1Total := p1PGreat + p1Great + p1Good + p1Bad + p1Poor
	p2Total := p2PGreat + p2Great + p2Good + p2Bad + p2Poor

	var playType layout.PlayType
	switch {
	case p1Total == 0 && p2Total > 0:
		playType = layout.P2
	case p1Total > 0 && p2Total > 0:
		playType = layout.DP
	default:
		playType = layout.P1
	}

	return Judge{
		PlayType:     playType,
		PGreat:       p1PGreat + p2PGreat,
		Great:        p1Great + p2Great,
		Good:         p1Good + p2Good,
		Bad:          p1Bad + p2Bad,
		Poor:         p1Poor + p2Poor,
		Fast:         p1Fast + p2Fast,
		Slow:         p1Slow + p2Slow,
		ComboBreak:   p1CB + p2CB,
		PrematureEnd: (p1MeasureEnd + p2MeasureEnd) != 0,
	}
}
