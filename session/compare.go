package session

import (
	"notewatch/game"
	"notewatch/layout"
)

// PersonalBestComparison describes how a freshly captured play stacks up
// against the best previously recorded result for the same song and
// difficulty.
type PersonalBestComparison struct {
	IsNewBest       bool
	ScoreDiff       int32
	PreviousScore   uint32
	PreviousGrade   layout.Grade
	PreviousLamp    layout.Lamp
	LampImproved    bool
	MissCountDiff   *int32 // nil when either side's miss count is untrustworthy
}

// CompareWithPersonalBest compares p against the best score previously
// recorded for p's difficulty in best, if any. A nil best (song never
// played before) always yields a new best with no prior data to diff
// against.
func CompareWithPersonalBest(p game.PlayData, best *game.ScoreData) PersonalBestComparison {
	d := p.Chart.Difficulty
	if best == nil {
		return PersonalBestComparison{
			IsNewBest: true,
			ScoreDiff: int32(p.ExScore),
			LampImproved: true,
		}
	}

	prevScore := best.GetScore(d)
	prevLamp := best.GetLamp(d)
	prevGrade := game.CalculateGrade(prevScore, p.Chart.TotalNotes)

	cmp := PersonalBestComparison{
		IsNewBest:     p.ExScore > prevScore,
		ScoreDiff:     int32(p.ExScore) - int32(prevScore),
		PreviousScore: prevScore,
		PreviousGrade: prevGrade,
		PreviousLamp:  prevLamp,
		LampImproved:  p.Lamp > prevLamp,
	}

	if p.MissCountValid() {
		if prevMiss := best.MissCount[d]; prevMiss != nil {
			diff := int32(p.MissCount()) - int32(*prevMiss)
			cmp.MissCountDiff = &diff
		}
	}

	return cmp
}

// ApplyIfBest updates best in place with p's result when p improves on the
// recorded score or lamp, returning the comparison that was used to decide.
func ApplyIfBest(p game.PlayData, best *game.ScoreData) PersonalBestComparison {
	cmp := CompareWithPersonalBest(p, best)
	d := p.Chart.Difficulty

	if cmp.IsNewBest {
		best.SetScore(d, p.ExScore)
	}
	if cmp.LampImproved {
		best.SetLamp(d, p.Lamp)
	}
	if p.MissCountValid() {
		mc := p.MissCount()
		if best.MissCount[d] == nil || mc < *best.MissCount[d] {
			best.MissCount[d] = &mc
		}
	}

	return cmp
}
