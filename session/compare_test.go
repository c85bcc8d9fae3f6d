package session

import (
	"testing"

	"notewatch/game"
	"notewatch/layout"
)

func playAt(exScore uint32, lamp layout.Lamp, missCount *uint32) game.PlayData {
	return game.PlayData{
		Chart:         game.ChartInfo{Difficulty: layout.SpA, TotalNotes: 1000},
		ExScore:       exScore,
		Lamp:          lamp,
		DataAvailable: missCount != nil,
		Settings:      game.Settings{Assist: game.AssistOff},
	}
}

func TestCompareWithPersonalBestNilBestIsAlwaysNewBest(t *testing.T) {
	p := playAt(1500, layout.Clear, nil)
	cmp := CompareWithPersonalBest(p, nil)
	if !cmp.IsNewBest {
		t.Fatal("expected first play on a song to be a new best")
	}
	if cmp.ScoreDiff != 1500 {
		t.Fatalf("got score diff %d, want 1500", cmp.ScoreDiff)
	}
}

func TestCompareWithPersonalBestHigherScoreIsNewBest(t *testing.T) {
	best := game.NewScoreData("1000")
	best.SetScore(layout.SpA, 1000)
	best.SetLamp(layout.SpA, layout.Clear)

	p := playAt(1200, layout.Clear, nil)
	cmp := CompareWithPersonalBest(p, &best)
	if !cmp.IsNewBest {
		t.Fatal("expected higher score to be a new best")
	}
	if cmp.ScoreDiff != 200 {
		t.Fatalf("got score diff %d, want 200", cmp.ScoreDiff)
	}
}

func TestCompareWithPersonalBestLowerScoreIsNotNewBest(t *testing.T) {
	best := game.NewScoreData("1000")
	best.SetScore(layout.SpA, 1800)
	best.SetLamp(layout.SpA, layout.FullCombo)

	p := playAt(1200, layout.Clear, nil)
	cmp := CompareWithPersonalBest(p, &best)
	if cmp.IsNewBest {
		t.Fatal("expected lower score not to be a new best")
	}
	if cmp.ScoreDiff != -600 {
		t.Fatalf("got score diff %d, want -600", cmp.ScoreDiff)
	}
	if cmp.LampImproved {
		t.Fatal("expected lamp not to have improved")
	}
}

func TestCompareWithPersonalBestLampImprovement(t *testing.T) {
	best := game.NewScoreData("1000")
	best.SetLamp(layout.SpA, layout.EasyClear)

	p := playAt(1000, layout.HardClear, nil)
	cmp := CompareWithPersonalBest(p, &best)
	if !cmp.LampImproved {
		t.Fatal("expected HardClear to improve over EasyClear")
	}
}

func TestApplyIfBestUpdatesScoreAndLamp(t *testing.T) {
	best := game.NewScoreData("1000")
	best.SetScore(layout.SpA, 1000)
	best.SetLamp(layout.SpA, layout.Clear)

	p := playAt(1500, layout.HardClear, nil)
	ApplyIfBest(p, &best)

	if best.GetScore(layout.SpA) != 1500 {
		t.Fatalf("got score %d, want 1500", best.GetScore(layout.SpA))
	}
	if best.GetLamp(layout.SpA) != layout.HardClear {
		t.Fatalf("got lamp %v, want HardClear", best.GetLamp(layout.SpA))
	}
}

func TestApplyIfBestDoesNotRegressOnWorsePlay(t *testing.T) {
	best := game.NewScoreData("1000")
	best.SetScore(layout.SpA, 1800)
	best.SetLamp(layout.SpA, layout.FullCombo)

	p := playAt(1200, layout.Clear, nil)
	ApplyIfBest(p, &best)

	if best.GetScore(layout.SpA) != 1800 {
		t.Fatalf("got score %d, want unchanged 1800", best.GetScore(layout.SpA))
	}
	if best.GetLamp(layout.SpA) != layout.FullCombo {
		t.Fatalf("got lamp %v, want unchanged FullCombo", best.GetLamp(layout.SpA))
	}
}

func TestCompareWithPersonalBestMissCountDiffNilWhenUntrustworthy(t *testing.T) {
	best := game.NewScoreData("1000")
	p := game.PlayData{
		Chart:         game.ChartInfo{Difficulty: layout.SpA},
		DataAvailable: false, // miss count not valid
		Settings:      game.Settings{Assist: game.AssistOff},
	}
	cmp := CompareWithPersonalBest(p, &best)
	if cmp.MissCountDiff != nil {
		t.Fatal("expected nil miss count diff when current play's count is untrustworthy")
	}
}
