package game

import (
	"testing"

	"notewatch/layout"
)

func TestJudgeFromRawValuesInfersPlayType(t *testing.T) {
	p2Only := JudgeFromRawValues(0, 0, 0, 0, 0, 5, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
	if p2Only.PlayType != layout.P2 {
		t.Fatalf("expected P2, got %v", p2Only.PlayType)
	}

	dp := JudgeFromRawValues(1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
	if dp.PlayType != layout.DP {
		t.Fatalf("expected DP, got %v", dp.PlayType)
	}

	p1 := JudgeFromRawValues(1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
	if p1.PlayType != layout.P1 {
		t.Fatalf("expected P1, got %v", p1.PlayType)
	}
}

func TestJudgeExScoreAndMissCount(t *testing.T) {
	j := Judge{PGreat: 100, Great: 20, Good: 3, Bad: 2, Poor: 1}
	if got := j.ExScore(); got != 220 {
		t.Fatalf("ExScore = %d, want 220", got)
	}
	if got := j.MissCount(); got != 3 {
		t.Fatalf("MissCount = %d, want 3", got)
	}
}

func TestJudgeIsPFC(t *testing.T) {
	if !(Judge{PGreat: 10}).IsPFC() {
		t.Fatal("expected PFC when good/bad/poor are all zero")
	}
	if (Judge{Good: 1}).IsPFC() {
		t.Fatal("expected not PFC when good > 0")
	}
}

func TestJudgePrematureEndFromMeasureEnd(t *testing.T) {
	j := JudgeFromRawValues(0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0)
	if !j.PrematureEnd {
		t.Fatal("expected premature end when a measure-end marker is set")
	}
}
