package game

import (
	"testing"

	"notewatch/layout"
)

func TestCalculateGradeZeroNotesIsF(t *testing.T) {
	if got := CalculateGrade(0, 0); got != layout.GradeF {
		t.Fatalf("expected GradeF for zero total notes, got %v", got)
	}
}

func TestCalculateGradePerfectIsAAA(t *testing.T) {
	if got := CalculateGrade(200, 100); got != layout.GradeAAA {
		t.Fatalf("expected GradeAAA for a perfect score, got %v", got)
	}
}

func TestUpgradeLampIfPFC(t *testing.T) {
	p := PlayData{Judge: Judge{PGreat: 10}, Lamp: layout.FullCombo}
	p.UpgradeLampIfPFC()
	if p.Lamp != layout.Pfc {
		t.Fatalf("expected lamp upgraded to Pfc, got %v", p.Lamp)
	}

	q := PlayData{Judge: Judge{Good: 1}, Lamp: layout.FullCombo}
	q.UpgradeLampIfPFC()
	if q.Lamp != layout.FullCombo {
		t.Fatalf("expected lamp to stay FullCombo without a true PFC, got %v", q.Lamp)
	}
}

func TestMissCountValid(t *testing.T) {
	p := PlayData{DataAvailable: true, Settings: Settings{Assist: AssistOff}}
	if !p.MissCountValid() {
		t.Fatal("expected miss count valid with no assist and no premature end")
	}

	p.Settings.Assist = AssistAutoScratch
	if p.MissCountValid() {
		t.Fatal("expected miss count invalid with an assist option enabled")
	}

	p.Settings.Assist = AssistOff
	p.Judge.PrematureEnd = true
	if p.MissCountValid() {
		t.Fatal("expected miss count invalid on premature end")
	}
}
