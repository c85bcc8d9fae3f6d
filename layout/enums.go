package layout

// Difficulty identifies one of the ten single/double play difficulty slots.
type Difficulty uint8

const (
	SpB Difficulty = iota
	SpN
	SpH
	SpA
	SpL
	DpB
	DpN
	DpH
	DpA
	DpL
)

// DifficultyFromU8 decodes a raw difficulty byte, returning false for any
// value outside the closed SpB..DpL set.
func DifficultyFromU8(v uint8) (Difficulty, bool) {
	if v > uint8(DpL) {
		return 0, false
	}
	return Difficulty(v), true
}

func (d Difficulty) IsSP() bool {
	return d <= SpL
}

func (d Difficulty) IsDP() bool {
	return !d.IsSP()
}

func (d Difficulty) ShortName() string {
	switch d {
	case SpB:
		return "SPB"
	case SpN:
		return "SPN"
	case SpH:
		return "SPH"
	case SpA:
		return "SPA"
	case SpL:
		return "SPL"
	case DpB:
		return "DPB"
	case DpN:
		return "DPN"
	case DpH:
		return "DPH"
	case DpA:
		return "DPA"
	case DpL:
		return "DPL"
	default:
		return "?"
	}
}

// ExpandName returns the full difficulty name, e.g. "HYPER".
func (d Difficulty) ExpandName() string {
	switch d {
	case SpB, DpB:
		return "BEGINNER"
	case SpN, DpN:
		return "NORMAL"
	case SpH, DpH:
		return "HYPER"
	case SpA, DpA:
		return "ANOTHER"
	case SpL, DpL:
		return "LEGGENDARIA"
	default:
		return "UNKNOWN"
	}
}

// ColorCode returns the OBS-overlay hex color associated with this difficulty.
func (d Difficulty) ColorCode() string {
	switch d {
	case SpB, DpB:
		return "#32CD32"
	case SpN, DpN:
		return "#0FABFD"
	case SpH, DpH:
		return "#F4903C"
	case SpA, DpA:
		return "#E52B19"
	case SpL, DpL:
		return "#9B30FF"
	default:
		return "#FFFFFF"
	}
}

// Lamp is the clear-lamp achieved on a play, ordered worst to best so Go's
// comparison operators double as the "upgrade" check.
type Lamp uint8

const (
	NoPlay Lamp = iota
	Failed
	AssistClear
	EasyClear
	Clear
	HardClear
	ExHardClear
	FullCombo
	Pfc
)

func LampFromU8(v uint8) (Lamp, bool) {
	if v > uint8(Pfc) {
		return 0, false
	}
	return Lamp(v), true
}

func (l Lamp) ShortName() string {
	switch l {
	case NoPlay:
		return "NO PLAY"
	case Failed:
		return "FAILED"
	case AssistClear:
		return "ASSIST"
	case EasyClear:
		return "EASY"
	case Clear:
		return "CLEAR"
	case HardClear:
		return "HARD"
	case ExHardClear:
		return "EX HARD"
	case FullCombo:
		return "FC"
	case Pfc:
		return "PFC"
	default:
		return "?"
	}
}

func (l Lamp) ExpandName() string {
	switch l {
	case NoPlay:
		return "NO PLAY"
	case Failed:
		return "FAILED"
	case AssistClear:
		return "ASSIST CLEAR"
	case EasyClear:
		return "EASY CLEAR"
	case Clear:
		return "CLEAR"
	case HardClear:
		return "HARD CLEAR"
	case ExHardClear:
		return "EX HARD CLEAR"
	case FullCombo, Pfc:
		return "FULL COMBO"
	default:
		return "UNKNOWN"
	}
}

// Grade is the letter grade derived from a play's EX-score ratio.
type Grade uint8

const (
	GradeNoPlay Grade = iota
	GradeF
	GradeE
	GradeD
	GradeC
	GradeB
	GradeA
	GradeAA
	GradeAAA
)

// GradeFromScoreRatio buckets an EX-score-ratio (ex_score / (total_notes*2))
// into a letter grade using the standard k/9 boundaries, lower bound
// inclusive.
func GradeFromScoreRatio(ratio float64) Grade {
	switch {
	case ratio >= 8.0/9.0:
		return GradeAAA
	case ratio >= 7.0/9.0:
		return GradeAA
	case ratio >= 6.0/9.0:
		return GradeA
	case ratio >= 5.0/9.0:
		return GradeB
	case ratio >= 4.0/9.0:
		return GradeC
	case ratio >= 3.0/9.0:
		return GradeD
	case ratio >= 2.0/9.0:
		return GradeE
	default:
		return GradeF
	}
}

func (g Grade) ShortName() string {
	switch g {
	case GradeNoPlay:
		return "-"
	case GradeF:
		return "F"
	case GradeE:
		return "E"
	case GradeD:
		return "D"
	case GradeC:
		return "C"
	case GradeB:
		return "B"
	case GradeA:
		return "A"
	case GradeAA:
		return "AA"
	case GradeAAA:
		return "AAA"
	default:
		return "?"
	}
}

// PlayType identifies which side(s) of the cabinet produced a play.
type PlayType uint8

const (
	P1 PlayType = iota
	P2
	DP
)

func (p PlayType) ShortName() string {
	switch p {
	case P1:
		return "1P"
	case P2:
		return "2P"
	case DP:
		return "DP"
	default:
		return "?"
	}
}

// UnlockType classifies how a song was made available.
type UnlockType uint8

const (
	UnlockBase UnlockType = iota
	UnlockBits
	UnlockSub
)

func UnlockTypeFromU8(v uint8) (UnlockType, bool) {
	if v > uint8(UnlockSub) {
		return 0, false
	}
	return UnlockType(v), true
}

// GameState is the coarse state the tracker loop drives its transitions on.
type GameState uint8

const (
	Unknown GameState = iota
	SongSelect
	Playing
	ResultScreen
)

func (s GameState) String() string {
	switch s {
	case Unknown:
		return "Unknown"
	case SongSelect:
		return "SongSelect"
	case Playing:
		return "Playing"
	case ResultScreen:
		return "ResultScreen"
	default:
		return "?"
	}
}
