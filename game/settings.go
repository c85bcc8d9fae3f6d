package game

import "notewatch/layout"

// Style is a chart-randomization option.
type Style uint8

const (
	StyleOff Style = iota
	StyleRandom
	StyleRRandom
	StyleSRandom
	StyleMirror
	StyleSynchronizeRandom
	StyleSymmetryRandom
)

// StyleFromI32 decodes a raw style value, defaulting to Off for anything
// unrecognized (the game itself never emits out-of-range values, but a
// permissive fallback keeps a single bad read from aborting the whole
// PlaySettings decode).
func StyleFromI32(v int32) Style {
	switch v {
	case 0:
		return StyleOff
	case 1:
		return StyleRandom
	case 2:
		return StyleRRandom
	case 3:
		return StyleSRandom
	case 4:
		return StyleMirror
	case 5:
		return StyleSynchronizeRandom
	case 6:
		return StyleSymmetryRandom
	default:
		return StyleOff
	}
}

func (s Style) String() string {
	switch s {
	case StyleOff:
		return "OFF"
	case StyleRandom:
		return "RANDOM"
	case StyleRRandom:
		return "R-RANDOM"
	case StyleSRandom:
		return "S-RANDOM"
	case StyleMirror:
		return "MIRROR"
	case StyleSynchronizeRandom:
		return "SYNCHRONIZE RANDOM"
	case StyleSymmetryRandom:
		return "SYMMETRY RANDOM"
	default:
		return "OFF"
	}
}

// GaugeType is the clear gauge mode selected before play.
type GaugeType uint8

const (
	GaugeOff GaugeType = iota
	GaugeAssistEasy
	GaugeEasy
	GaugeHard
	GaugeExHard
)

func GaugeTypeFromI32(v int32) GaugeType {
	switch v {
	case 0:
		return GaugeOff
	case 1:
		return GaugeAssistEasy
	case 2:
		return GaugeEasy
	case 3:
		return GaugeHard
	case 4:
		return GaugeExHard
	default:
		return GaugeOff
	}
}

func (g GaugeType) String() string {
	switch g {
	case GaugeOff:
		return "OFF"
	case GaugeAssistEasy:
		return "ASSIST EASY"
	case GaugeEasy:
		return "EASY"
	case GaugeHard:
		return "HARD"
	case GaugeExHard:
		return "EX HARD"
	default:
		return "OFF"
	}
}

// AssistType is the assist option selected before play. Any assist option
// other than Off disqualifies a play's miss count from being recorded (see
// PlayData.MissCountValid).
type AssistType uint8

const (
	AssistOff AssistType = iota
	AssistAutoScratch
	AssistFiveKeys
	AssistLegacyNote
	AssistKeyAssist
	AssistAnyKey
)

func AssistTypeFromI32(v int32) AssistType {
	switch v {
	case 0:
		return AssistOff
	case 1:
		return AssistAutoScratch
	case 2:
		return AssistFiveKeys
	case 3:
		return AssistLegacyNote
	case 4:
		return AssistKeyAssist
	case 5:
		return AssistAnyKey
	default:
		return AssistOff
	}
}

func (a AssistType) String() string {
	switch a {
	case AssistOff:
		return "OFF"
	case AssistAutoScratch:
		return "AUTO SCRATCH"
	case AssistFiveKeys:
		return "5KEYS"
	case AssistLegacyNote:
		return "LEGACY NOTE"
	case AssistKeyAssist:
		return "KEY ASSIST"
	case AssistAnyKey:
		return "ANY KEY"
	default:
		return "OFF"
	}
}

// RangeType is the sudden/hidden option selected before play.
type RangeType uint8

const (
	RangeOff RangeType = iota
	RangeSuddenPlus
	RangeHiddenPlus
	RangeSudHid
	RangeLift
	RangeLiftSud
)

func RangeTypeFromI32(v int32) RangeType {
	switch v {
	case 0:
		return RangeOff
	case 1:
		return RangeSuddenPlus
	case 2:
		return RangeHiddenPlus
	case 3:
		return RangeSudHid
	case 4:
		return RangeLift
	case 5:
		return RangeLiftSud
	default:
		return RangeOff
	}
}

func (r RangeType) String() string {
	switch r {
	case RangeOff:
		return "OFF"
	case RangeSuddenPlus:
		return "SUDDEN+"
	case RangeHiddenPlus:
		return "HIDDEN+"
	case RangeSudHid:
		return "SUD+ & HID+"
	case RangeLift:
		return "LIFT"
	case RangeLiftSud:
		return "LIFT & SUD+"
	default:
		return "OFF"
	}
}

// Settings is the full set of play options selected at song select.
type Settings struct {
	Style   Style
	Style2  *Style // non-nil only for DP, second side's style
	Gauge   GaugeType
	Assist  AssistType
	Range   RangeType
	Flip    bool
	Battle  bool
	HRan    bool
}

// P2SettingsOffset is the byte offset of the second player's settings block
// relative to PlaySettings' base (15 words * 4 bytes).
const P2SettingsOffset = layout.Word * 15

// SettingsFromRawValues builds Settings from the raw i32 words read out of
// PlaySettings, including the DP second-side style only when playType is DP.
func SettingsFromRawValues(playType layout.PlayType, styleVal, style2Val, gaugeVal, assistVal, rangeVal, flipVal, battleVal, hRanVal int32) Settings {
	s := Settings{
		Style:  StyleFromI32(styleVal),
		Gauge:  GaugeTypeFromI32(gaugeVal),
		Assist: AssistTypeFromI32(assistVal),
		Range:  RangeTypeFromI32(rangeVal),
		Flip:   flipVal == 1,
		Battle: battleVal == 1,
		HRan:   hRanVal == 1,
	}
	if playType == layout.DP {
		s2 := StyleFromI32(style2Val)
		s.Style2 = &s2
	}
	return s
}
