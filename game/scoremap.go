package game

import "notewatch/layout"

// difficultyCount is the number of Difficulty variants (SpB..DpL).
const difficultyCount = 10

// ScoreData is the best lamp/score/miss-count recorded per difficulty for
// one song.
type ScoreData struct {
	SongID     string
	Lamp       [difficultyCount]layout.Lamp
	Score      [difficultyCount]uint32
	MissCount  [difficultyCount]*uint32
}

// NewScoreData creates an empty ScoreData for songID.
func NewScoreData(songID string) ScoreData {
	return ScoreData{SongID: songID}
}

func (s ScoreData) GetLamp(d layout.Difficulty) layout.Lamp {
	return s.Lamp[d]
}

func (s ScoreData) GetScore(d layout.Difficulty) uint32 {
	return s.Score[d]
}

func (s *ScoreData) SetLamp(d layout.Difficulty, l layout.Lamp) {
	s.Lamp[d] = l
}

func (s *ScoreData) SetScore(d layout.Difficulty, score uint32) {
	s.Score[d] = score
}

// ScoreMap is the running collection of best-known ScoreData per song,
// keyed by song ID. It is never accessed concurrently: the tracker loop is
// single-threaded against the external memory reader.
type ScoreMap struct {
	scores map[string]*ScoreData
}

// NewScoreMap creates an empty ScoreMap.
func NewScoreMap() *ScoreMap {
	return &ScoreMap{scores: make(map[string]*ScoreData)}
}

func (m *ScoreMap) Get(songID string) (*ScoreData, bool) {
	d, ok := m.scores[songID]
	return d, ok
}

func (m *ScoreMap) Insert(songID string, data ScoreData) {
	m.scores[songID] = &data
}

// GetOrInsert returns the existing ScoreData for songID, creating an empty
// one if absent.
func (m *ScoreMap) GetOrInsert(songID string) *ScoreData {
	if d, ok := m.scores[songID]; ok {
		return d
	}
	d := NewScoreData(songID)
	m.scores[songID] = &d
	return &d
}

func (m *ScoreMap) Len() int {
	return len(m.scores)
}

func (m *ScoreMap) IsEmpty() bool {
	return len(m.scores) == 0
}

// Each calls fn for every song in the map. Iteration order is unspecified,
// matching the underlying map's.
func (m *ScoreMap) Each(fn func(songID string, data *ScoreData)) {
	for id, d := range m.scores {
		fn(id, d)
	}
}
