// Package session writes each tracked play to a per-run TSV file and
// compares it against the running ScoreMap's personal best.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"notewatch/game"
)

// Manager tracks the current session's TSV file and appends one line per
// tracked play.
type Manager struct {
	baseDir        string
	currentSession string
}

// NewManager creates a Manager that writes session files under baseDir.
func NewManager(baseDir string) *Manager {
	return &Manager{baseDir: baseDir}
}

// StartSession creates today's session directory (baseDir/YYYY-MM-DD),
// picks a session file name in it from the current time, and makes that the
// active session for AppendLine. The file itself is created by the first
// AppendLine.
func (m *Manager) StartSession(now time.Time) (string, error) {
	sessionDir := filepath.Join(m.baseDir, now.Format("2006-01-02"))
	if err := os.MkdirAll(sessionDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create session directory: %w", err)
	}

	sessionFile := filepath.Join(sessionDir, fmt.Sprintf("session_%s.tsv", now.Format("150405")))
	m.currentSession = sessionFile
	return sessionFile, nil
}

// AppendLine appends a line plus newline to the active session file,
// creating it on first write. It is a no-op if no session has been started.
func (m *Manager) AppendLine(line string) error {
	if m.currentSession == "" {
		return nil
	}
	f, err := os.OpenFile(m.currentSession, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open session file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("failed to append to session file: %w", err)
	}
	return nil
}

// CurrentSessionPath returns the active session file path, or "" if no
// session has been started.
func (m *Manager) CurrentSessionPath() string {
	return m.currentSession
}

// FullTSVHeader is the 26-column header every session file starts with.
func FullTSVHeader() string {
	columns := []string{
		"title", "difficulty", "title2", "bpm", "artist", "genre",
		"notecount", "level", "playtype", "grade", "lamp", "misscount",
		"exscore", "pgreat", "great", "good", "bad", "poor", "combobreak",
		"fast", "slow", "style", "style2", "assist", "range", "date",
	}
	return strings.Join(columns, "\t")
}

// FormatFullTSVRow renders one PlayData as the 26-column TSV row described
// by FullTSVHeader.
func FormatFullTSVRow(p game.PlayData) string {
	style2 := "OFF"
	if p.Settings.Style2 != nil {
		style2 = p.Settings.Style2.String()
	}

	missCount := "-"
	if p.MissCountValid() {
		missCount = strconv.FormatUint(uint64(p.MissCount()), 10)
	}

	values := []string{
		p.Chart.Title,
		p.Chart.Difficulty.ShortName(),
		p.Chart.TitleEnglish,
		p.Chart.BPM,
		p.Chart.Artist,
		p.Chart.Genre,
		strconv.FormatUint(uint64(p.Chart.TotalNotes), 10),
		strconv.FormatUint(uint64(p.Chart.Level), 10),
		p.Judge.PlayType.ShortName(),
		p.Grade.ShortName(),
		p.Lamp.ShortName(),
		missCount,
		strconv.FormatUint(uint64(p.ExScore), 10),
		strconv.FormatUint(uint64(p.Judge.PGreat), 10),
		strconv.FormatUint(uint64(p.Judge.Great), 10),
		strconv.FormatUint(uint64(p.Judge.Good), 10),
		strconv.FormatUint(uint64(p.Judge.Bad), 10),
		strconv.FormatUint(uint64(p.Judge.Poor), 10),
		strconv.FormatUint(uint64(p.Judge.ComboBreak), 10),
		strconv.FormatUint(uint64(p.Judge.Fast), 10),
		strconv.FormatUint(uint64(p.Judge.Slow), 10),
		p.Settings.Style.String(),
		style2,
		p.Settings.Assist.String(),
		p.Settings.Range.String(),
		p.Timestamp.Format(time.RFC3339),
	}
	return strings.Join(values, "\t")
}
