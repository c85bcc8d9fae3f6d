// ABOUTME: Terminal UI model and core state management
// ABOUTME: Bubble Tea model implementation for the live status dashboard

// Package tui provides an optional read-only terminal dashboard showing the
// tracker's current game state, last captured play, and session progress.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"notewatch/layout"
)

// Update is one status snapshot pushed by the tracker loop, either every
// poll tick (State only) or with full chart detail when a play is captured.
type Update struct {
	State      layout.GameState
	ChartTitle string
	Difficulty string
	ExScore    uint32
	Grade      string
	Lamp       string
	// ScoreRatioDisplay is the achieved-score percentage pre-formatted by
	// the caller with just enough decimal digits to read as different from
	// the previous personal best's percentage.
	ScoreRatioDisplay string
	IsNewBest         bool
	ScoresTracked     int
	SessionPath       string
	Timestamp         time.Time
}

// Options configures the dashboard.
type Options struct {
	ProcessName string
}

// model holds the TUI state.
type model struct {
	opts       Options
	updateChan <-chan Update

	state          layout.GameState
	lastChart      string
	lastDiff       string
	lastExScore    uint32
	lastGrade      string
	lastLamp       string
	lastScoreRatio string
	lastWasBest    bool
	scoresTracked  int
	sessionPath    string
	lastUpdate     time.Time

	width    int
	height   int
	quitting bool
}

type keyMap struct {
	Quit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	valueStyle = lipgloss.NewStyle().
			Bold(true)

	bestStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Run starts the dashboard, reading Updates from updateChan until the user
// quits. A closed updateChan stops further updates but does not end the
// program.
func Run(opts Options, updateChan <-chan Update) error {
	m := initModel(opts, updateChan)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}
	return nil
}

func initModel(opts Options, updateChan <-chan Update) model {
	return model{
		opts:       opts,
		updateChan: updateChan,
		state:      layout.Unknown,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.updateChan), tea.EnterAltScreen)
}

// waitForUpdate waits for a status update and returns it as a message.
func waitForUpdate(updateChan <-chan Update) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updateChan
		if !ok {
			return nil
		}
		return update
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case Update:
		m.state = msg.State
		m.lastUpdate = msg.Timestamp
		m.scoresTracked = msg.ScoresTracked
		if msg.SessionPath != "" {
			m.sessionPath = msg.SessionPath
		}
		if msg.ChartTitle != "" || msg.Difficulty != "" {
			m.lastChart = msg.ChartTitle
			m.lastDiff = msg.Difficulty
			m.lastExScore = msg.ExScore
			m.lastGrade = msg.Grade
			m.lastLamp = msg.Lamp
			m.lastScoreRatio = msg.ScoreRatioDisplay
			m.lastWasBest = msg.IsNewBest
		}
		return m, waitForUpdate(m.updateChan)

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}
