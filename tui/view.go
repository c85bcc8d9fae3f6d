// ABOUTME: Rendering and display functions for the TUI
// ABOUTME: Implements the Bubble Tea View() function and all render helpers

package tui

import (
	"fmt"
	"strings"
)

// View renders the dashboard.
func (m model) View() string {
	if m.quitting {
		return "notewatch stopped\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("notewatch"))
	if m.opts.ProcessName != "" {
		b.WriteString(labelStyle.Render(" — " + m.opts.ProcessName))
	}
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("state:  "))
	b.WriteString(valueStyle.Render(m.state.String()))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("scores tracked: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d", m.scoresTracked)))
	b.WriteString("\n")

	if m.sessionPath != "" {
		b.WriteString(labelStyle.Render("session: "))
		b.WriteString(valueStyle.Render(m.sessionPath))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.lastChart == "" {
		b.WriteString(labelStyle.Render("no play captured yet"))
		b.WriteString("\n")
	} else {
		b.WriteString(titleStyle.Render("last play"))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("chart:  "))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%s [%s]", m.lastChart, m.lastDiff)))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("result: "))
		result := fmt.Sprintf("%d EX  %s  %s", m.lastExScore, m.lastGrade, m.lastLamp)
		if m.lastScoreRatio != "" {
			result += fmt.Sprintf("  (%s%%)", m.lastScoreRatio)
		}
		if m.lastWasBest {
			b.WriteString(bestStyle.Render(result + "  NEW BEST"))
		} else {
			b.WriteString(valueStyle.Render(result))
		}
		b.WriteString("\n")
	}

	if !m.lastUpdate.IsZero() {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("last update: " + m.lastUpdate.Format("15:04:05")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("q: quit"))

	return b.String()
}
