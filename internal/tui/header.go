package tui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/pocketcalc/internal/calculator"
)

// HeaderModel renders the title bar and the line above the display showing
// operand A and the pending operation.
type HeaderModel struct {
	version string
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string) HeaderModel {
	return HeaderModel{version: version}
}

// View renders the title bar.
func (h HeaderModel) View() string {
	title := titleStyle.Render("Pocket Calculator")
	if h.version == "" || h.version == "dev" {
		return title
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, versionStyle.Render(" "+h.version))
}

// pendingLine describes the operation waiting for Equals, e.g. "12 +".
func pendingLine(s calculator.Snapshot) string {
	if s.Pending == calculator.OpNone || s.State == calculator.StateError {
		return ""
	}
	return strconv.FormatFloat(s.OperandA, 'g', -1, 64) + " " + s.Pending.String()
}
