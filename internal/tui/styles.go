package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/pocketcalc/internal/ui"
)

// Style variables for the keypad.
// Initialized from the ui theme system via initTUIStyles().
var (
	panelStyle       lipgloss.Style
	titleStyle       lipgloss.Style
	versionStyle     lipgloss.Style
	displayStyle     lipgloss.Style
	displayErrStyle  lipgloss.Style
	pendingStyle     lipgloss.Style
	digitKeyStyle    lipgloss.Style
	operatorKeyStyle lipgloss.Style
	equalsKeyStyle   lipgloss.Style
	clearKeyStyle    lipgloss.Style
	pressedKeyStyle  lipgloss.Style
	statusStyle      lipgloss.Style
	statusErrStyle   lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all TUI styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has been invoked.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Border)

	versionStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	displayStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.DisplayFg).
		Background(t.DisplayBg).
		Align(lipgloss.Right).
		Width(displayWidth).
		Padding(0, 1)

	displayErrStyle = displayStyle.
		Foreground(t.Error)

	pendingStyle = lipgloss.NewStyle().
		Foreground(t.Dim).
		Align(lipgloss.Right).
		Width(displayWidth).
		Padding(0, 1)

	keyBase := lipgloss.NewStyle().
		Width(keyWidth).
		Align(lipgloss.Center)

	digitKeyStyle = keyBase.Foreground(t.Digit)
	operatorKeyStyle = keyBase.Foreground(t.Operator).Bold(true)
	equalsKeyStyle = keyBase.Foreground(t.Equals).Bold(true)
	clearKeyStyle = keyBase.Foreground(t.Clear).Bold(true)
	pressedKeyStyle = keyBase.Reverse(true).Bold(true)

	statusStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	statusErrStyle = lipgloss.NewStyle().
		Foreground(t.Error)
}
