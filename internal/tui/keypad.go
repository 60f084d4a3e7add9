package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Layout constants for the keypad.
const (
	keyWidth     = 5
	displayWidth = 4 * keyWidth
)

// keypadRows is the on-screen keypad, top to bottom.
var keypadRows = [][]string{
	{"7", "8", "9", "÷"},
	{"4", "5", "6", "×"},
	{"1", "2", "3", "-"},
	{"0", ",", "=", "+"},
	{"C"},
}

// keyLabel maps the key that was typed to the keypad label it lights up.
func keyLabel(typed string) string {
	switch typed {
	case ".":
		return ","
	case "*", "x":
		return "×"
	case "/":
		return "÷"
	case "enter":
		return "="
	case "c", "esc", "backspace", "delete":
		return "C"
	}
	return typed
}

func keyStyle(label string) lipgloss.Style {
	switch label {
	case "+", "-", "×", "÷":
		return operatorKeyStyle
	case "=":
		return equalsKeyStyle
	case "C":
		return clearKeyStyle
	default:
		return digitKeyStyle
	}
}

// renderKeypad draws the keypad grid with the pressed label highlighted.
func renderKeypad(pressed string) string {
	rows := make([]string, 0, len(keypadRows))
	for _, row := range keypadRows {
		cells := make([]string, 0, len(row))
		for _, label := range row {
			style := keyStyle(label)
			if label == pressed {
				style = pressedKeyStyle
			}
			cells = append(cells, style.Render("["+label+"]"))
		}
		rows = append(rows, strings.Join(cells, ""))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
