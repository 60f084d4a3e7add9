package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keypad bindings. It implements help.KeyMap so the
// footer can list them.
type KeyMap struct {
	Digit    key.Binding
	Decimal  key.Binding
	Add      key.Binding
	Subtract key.Binding
	Multiply key.Binding
	Divide   key.Binding
	Equals   key.Binding
	Clear    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Digit: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("0-9", "digit"),
		),
		Decimal: key.NewBinding(
			key.WithKeys(",", "."),
			key.WithHelp(",", "decimal"),
		),
		Add: key.NewBinding(
			key.WithKeys("+"),
			key.WithHelp("+", "add"),
		),
		Subtract: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "subtract"),
		),
		Multiply: key.NewBinding(
			key.WithKeys("*", "x", "×"),
			key.WithHelp("*", "multiply"),
		),
		Divide: key.NewBinding(
			key.WithKeys("/", "÷"),
			key.WithHelp("/", "divide"),
		),
		Equals: key.NewBinding(
			key.WithKeys("=", "enter"),
			key.WithHelp("=", "equals"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c", "C", "esc", "backspace", "delete"),
			key.WithHelp("c/esc", "clear"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Equals, k.Clear, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Digit, k.Decimal},
		{k.Add, k.Subtract, k.Multiply, k.Divide},
		{k.Equals, k.Clear},
		{k.Help, k.Quit},
	}
}
