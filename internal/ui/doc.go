// Package ui provides theme and color support for the calculator's user
// interfaces. It defines the ANSI palette used by the REPL and the lipgloss
// palette used by the keypad TUI.
//
// This package is designed to be a shared dependency for packages that need
// color output, reducing coupling between the calculator core and presentation.
package ui
