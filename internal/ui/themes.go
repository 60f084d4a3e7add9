package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines a color scheme for line-oriented output.
// Each field contains an ANSI escape code for the corresponding color category.
type Theme struct {
	// Name is the identifier of the theme.
	Name string
	// Display colors the calculator display value.
	Display string
	// Prompt colors the REPL prompt.
	Prompt string
	// Operator colors operator symbols and command names.
	Operator string
	// Error colors error messages and the error token.
	Error string
	// Dim is used for hints and secondary text.
	Dim string
	// Bold is the escape code for bold text.
	Bold string
	// Reset clears all formatting.
	Reset string
}

var (
	// DarkTheme is optimized for dark terminal backgrounds.
	DarkTheme = Theme{
		Name:     "dark",
		Display:  "\033[38;5;82m",  // Bright green, like an LCD
		Prompt:   "\033[38;5;39m",  // Bright blue
		Operator: "\033[38;5;208m", // Orange
		Error:    "\033[38;5;196m", // Red
		Dim:      "\033[38;5;245m", // Grey
		Bold:     "\033[1m",
		Reset:    "\033[0m",
	}

	// LightTheme is optimized for light terminal backgrounds.
	LightTheme = Theme{
		Name:     "light",
		Display:  "\033[38;5;28m",  // Dark green
		Prompt:   "\033[38;5;27m",  // Dark blue
		Operator: "\033[38;5;130m", // Dark orange
		Error:    "\033[38;5;124m", // Dark red
		Dim:      "\033[38;5;240m", // Dark grey
		Bold:     "\033[1m",
		Reset:    "\033[0m",
	}

	// NoColorTheme disables all color output.
	// Used when NO_COLOR is set or -no-color is provided.
	NoColorTheme = Theme{Name: "none"}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// TUITheme defines lipgloss-compatible colors for the keypad TUI.
type TUITheme struct {
	Bg        lipgloss.TerminalColor
	Text      lipgloss.TerminalColor
	Border    lipgloss.TerminalColor
	DisplayFg lipgloss.TerminalColor
	DisplayBg lipgloss.TerminalColor
	Digit     lipgloss.TerminalColor
	Operator  lipgloss.TerminalColor
	Equals    lipgloss.TerminalColor
	Clear     lipgloss.TerminalColor
	Error     lipgloss.TerminalColor
	Dim       lipgloss.TerminalColor
}

var (
	// DarkTUITheme is the default keypad palette.
	DarkTUITheme = TUITheme{
		Bg:        lipgloss.Color("#000000"),
		Text:      lipgloss.Color("#E0E0E0"),
		Border:    lipgloss.Color("#FF6600"),
		DisplayFg: lipgloss.Color("#9ece6a"),
		DisplayBg: lipgloss.Color("#1a1b26"),
		Digit:     lipgloss.Color("#E0E0E0"),
		Operator:  lipgloss.Color("#FF8C00"),
		Equals:    lipgloss.Color("#4488FF"),
		Clear:     lipgloss.Color("#FFB347"),
		Error:     lipgloss.Color("#FF4444"),
		Dim:       lipgloss.Color("#666666"),
	}

	// NoColorTUITheme disables all TUI colors.
	// lipgloss.NoColor{} renders text with the terminal's default colors.
	NoColorTUITheme = TUITheme{
		Bg:        lipgloss.NoColor{},
		Text:      lipgloss.NoColor{},
		Border:    lipgloss.NoColor{},
		DisplayFg: lipgloss.NoColor{},
		DisplayBg: lipgloss.NoColor{},
		Digit:     lipgloss.NoColor{},
		Operator:  lipgloss.NoColor{},
		Equals:    lipgloss.NoColor{},
		Clear:     lipgloss.NoColor{},
		Error:     lipgloss.NoColor{},
		Dim:       lipgloss.NoColor{},
	}
)

// GetCurrentTUITheme returns the TUI theme matching the currently active theme.
func GetCurrentTUITheme() TUITheme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()

	if currentTheme.Name == NoColorTheme.Name {
		return NoColorTUITheme
	}
	return DarkTUITheme
}

// GetCurrentTheme returns the currently active theme in a thread-safe manner.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme sets the currently active theme in a thread-safe manner.
// This is primarily used for testing purposes to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme changes the active theme by name ("dark", "light", "none").
// Unknown names default to dark theme.
func SetTheme(name string) {
	themeMutex.Lock()
	defer themeMutex.Unlock()

	switch name {
	case "light":
		currentTheme = LightTheme
	case "none":
		currentTheme = NoColorTheme
	default:
		currentTheme = DarkTheme
	}
}

// InitTheme initializes the theme based on the noColor flag and environment.
// It respects the NO_COLOR environment variable (https://no-color.org/).
func InitTheme(noColor bool) {
	themeMutex.Lock()
	defer themeMutex.Unlock()

	if noColor {
		currentTheme = NoColorTheme
		return
	}
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		currentTheme = NoColorTheme
		return
	}
	currentTheme = DarkTheme
}
