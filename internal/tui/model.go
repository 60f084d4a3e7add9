// Package tui implements the interactive keypad built on bubbletea.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/pocketcalc/internal/calculator"
	apperrors "github.com/agbru/pocketcalc/internal/errors"
)

// Config configures a keypad session.
type Config struct {
	// Version is shown next to the title.
	Version string
	// Observers are attached to the session's calculator.
	Observers []calculator.Observer
}

// ContextCancelledMsg reports that the parent context ended.
type ContextCancelledMsg struct {
	Err error
}

// Model is the root bubbletea model for the keypad.
type Model struct {
	header  HeaderModel
	help    help.Model
	keymap  KeyMap
	machine *calculator.Machine

	ctx      context.Context
	pressed  string
	lastErr  error
	width    int
	height   int
	exitCode int
}

// NewModel creates a keypad model with a cleared calculator.
func NewModel(ctx context.Context, cfg Config) Model {
	opts := make([]calculator.Option, 0, len(cfg.Observers))
	for _, o := range cfg.Observers {
		opts = append(opts, calculator.WithObserver(o))
	}
	return Model{
		header:   NewHeaderModel(cfg.Version),
		help:     help.New(),
		keymap:   DefaultKeyMap(),
		machine:  calculator.New(opts...),
		ctx:      ctx,
		exitCode: apperrors.ExitSuccess,
	}
}

// Display returns the calculator display.
func (m Model) Display() string {
	return m.machine.Display()
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return watchContextCmd(m.ctx)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case ContextCancelledMsg:
		m.exitCode = apperrors.ExitErrorCanceled
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var ev calculator.Event
	typed := msg.String()

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keymap.Digit):
		ev = calculator.DigitEvent(int(typed[0] - '0'))
	case key.Matches(msg, m.keymap.Decimal):
		ev = calculator.DecimalPointEvent()
	case key.Matches(msg, m.keymap.Add):
		ev = calculator.OperatorEvent(calculator.OpAdd)
	case key.Matches(msg, m.keymap.Subtract):
		ev = calculator.OperatorEvent(calculator.OpSubtract)
	case key.Matches(msg, m.keymap.Multiply):
		ev = calculator.OperatorEvent(calculator.OpMultiply)
	case key.Matches(msg, m.keymap.Divide):
		ev = calculator.OperatorEvent(calculator.OpDivide)
	case key.Matches(msg, m.keymap.Equals):
		ev = calculator.EqualsEvent()
	case key.Matches(msg, m.keymap.Clear):
		ev = calculator.ClearEvent()
	default:
		return m, nil
	}

	m.pressed = keyLabel(typed)
	m.lastErr = m.machine.Apply(ev)
	return m, nil
}

// View renders the keypad.
func (m Model) View() string {
	s := m.machine.Snapshot()

	display := displayStyle.Render(s.Display)
	if s.State == calculator.StateError {
		display = displayErrStyle.Render(s.Display)
	}

	status := statusStyle.Render(s.State.String())
	if m.lastErr != nil {
		status = statusErrStyle.Render(errorSummary(m.lastErr))
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		pendingStyle.Render(pendingLine(s)),
		display,
		"",
		renderKeypad(m.pressed),
		"",
		status,
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		panelStyle.Render(body),
		m.help.View(m.keymap),
	)
}

// errorSummary shortens calculator errors for the status line.
func errorSummary(err error) string {
	switch {
	case errors.Is(err, calculator.ErrParse):
		return "display is not a number"
	case errors.Is(err, calculator.ErrInvalidOperation):
		return "unknown operation"
	case errors.Is(err, calculator.ErrInvalidDigit):
		return "unknown digit"
	default:
		return err.Error()
	}
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, cfg Config) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewModel(ctx, cfg), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}

	if m, ok := finalModel.(Model); ok {
		return m.exitCode
	}
	return apperrors.ExitErrorCanceled
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
