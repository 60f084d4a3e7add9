package calculator

import (
	"errors"
	"fmt"
)

// State is the coarse phase of the calculator.
type State uint8

const (
	// StateEnteringFirst accepts the first operand. It is also the state
	// after Equals, where further digits extend the shown result.
	StateEnteringFirst State = iota
	// StateOperatorSelected follows an operator press; the display reads "0".
	StateOperatorSelected
	// StateEnteringSecond accepts the second operand.
	StateEnteringSecond
	// StateError shows ErrorToken and ignores everything but Clear.
	StateError
)

func (s State) String() string {
	switch s {
	case StateEnteringFirst:
		return "entering_first_operand"
	case StateOperatorSelected:
		return "operator_selected"
	case StateEnteringSecond:
		return "entering_second_operand"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Machine is the calculator state machine.
type Machine struct {
	display  string
	a, b     float64
	pending  Operation
	state    State
	observer []Observer
}

// Option configures a Machine during construction.
type Option func(*Machine)

// WithObserver registers an observer notified after every event.
func WithObserver(o Observer) Option {
	return func(m *Machine) {
		if o != nil {
			m.observer = append(m.observer, o)
		}
	}
}

// New creates a cleared Machine showing "0".
func New(opts ...Option) *Machine {
	m := &Machine{}
	m.reset()
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) reset() {
	m.display = initialDisplay
	m.a, m.b = 0, 0
	m.pending = OpNone
	m.state = StateEnteringFirst
}

// Display returns the current display string.
func (m *Machine) Display() string { return m.display }

// State returns the current phase.
func (m *Machine) State() State { return m.state }

// Snapshot returns a copy of every observable field.
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		Display:  m.display,
		OperandA: m.a,
		OperandB: m.b,
		Pending:  m.pending,
		State:    m.state,
	}
}

// Digit enters d (0-9).
//
// A lone "0" on the display is replaced, anything else is extended. The
// operand being typed (A with nothing pending, B otherwise) is re-read from
// the display.
func (m *Machine) Digit(d int) error {
	return m.Apply(DigitEvent(d))
}

// DecimalPoint enters the decimal separator. "0" becomes "0,". A second
// separator is ignored so the display never holds two.
func (m *Machine) DecimalPoint() error {
	return m.Apply(DecimalPointEvent())
}

// Operator commits the display to operand A and makes op pending. Pressing
// another operator before Equals replaces op and commits A again from the
// display, which reads "0" at that point.
func (m *Machine) Operator(op Operation) error {
	return m.Apply(OperatorEvent(op))
}

// Equals applies the pending operation. Dividing by an operand B of exactly
// zero shows ErrorToken and locks the machine until Clear; the operands are
// kept as they were.
func (m *Machine) Equals() error {
	return m.Apply(EqualsEvent())
}

// Clear resets the machine to its initial state. It is always accepted.
func (m *Machine) Clear() {
	_ = m.Apply(ClearEvent())
}

// Apply processes a single event atomically and notifies the observers.
//
// Parameters:
//   - ev: The keypad event to process.
//
// Returns:
//   - error: ErrInvalidDigit, ErrInvalidOperation or a *ParseError. The
//     machine is unchanged whenever an error is returned.
func (m *Machine) Apply(ev Event) error {
	t := Transition{Event: ev, Before: m.Snapshot()}

	switch {
	case ev.Kind == EventClear:
		m.reset()
	case m.state == StateError:
		t.Ignored = true
	default:
		t.Err = m.dispatch(ev)
	}

	t.After = m.Snapshot()
	for _, o := range m.observer {
		o.Observe(t)
	}
	if errors.Is(t.Err, ErrDivisionByZero) {
		return nil
	}
	return t.Err
}

// ApplyKeys parses keys with ParseKeys and applies the events in order.
// Nothing is applied when the sequence does not parse; otherwise it stops
// at the first rejected event, leaving the earlier ones applied.
func (m *Machine) ApplyKeys(keys string) error {
	events, err := ParseKeys(keys)
	if err != nil {
		return err
	}
	for _, ev := range events {
		if err := m.Apply(ev); err != nil {
			return fmt.Errorf("key %q: %w", ev.String(), err)
		}
	}
	return nil
}

func (m *Machine) dispatch(ev Event) error {
	switch ev.Kind {
	case EventDigit:
		if ev.Digit < 0 || ev.Digit > 9 {
			return fmt.Errorf("%w: %d", ErrInvalidDigit, ev.Digit)
		}
		return m.enter(rune('0' + ev.Digit))
	case EventDecimalPoint:
		if hasSeparator(m.display) {
			return nil
		}
		return m.enter(DecimalSeparator)
	case EventOperator:
		return m.selectOperator(ev.Op)
	case EventEquals:
		return m.equals()
	default:
		return fmt.Errorf("unknown event kind %d", ev.Kind)
	}
}

func (m *Machine) enter(c rune) error {
	next := m.display + string(c)
	if m.display == initialDisplay && c != DecimalSeparator {
		next = string(c)
	}
	v, err := parseDisplay(next)
	if err != nil {
		return err
	}

	m.display = next
	if m.pending == OpNone {
		m.a = v
		return nil
	}
	m.b = v
	m.state = StateEnteringSecond
	return nil
}

func (m *Machine) selectOperator(op Operation) error {
	if !op.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidOperation, op)
	}
	v, err := parseDisplay(m.display)
	if err != nil {
		return err
	}
	m.a = v
	m.pending = op
	m.display = initialDisplay
	m.state = StateOperatorSelected
	return nil
}

func (m *Machine) equals() error {
	if m.pending == OpDivide && m.b == 0 {
		m.display = ErrorToken
		m.state = StateError
		return ErrDivisionByZero
	}
	result := m.pending.apply(m.a, m.b)
	m.pending = OpNone
	m.a = result
	m.b = 0
	m.display = FormatResult(result)
	m.state = StateEnteringFirst
	return nil
}
