package calculator

import (
	"strconv"
	"unicode"
)

// EventKind identifies the keypad command carried by an Event.
type EventKind uint8

const (
	EventDigit EventKind = iota + 1
	EventDecimalPoint
	EventOperator
	EventEquals
	EventClear
)

func (k EventKind) String() string {
	switch k {
	case EventDigit:
		return "digit"
	case EventDecimalPoint:
		return "decimal_point"
	case EventOperator:
		return "operator"
	case EventEquals:
		return "equals"
	case EventClear:
		return "clear"
	default:
		return "unknown"
	}
}

// Event is a single keypad press. Digit is meaningful for EventDigit and Op
// for EventOperator.
type Event struct {
	Kind  EventKind
	Digit int
	Op    Operation
}

// DigitEvent, OperatorEvent and friends build events for Machine.Apply.
func DigitEvent(d int) Event { return Event{Kind: EventDigit, Digit: d} }

func DecimalPointEvent() Event { return Event{Kind: EventDecimalPoint} }

func OperatorEvent(op Operation) Event { return Event{Kind: EventOperator, Op: op} }

func EqualsEvent() Event { return Event{Kind: EventEquals} }

func ClearEvent() Event { return Event{Kind: EventClear} }

// String renders the event as the key that produced it.
func (e Event) String() string {
	switch e.Kind {
	case EventDigit:
		return strconv.Itoa(e.Digit)
	case EventDecimalPoint:
		return string(DecimalSeparator)
	case EventOperator:
		return e.Op.String()
	case EventEquals:
		return "="
	case EventClear:
		return "C"
	default:
		return "?"
	}
}

// ParseKeys turns a key sequence such as "7+3,5=" into events.
//
// Recognized keys are the digits, ',' and '.' for the decimal point, '+',
// '-', '*', 'x', '×', '/', '÷', '=' and 'c'/'C' for clear. Whitespace is
// skipped. Any other rune yields a *KeyError carrying its rune offset.
func ParseKeys(keys string) ([]Event, error) {
	events := make([]Event, 0, len(keys))
	pos := 0
	for _, r := range keys {
		switch {
		case r >= '0' && r <= '9':
			events = append(events, DigitEvent(int(r-'0')))
		case r == ',' || r == '.':
			events = append(events, DecimalPointEvent())
		case r == '=':
			events = append(events, EqualsEvent())
		case r == 'c' || r == 'C':
			events = append(events, ClearEvent())
		case unicode.IsSpace(r):
		default:
			op, err := ParseOperation(string(r))
			if err != nil {
				return nil, &KeyError{Pos: pos, Rune: r}
			}
			events = append(events, OperatorEvent(op))
		}
		pos++
	}
	return events, nil
}
