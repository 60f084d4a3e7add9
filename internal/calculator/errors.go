package calculator

import (
	"errors"
	"fmt"
)

var (
	// ErrDivisionByZero is the only arithmetic failure the calculator models.
	// It is surfaced through the display as ErrorToken, never returned by
	// Equals.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrParse reports a display that is not a numeric literal.
	ErrParse = errors.New("display is not a number")
	// ErrInvalidDigit is returned by Digit for values outside 0-9.
	ErrInvalidDigit = errors.New("invalid digit")
	// ErrInvalidOperation is returned for OpNone or unknown operations.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrInvalidKey is the kind of every KeyError.
	ErrInvalidKey = errors.New("invalid key")
)

// ParseError is returned when the display cannot be read back as a number.
// The machine is left untouched when it happens.
type ParseError struct {
	Display string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %q", ErrParse, e.Display)
	}
	return fmt.Sprintf("%s: %q: %v", ErrParse, e.Display, e.Err)
}

// Is makes errors.Is(err, ErrParse) hold for every ParseError.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

func (e *ParseError) Unwrap() error { return e.Err }

// KeyError locates an unknown rune in a key sequence.
type KeyError struct {
	Pos  int
	Rune rune
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("%s %q at position %d", ErrInvalidKey, e.Rune, e.Pos)
}

func (e *KeyError) Unwrap() error { return ErrInvalidKey }
