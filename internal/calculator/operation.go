package calculator

import (
	"fmt"
	"strings"
)

// Operation is the pending binary operation of the calculator.
// The zero value is OpNone.
type Operation uint8

const (
	OpNone Operation = iota
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
)

// String returns the keypad symbol of the operation.
func (op Operation) String() string {
	switch op {
	case OpNone:
		return "none"
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "×"
	case OpDivide:
		return "÷"
	default:
		return fmt.Sprintf("Operation(%d)", uint8(op))
	}
}

// Valid reports whether op is one of the four binary operations.
func (op Operation) Valid() bool {
	return op >= OpAdd && op <= OpDivide
}

// apply computes a op b. OpNone yields 0, like an equals press with nothing
// pending on the physical keypad.
func (op Operation) apply(a, b float64) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSubtract:
		return a - b
	case OpMultiply:
		return a * b
	case OpDivide:
		return a / b
	default:
		return 0
	}
}

// ParseOperation converts a symbol or a word into an Operation.
//
// Accepted spellings: "+", "add", "plus"; "-", "sub", "minus"; "*", "x",
// "×", "mul", "times"; "/", "÷", "div". Matching is case-insensitive.
func ParseOperation(s string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "+", "add", "plus":
		return OpAdd, nil
	case "-", "sub", "minus":
		return OpSubtract, nil
	case "*", "x", "×", "mul", "times":
		return OpMultiply, nil
	case "/", "÷", "div":
		return OpDivide, nil
	}
	return OpNone, fmt.Errorf("%w: %q", ErrInvalidOperation, s)
}
