package logging

import (
	"errors"

	"github.com/agbru/pocketcalc/internal/calculator"
)

// TransitionLogger logs every calculator transition at debug level and the
// division-by-zero and rejected inputs at error level.
type TransitionLogger struct {
	logger Logger
}

var _ calculator.Observer = (*TransitionLogger)(nil)

// NewTransitionLogger returns an observer writing to logger.
func NewTransitionLogger(logger Logger) *TransitionLogger {
	return &TransitionLogger{logger: logger}
}

// Observe implements calculator.Observer.
func (l *TransitionLogger) Observe(t calculator.Transition) {
	fields := []Field{
		String("event", t.Event.Kind.String()),
		String("key", t.Event.String()),
		String("display", t.After.Display),
		String("state", t.After.State.String()),
		Float64("operand_a", t.After.OperandA),
		Float64("operand_b", t.After.OperandB),
	}
	switch {
	case t.Ignored:
		l.logger.Debug("input ignored while showing error", fields...)
	case errors.Is(t.Err, calculator.ErrDivisionByZero):
		l.logger.Error("division by zero", t.Err, fields...)
	case t.Err != nil:
		l.logger.Error("input rejected", t.Err, fields...)
	default:
		l.logger.Debug("transition", fields...)
	}
}
