//go:generate mockgen -source=observer.go -destination=mocks/mock_observer.go -package=mocks

package calculator

// Snapshot is a copy of the machine's observable fields.
type Snapshot struct {
	Display  string    `json:"display"`
	OperandA float64   `json:"operandA"`
	OperandB float64   `json:"operandB"`
	Pending  Operation `json:"-"`
	State    State     `json:"-"`
}

// Transition describes one processed event.
type Transition struct {
	Event  Event
	Before Snapshot
	After  Snapshot
	// Err is the failure the event produced, including ErrDivisionByZero
	// which never leaves Equals as a return value.
	Err error
	// Ignored is set for events dropped while the machine shows ErrorToken.
	Ignored bool
}

// Observer is notified after every event the machine receives, whether it
// succeeded, failed or was ignored. Observers run synchronously on the
// caller's goroutine and must not call back into the machine.
type Observer interface {
	Observe(t Transition)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(t Transition)

// Observe calls f(t).
func (f ObserverFunc) Observe(t Transition) { f(t) }
