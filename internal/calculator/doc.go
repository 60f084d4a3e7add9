// Package calculator implements the four-function calculator core: a small
// state machine that consumes discrete key events (digits, decimal point,
// operators, equals, clear) and exposes the resulting display string.
//
// The machine is deliberately front-end agnostic. The CLI, the TUI and the
// HTTP server all drive the same [Machine] through its command methods or
// through [Machine.Apply] with events produced by [ParseKeys].
//
// A Machine is not safe for concurrent use; each front-end owns its instance.
package calculator
