// Package apperrors defines the application's exit codes and structured error
// types, keeping configuration mistakes apart from failures of the calculator
// session itself.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// Error types carrying a cause implement Unwrap() to support errors.Is() and errors.As().
package apperrors
