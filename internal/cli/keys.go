package cli

import (
	"fmt"
	"io"

	"github.com/agbru/pocketcalc/internal/calculator"
	apperrors "github.com/agbru/pocketcalc/internal/errors"
	"github.com/agbru/pocketcalc/internal/ui"
)

// KeysConfig controls one-shot evaluation.
type KeysConfig struct {
	// Quiet prints the bare display value without decoration.
	Quiet bool
	// Observers are attached to the calculator.
	Observers []calculator.Observer
}

// RunKeys evaluates a key sequence on a fresh calculator and prints the
// final display.
//
// Parameters:
//   - out: The writer receiving the display.
//   - errOut: The writer receiving error messages.
//   - keys: The key sequence, e.g. "7+3=".
//   - config: Output and observer settings.
//
// Returns:
//   - int: ExitSuccess, ExitErrorGeneric when a key is rejected, or
//     ExitErrorDivision when the display ends as the error token.
func RunKeys(out, errOut io.Writer, keys string, config KeysConfig) int {
	opts := make([]calculator.Option, 0, len(config.Observers))
	for _, o := range config.Observers {
		opts = append(opts, calculator.WithObserver(o))
	}
	m := calculator.New(opts...)

	if err := m.ApplyKeys(keys); err != nil {
		inputErr := apperrors.InputError{Input: keys, Cause: err}
		fmt.Fprintf(errOut, "%sError: %v%s\n", ui.ColorError(), inputErr, ui.ColorReset())
		return apperrors.ExitCodeFor(inputErr)
	}

	display := m.Display()
	if config.Quiet {
		fmt.Fprintln(out, display)
	} else {
		fmt.Fprintf(out, "%s = %s\n", keys, colorizeDisplay(display))
	}
	if display == calculator.ErrorToken {
		return apperrors.ExitErrorDivision
	}
	return apperrors.ExitSuccess
}
