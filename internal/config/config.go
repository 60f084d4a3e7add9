// Package config parses the command line and the POCKETCALC_ environment
// into an AppConfig.
package config

import (
	"flag"
	"fmt"
	"io"
	"net"
	"time"

	apperrors "github.com/agbru/pocketcalc/internal/errors"
)

// EnvPrefix is prepended to every environment override key.
const EnvPrefix = "POCKETCALC_"

// DefaultShutdownTimeout bounds the HTTP server's graceful shutdown.
const DefaultShutdownTimeout = 5 * time.Second

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Keys is a key sequence evaluated once, e.g. "7+3=". Empty means
	// interactive mode.
	Keys string
	// TUI starts the keypad dashboard instead of the REPL.
	TUI bool
	// ServeAddr starts the HTTP front-end on this address.
	ServeAddr string
	// ShutdownTimeout bounds graceful shutdown of the HTTP front-end.
	ShutdownTimeout time.Duration
	// Quiet prints only the bare display value.
	Quiet bool
	// Verbose logs every calculator transition.
	Verbose bool
	// NoColor disables ANSI colors and TUI styling.
	NoColor bool
	// Completion names a shell whose completion script should be printed.
	Completion string
}

// Validate checks the configuration for incompatible or invalid values.
//
// Returns:
//   - error: An apperrors.ConfigError describing the first problem found.
func (c AppConfig) Validate() error {
	modes := 0
	for _, on := range []bool{c.Keys != "", c.TUI, c.ServeAddr != ""} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return apperrors.NewConfigError("-keys, -tui and -serve are mutually exclusive")
	}
	if c.ServeAddr != "" {
		if _, _, err := net.SplitHostPort(c.ServeAddr); err != nil {
			return apperrors.NewConfigError("invalid -serve address %q: %v", c.ServeAddr, err)
		}
	}
	if c.ShutdownTimeout <= 0 {
		return apperrors.NewConfigError("-shutdown-timeout must be positive, got %s", c.ShutdownTimeout)
	}
	switch c.Completion {
	case "", "bash", "zsh", "fish":
	default:
		return apperrors.NewConfigError("unsupported shell %q for -completion (accepted values: bash, zsh, fish)", c.Completion)
	}
	return nil
}

// ParseConfig parses command-line arguments, applies environment overrides
// for flags that were not set explicitly, and validates the result.
//
// Parameters:
//   - programName: The program name used in the usage message.
//   - args: The arguments without the program name.
//   - errorOutput: The writer for usage and parse errors.
//
// Returns:
//   - AppConfig: The parsed configuration.
//   - error: flag.ErrHelp when -h was given, or a ConfigError.
func ParseConfig(programName string, args []string, errorOutput io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorOutput)

	config := AppConfig{}
	fs.StringVar(&config.Keys, "keys", "", "Evaluate a key sequence (e.g. \"7+3,5=\") and exit.")
	fs.BoolVar(&config.TUI, "tui", false, "Start the interactive keypad dashboard.")
	fs.StringVar(&config.ServeAddr, "serve", "", "Serve the HTTP front-end on this address (e.g. \":8080\").")
	fs.DurationVar(&config.ShutdownTimeout, "shutdown-timeout", DefaultShutdownTimeout, "Graceful shutdown budget for -serve.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print only the display value.")
	fs.BoolVar(&config.Quiet, "q", false, "Print only the display value (shorthand).")
	fs.BoolVar(&config.Verbose, "verbose", false, "Log every calculator transition.")
	fs.BoolVar(&config.Verbose, "v", false, "Log every calculator transition (shorthand).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&config.Completion, "completion", "", "Print a completion script for bash, zsh or fish.")

	fs.Usage = func() {
		fmt.Fprintf(errorOutput, "Usage: %s [flags]\n\n", programName)
		fmt.Fprintf(errorOutput, "Four-function calculator. Without -keys, -tui or -serve an interactive prompt starts.\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %v", fs.Args())
	}

	applyEnvOverrides(&config, fs)

	if err := config.Validate(); err != nil {
		fmt.Fprintln(errorOutput, err)
		return AppConfig{}, err
	}
	return config, nil
}
