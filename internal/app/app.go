package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/pocketcalc/internal/calculator"
	"github.com/agbru/pocketcalc/internal/cli"
	"github.com/agbru/pocketcalc/internal/config"
	apperrors "github.com/agbru/pocketcalc/internal/errors"
	"github.com/agbru/pocketcalc/internal/logging"
	"github.com/agbru/pocketcalc/internal/metrics"
	"github.com/agbru/pocketcalc/internal/server"
	"github.com/agbru/pocketcalc/internal/tui"
	"github.com/agbru/pocketcalc/internal/ui"
)

// Application represents the pocketcalc application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	Logger    logging.Logger
	// In feeds the interactive prompt; defaults to os.Stdin.
	In io.Reader

	programName string
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithLogger sets the logger used for diagnostics and transition logs.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// WithInput sets the reader the interactive prompt consumes.
func WithInput(r io.Reader) AppOption {
	return func(a *Application) { a.In = r }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, In: os.Stdin}
	for _, opt := range opts {
		opt(app)
	}

	programName := "pocketcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = filepath.Base(args[0])
		cmdArgs = args[1:]
	}
	app.programName = programName

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg

	if app.Logger == nil {
		app.Logger = logging.NewConsoleLogger(errWriter, cfg.NoColor)
	}
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	level := zerolog.InfoLevel
	if a.Config.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	ui.InitTheme(a.Config.NoColor)

	switch {
	case a.Config.Keys != "":
		return cli.RunKeys(out, a.ErrWriter, a.Config.Keys, cli.KeysConfig{
			Quiet:     a.Config.Quiet,
			Observers: a.observers(),
		})
	case a.Config.TUI:
		return a.runTUI(ctx)
	case a.Config.ServeAddr != "":
		return a.runServer(ctx)
	default:
		return a.runREPL(out)
	}
}

// observers returns the calculator observers implied by the configuration.
func (a *Application) observers() []calculator.Observer {
	if !a.Config.Verbose {
		return nil
	}
	return []calculator.Observer{logging.NewTransitionLogger(a.Logger)}
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.programName); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runREPL starts the interactive prompt.
func (a *Application) runREPL(out io.Writer) int {
	repl := cli.NewREPL(cli.REPLConfig{
		Observers:  a.observers(),
		HideBanner: a.Config.Quiet,
	})
	repl.SetInput(a.In)
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

// runTUI launches the keypad dashboard.
func (a *Application) runTUI(ctx context.Context) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	return tui.Run(ctx, tui.Config{
		Version:   Version,
		Observers: a.observers(),
	})
}

// runServer serves the HTTP front-end until SIGINT/SIGTERM or ctx ends.
func (a *Application) runServer(ctx context.Context) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	srv := server.New(server.Config{
		Addr:            a.Config.ServeAddr,
		ShutdownTimeout: a.Config.ShutdownTimeout,
		Security:        server.DefaultSecurityConfig(),
		Observers:       a.observers(),
	}, metrics.New(), a.Logger)

	if err := srv.Run(ctx); err != nil {
		a.Logger.Error("server stopped", err)
		return apperrors.ExitCodeFor(err)
	}
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
