// Package cli provides the interactive prompt, one-shot key evaluation and
// shell completion scripts.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agbru/pocketcalc/internal/calculator"
	"github.com/agbru/pocketcalc/internal/ui"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// Observers are attached to the session's calculator.
	Observers []calculator.Observer
	// HideBanner skips the welcome banner and the help listing.
	HideBanner bool
}

// REPL represents an interactive calculator session. Each line is either a
// command or a key sequence such as "12,5*4=".
type REPL struct {
	config  REPLConfig
	machine *calculator.Machine
	in      io.Reader
	out     io.Writer
}

// NewREPL creates a new REPL instance with a cleared calculator.
//
// Parameters:
//   - config: REPL configuration.
//
// Returns:
//   - *REPL: A new REPL instance reading stdin and writing stdout.
func NewREPL(config REPLConfig) *REPL {
	opts := make([]calculator.Option, 0, len(config.Observers))
	for _, o := range config.Observers {
		opts = append(opts, calculator.WithObserver(o))
	}
	return &REPL{
		config:  config,
		machine: calculator.New(opts...),
		in:      os.Stdin,
		out:     os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Display returns the calculator's current display.
func (r *REPL) Display() string {
	return r.machine.Display()
}

// Start begins the interactive session. It reads lines until the user
// exits or EOF is reached.
func (r *REPL) Start() {
	if !r.config.HideBanner {
		r.printBanner()
		r.printHelp()
		fmt.Fprintln(r.out)
	}

	reader := bufio.NewReader(r.in)

	for {
		fmt.Fprint(r.out, ui.ColorPrompt()+"calc> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorError(), err, ui.ColorReset())
			return
		}

		line := strings.TrimSpace(input)
		if line != "" && !r.processCommand(line) {
			return
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔════════════════════════════════════╗%s\n", ui.ColorDim(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s   %sPocket Calculator%s                %s║%s\n",
		ui.ColorDim(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorDim(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚════════════════════════════════════╝%s\n\n", ui.ColorDim(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sKeys:%s 0-9  , or .  + - * /  =  c (clear)\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "%sCommands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sdisplay%s        - Show the display\n", ui.ColorOperator(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstate%s          - Show operands, pending operation and phase\n", ui.ColorOperator(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sclear%s          - Reset the calculator\n", ui.ColorOperator(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s           - Display this help\n", ui.ColorOperator(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s    - Leave the calculator\n", ui.ColorOperator(), ui.ColorReset(), ui.ColorOperator(), ui.ColorReset())
}

// processCommand executes a command or a key sequence.
// Returns false if the REPL should exit.
func (r *REPL) processCommand(input string) bool {
	switch strings.ToLower(input) {
	case "help", "h", "?":
		r.printHelp()
	case "display", "show":
		r.printDisplay()
	case "state", "status":
		r.printState()
	case "clear":
		r.machine.Clear()
		r.printDisplay()
	case "exit", "quit", "q":
		fmt.Fprintln(r.out, "Goodbye!")
		return false
	default:
		r.evaluate(input)
	}
	return true
}

func (r *REPL) evaluate(keys string) {
	err := r.machine.ApplyKeys(keys)
	var keyErr *calculator.KeyError
	if errors.As(err, &keyErr) {
		fmt.Fprintf(r.out, "%s%v%s\n", ui.ColorError(), err, ui.ColorReset())
		fmt.Fprintf(r.out, "Type %shelp%s to see available keys.\n", ui.ColorOperator(), ui.ColorReset())
		return
	}
	if err != nil {
		fmt.Fprintf(r.out, "%s%v%s\n", ui.ColorError(), err, ui.ColorReset())
	}
	r.printDisplay()
}

func (r *REPL) printDisplay() {
	fmt.Fprintf(r.out, "  %s\n", colorizeDisplay(r.machine.Display()))
}

func (r *REPL) printState() {
	s := r.machine.Snapshot()
	fmt.Fprintf(r.out, "\n%sCurrent state:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Display:    %s\n", colorizeDisplay(s.Display))
	fmt.Fprintf(r.out, "  Operand A:  %s%g%s\n", ui.ColorDisplay(), s.OperandA, ui.ColorReset())
	fmt.Fprintf(r.out, "  Operand B:  %s%g%s\n", ui.ColorDisplay(), s.OperandB, ui.ColorReset())
	fmt.Fprintf(r.out, "  Pending:    %s%s%s\n", ui.ColorOperator(), s.Pending, ui.ColorReset())
	fmt.Fprintf(r.out, "  Phase:      %s%s%s\n", ui.ColorDim(), s.State, ui.ColorReset())
	fmt.Fprintln(r.out)
}

func colorizeDisplay(display string) string {
	if display == calculator.ErrorToken {
		return ui.ColorError() + display + ui.ColorReset()
	}
	return ui.ColorDisplay() + display + ui.ColorReset()
}
