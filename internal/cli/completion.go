package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// Every generator reads flagRegistry, so adding a flag only requires
// appending to it.
type FlagCompletion struct {
	Long      string   // long flag name without "--" (e.g., "help")
	Short     string   // short flag without "-" (e.g., "h")
	Help      string   // description text
	Values    []string // suggested completion values (nil = boolean/no suggestions)
	ValueName string   // label for the value in zsh (e.g., "keys", "duration")
}

// flagRegistry is the central list of all CLI flags for completion generation.
var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Long: "keys", Help: "Evaluate a key sequence and exit", ValueName: "keys"},
	{Long: "tui", Help: "Start the keypad dashboard"},
	{Long: "serve", Help: "Serve the HTTP front-end", Values: []string{":8080", "127.0.0.1:8080"}, ValueName: "address"},
	{Long: "shutdown-timeout", Help: "Graceful shutdown budget", Values: []string{"1s", "5s", "30s"}, ValueName: "duration"},
	{Long: "quiet", Short: "q", Help: "Print only the display value"},
	{Long: "verbose", Short: "v", Help: "Log every calculator transition"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish"}, ValueName: "shell"},
}

// GenerateCompletion writes a completion script for the given shell.
//
// Parameters:
//   - out: The writer receiving the script.
//   - shell: "bash", "zsh" or "fish".
//   - program: The executable name the script completes.
//
// Returns:
//   - error: An error if the shell is not supported or the write fails.
func GenerateCompletion(out io.Writer, shell, program string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion(program)
	case "zsh":
		script = zshCompletion(program)
	case "fish":
		script = fishCompletion(program)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

func bashCompletion(program string) string {
	var opts []string
	var cases strings.Builder
	for _, f := range flagRegistry {
		if f.Long != "" {
			opts = append(opts, "--"+f.Long)
		}
		if f.Short != "" {
			opts = append(opts, "-"+f.Short)
		}
		if len(f.Values) > 0 {
			fmt.Fprintf(&cases, "        --%s|-%s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n",
				f.Long, f.Long, strings.Join(f.Values, " "))
		}
	}
	fn := "_" + strings.ReplaceAll(program, "-", "_") + "_completions"

	return fmt.Sprintf(`# Bash completion script for %[1]s
# Add this to your ~/.bashrc or ~/.bash_completion

%[2]s() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    opts="%[3]s"

    case "${prev}" in
%[4]s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F %[2]s %[1]s
`, program, fn, strings.Join(opts, " "), cases.String())
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	valueSuffix := ""
	if len(f.Values) > 0 {
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	} else if f.ValueName != "" {
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}

	if f.Short != "" {
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	}
	return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
}

func zshCompletion(program string) string {
	args := make([]string, 0, len(flagRegistry))
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}
	fn := "_" + strings.ReplaceAll(program, "-", "_")

	return fmt.Sprintf(`#compdef %[1]s

# Zsh completion script for %[1]s
# Add this to your ~/.zshrc or place in $fpath

%[2]s() {
    _arguments -s \
%[3]s
}

%[2]s "$@"
`, program, fn, strings.Join(args, " \\\n"))
}

func fishCompletion(program string) string {
	lines := []string{
		"# Fish completion script for " + program,
		"# Add this to ~/.config/fish/completions/" + program + ".fish",
		"",
		"complete -c " + program + " -f",
	}
	for _, f := range flagRegistry {
		line := "complete -c " + program + " -l " + f.Long
		if f.Short != "" {
			line += " -s " + f.Short
		}
		line += fmt.Sprintf(" -d '%s'", f.Help)
		if len(f.Values) > 0 {
			line += fmt.Sprintf(" -x -a '%s'", strings.Join(f.Values, " "))
		} else if f.ValueName != "" {
			line += " -r"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n") + "\n"
}
