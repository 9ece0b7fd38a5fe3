package operations

import (
	"fmt"
	"strings"
)

// CommandError represents an error that occurred while executing a command
type CommandError struct {
	Command string   // The command that was executed
	Args    []string // The arguments passed to the command
	Output  string   // The command output (stdout/stderr)
	Err     error    // The underlying error
}

// Error implements the error interface
func (e *CommandError) Error() string {
	fullCmd := e.Command
	if len(e.Args) > 0 {
		fullCmd += " " + strings.Join(e.Args, " ")
	}

	if e.Output == "" {
		return fmt.Sprintf("command failed: '%s': %v", fullCmd, e.Err)
	}
	return fmt.Sprintf("command failed: '%s': %v\nOutput: %s",
		fullCmd, e.Err, formatCommandOutput(e.Output))
}

// Unwrap returns the underlying error
func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError
func NewCommandError(command string, args []string, output string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Args:    args,
		Output:  output,
		Err:     err,
	}
}

// formatCommandOutput trims and truncates tool output for error messages
func formatCommandOutput(output string) string {
	output = strings.TrimSpace(output)
	if len(output) > 1000 {
		output = output[:1000] + "... [output truncated]"
	}
	return output
}
