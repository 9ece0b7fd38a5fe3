// Package operations wraps the external tools the pipeline shells out to.
// Commands are always executed as argument vectors, never through a shell.
package operations

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	"github.com/miku/gndzero/errors"
)

// CommandExecutor defines an interface for executing external commands
type CommandExecutor interface {
	// Execute runs a command and returns its combined output
	Execute(ctx context.Context, name string, args ...string) ([]byte, error)

	// ExecuteToFile runs a command with stdout redirected to the given file,
	// returning captured stderr
	ExecuteToFile(ctx context.Context, outPath string, name string, args ...string) ([]byte, error)
}

// NativeExecutor implements CommandExecutor by directly executing commands on the host OS
type NativeExecutor struct{}

// Execute implements CommandExecutor.Execute for native OS execution
func (e *NativeExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// ExecuteToFile implements CommandExecutor.ExecuteToFile for native OS execution.
// The output file is created fresh; callers point this at a scratch path.
func (e *NativeExecutor) ExecuteToFile(ctx context.Context, outPath string, name string, args ...string) ([]byte, error) {
	out, err := os.Create(outPath)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stderr.Bytes(), err
	}
	return stderr.Bytes(), out.Sync()
}

// ExecuteCommand is a helper that executes a command and returns a formatted error if it fails
func ExecuteCommand(executor CommandExecutor, ctx context.Context, name string, args ...string) ([]byte, error) {
	output, err := executor.Execute(ctx, name, args...)
	if err != nil {
		return output, NewCommandError(name, args, string(output), err)
	}
	return output, nil
}

// Which resolves an executable on the search path. It returns the resolved
// path, or an empty string when the program cannot be found.
func Which(program string) string {
	path, err := exec.LookPath(program)
	if err != nil {
		return ""
	}
	return path
}

// RequireExecutable fails when the named program is not resolvable. Stages
// call this before doing any work so a missing tool aborts early.
func RequireExecutable(program string) error {
	if Which(program) == "" {
		return errors.Newf(errors.ErrMissingExecutable, "external program %s required", program)
	}
	return nil
}
