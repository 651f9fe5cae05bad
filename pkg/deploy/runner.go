package deploy

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// CommandResult captures the outcome of one external command: its exit
// status and everything it wrote to stdout and stderr.
type CommandResult struct {
	Command  string // rendered command line, for logs
	ExitCode int    // 0 on success, -1 if the command never ran
	Stdout   string
	Stderr   string
}

// CommandRunner executes external commands. The deployment procedure only
// talks to rsync and ssh through this interface so tests can substitute a
// scripted fake.
type CommandRunner interface {
	// Run executes name with args and returns the captured result. A non-nil
	// error means the command failed to start or exited non-zero; the result
	// still carries whatever output was captured.
	Run(ctx context.Context, name string, args ...string) (CommandResult, error)

	// RunWithStdin is Run with stdin fed to the command's standard input.
	RunWithStdin(ctx context.Context, stdin, name string, args ...string) (CommandResult, error)
}

// ExecRunner runs commands on the local system with os/exec.
type ExecRunner struct{}

// Run implements CommandRunner.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) (CommandResult, error) {
	return r.RunWithStdin(ctx, "", name, args...)
}

// RunWithStdin implements CommandRunner.
func (r ExecRunner) RunWithStdin(ctx context.Context, stdin, name string, args ...string) (CommandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := CommandResult{
		Command: strings.Join(append([]string{name}, args...), " "),
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
		return result, err
	}
	return result, nil
}
