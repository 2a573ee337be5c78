package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Runner invokes an external executable in a working directory.
type Runner interface {
	Run(ctx context.Context, dir string, name string, args ...string) error
}

// CommandError is returned when a command exits with a non-zero status.
type CommandError struct {
	Name     string
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command failed: %s\n%s", e.CommandLine(), e.Stderr)
}

// CommandLine returns the command and its arguments joined by spaces.
func (e *CommandError) CommandLine() string {
	return strings.TrimSpace(e.Name + " " + strings.Join(e.Args, " "))
}

// ExecRunner runs commands with os/exec and captures standard error.
type ExecRunner struct {
	// Stderr, when set, receives a copy of the command's standard error as it is written.
	Stderr io.Writer
	logger *zap.Logger
}

// NewExecRunner creates an ExecRunner. A nil logger disables logging.
func NewExecRunner(logger *zap.Logger) *ExecRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecRunner{logger: logger}
}

// Run executes name with args in dir and waits for it to exit.
// Success is decided by the exit code alone; a non-zero exit returns a *CommandError
// carrying the captured standard error.
func (r *ExecRunner) Run(ctx context.Context, dir string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	if r.Stderr != nil {
		cmd.Stderr = io.MultiWriter(r.Stderr, &stderr)
	} else {
		cmd.Stderr = &stderr
	}

	r.logger.Debug("running command",
		zap.String("name", name),
		zap.Strings("args", args),
		zap.String("dir", dir),
	)

	err := cmd.Run()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		cmdErr := &CommandError{
			Name:     name,
			Args:     args,
			ExitCode: exitErr.ExitCode(),
			Stderr:   stderr.String(),
		}
		r.logger.Debug("command failed",
			zap.String("command", cmdErr.CommandLine()),
			zap.Int("exit_code", cmdErr.ExitCode),
		)
		return cmdErr
	}
	return fmt.Errorf("running %s: %w", name, err)
}
