package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/evid-cli/evid/internal/core/domain"
	"github.com/evid-cli/evid/internal/core/ports/driven"
	"github.com/evid-cli/evid/internal/logger"
)

// Runner executes programs in the three ways the adapters need.
type Runner interface {
	driven.CommandRunner

	// RunAttached runs a program connected to the terminal and waits for it.
	RunAttached(ctx context.Context, name string, args ...string) error

	// Start launches a program without waiting for it.
	Start(name string, args ...string) error
}

// Ensure ExecRunner implements the interface.
var _ Runner = (*ExecRunner)(nil)

// ExecRunner runs programs with os/exec.
type ExecRunner struct {
	// Dir is the working directory. Empty means the current directory.
	Dir string
}

// NewExecRunner creates a runner in the current directory.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes name and returns its standard output.
// Standard error is included in the returned error.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logger.Debug("exec %s %s", name, strings.Join(args, " "))
	out, err := cmd.Output()
	if err != nil {
		return out, toolError(name, err, stderr.String())
	}
	return out, nil
}

// RunAttached runs name with the process's standard streams.
func (r *ExecRunner) RunAttached(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	logger.Debug("exec (attached) %s %s", name, strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		return toolError(name, err, "")
	}
	return nil
}

// Start launches name in the background.
func (r *ExecRunner) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = r.Dir
	if err := cmd.Start(); err != nil {
		return toolError(name, err, "")
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// toolError wraps a process failure in domain.ErrExternalTool.
func toolError(name string, err error, stderr string) error {
	var exitErr *exec.ExitError
	switch {
	case errors.Is(err, exec.ErrNotFound):
		return fmt.Errorf("%w: %s not found in PATH", domain.ErrExternalTool, name)
	case errors.As(err, &exitErr):
		msg := strings.TrimSpace(stderr)
		if msg == "" {
			return fmt.Errorf("%w: %s exited with status %d", domain.ErrExternalTool, name, exitErr.ExitCode())
		}
		return fmt.Errorf("%w: %s exited with status %d: %s", domain.ErrExternalTool, name, exitErr.ExitCode(), msg)
	default:
		return fmt.Errorf("%w: %s: %v", domain.ErrExternalTool, name, err)
	}
}
