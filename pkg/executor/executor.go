package executor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// ToolInvocationError is returned when an external tool or service fails.
// Output holds the tool's diagnostic text (stderr for subprocesses, response
// body for HTTP services).
type ToolInvocationError struct {
	Tool   string
	Err    error
	Output string
}

func (e *ToolInvocationError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("%s: %v: %s", e.Tool, e.Err, e.Output)
	}
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *ToolInvocationError) Unwrap() error { return e.Err }

type implExecutor struct{}

// New creates a new Executor instance
func New() Executor {
	return &implExecutor{}
}

// Execute runs an external command with the given arguments
func (e *implExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &ToolInvocationError{
			Tool:   name,
			Err:    err,
			Output: strings.TrimSpace(stderr.String()),
		}
	}

	return stdout.String(), nil
}

// ExecuteStreaming runs an external command with combined output streamed to w
func (e *implExecutor) ExecuteStreaming(ctx context.Context, w io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = w
	cmd.Stderr = w

	if err := cmd.Run(); err != nil {
		return &ToolInvocationError{Tool: name, Err: err}
	}

	return nil
}
