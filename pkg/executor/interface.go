package executor

import (
	"context"
	"io"
)

// Executor defines the interface for executing external commands
type Executor interface {
	// Execute runs a command, returning its captured stdout. Failures carry
	// the tool's diagnostic output as a *ToolInvocationError.
	Execute(ctx context.Context, name string, args ...string) (string, error)

	// ExecuteStreaming runs a command with stdout and stderr streamed to w,
	// for verbose mode.
	ExecuteStreaming(ctx context.Context, w io.Writer, name string, args ...string) error
}
