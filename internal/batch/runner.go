package batch

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/weichenhs/transcribe-flow/pkg/executor"
)

// processRunner launches the single-file pipeline as a child process with a
// hard per-file deadline. exec.CommandContext kills the child when the
// deadline fires, so a stuck file never blocks the rest of the batch.
type processRunner struct {
	command string
	args    []string
	timeout time.Duration
	exec    executor.Executor
	verbose bool
}

// NewProcessRunner creates a Runner that invokes command with the forwarded
// pipeline flags plus the file path.
func NewProcessRunner(command string, args []string, timeout time.Duration, exec executor.Executor, verbose bool) Runner {
	return &processRunner{
		command: command,
		args:    args,
		timeout: timeout,
		exec:    exec,
		verbose: verbose,
	}
}

func (r *processRunner) Run(ctx context.Context, filePath string) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmdArgs := append([]string{filePath}, r.args...)

	var out string
	var err error
	if r.verbose {
		err = r.exec.ExecuteStreaming(runCtx, os.Stdout, r.command, cmdArgs...)
	} else {
		out, err = r.exec.Execute(runCtx, r.command, cmdArgs...)
	}

	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return out, &TimeoutError{File: filePath, Timeout: r.timeout}
		}
		return out, err
	}
	return out, nil
}
