package batch

import (
	"context"
	"fmt"
	"time"
)

// TimeoutError indicates a file exceeded the per-file processing deadline.
type TimeoutError struct {
	File    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: processing exceeded %s", e.File, e.Timeout)
}

// Runner processes one file and returns the child's captured output.
// The production implementation dispatches the single-file pipeline binary
// as an isolated subprocess; tests inject fakes.
type Runner interface {
	Run(ctx context.Context, filePath string) (string, error)
}

// Result is the terminal state of one file.
type Result struct {
	File    string
	Err     error
	Elapsed time.Duration
}

// Report aggregates a batch run.
type Report struct {
	Succeeded int
	Failed    int
	Results   []Result
}

// Failures returns the failed results, for the final report.
func (r Report) Failures() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}
