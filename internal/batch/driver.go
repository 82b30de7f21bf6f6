package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/weichenhs/transcribe-flow/internal/logger"
)

// Driver iterates a directory and dispatches the per-file pipeline, isolating
// failures: one file failing (or timing out) never stops the rest.
type Driver struct {
	runner     Runner
	extensions []string
	workers    int
	logger     logger.Logger
	log        *batchLog
}

// NewDriver creates a batch Driver. workers bounds concurrent files; 1 means
// strictly sequential processing.
func NewDriver(runner Runner, extensions []string, workers int, logPath string, log logger.Logger) (*Driver, error) {
	bl, err := openBatchLog(logPath)
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = 1
	}
	return &Driver{
		runner:     runner,
		extensions: extensions,
		workers:    workers,
		logger:     log,
		log:        bl,
	}, nil
}

// Close releases the batch log file.
func (d *Driver) Close() error {
	return d.log.Close()
}

// Run scans dir for eligible files and processes each to a terminal state.
// Counts are aggregated only after every file has finished.
func (d *Driver) Run(ctx context.Context, dir string) (Report, error) {
	files, err := d.scan(dir)
	if err != nil {
		return Report{}, err
	}

	runID := uuid.NewString()
	if len(files) == 0 {
		d.record(ctx, "No eligible files found in %s.", dir)
		return Report{}, nil
	}

	d.record(ctx, "Batch %s started. Found %d files in %s.", runID, len(files), dir)

	results := make([]Result, len(files))
	sem := newSemaphore(d.workers)
	var wg sync.WaitGroup

	for i, file := range files {
		if err := sem.acquire(ctx); err != nil {
			// Context cancelled mid-batch: mark the remaining files failed
			// so the report still covers every input.
			for j := i; j < len(files); j++ {
				results[j] = Result{File: files[j], Err: err}
			}
			break
		}

		wg.Add(1)
		go func(idx int, path string) {
			defer wg.Done()
			defer sem.release()
			results[idx] = d.processOne(ctx, idx+1, len(files), path)
		}(i, file)
	}
	wg.Wait()

	report := Report{Results: results}
	for _, res := range results {
		if res.Err != nil {
			report.Failed++
		} else {
			report.Succeeded++
		}
	}

	d.record(ctx, "Batch processing complete. Success: %d, Failed: %d", report.Succeeded, report.Failed)
	for _, res := range report.Failures() {
		d.record(ctx, "FAILED: %s: %v", res.File, res.Err)
	}

	return report, nil
}

func (d *Driver) processOne(ctx context.Context, n, total int, file string) Result {
	d.record(ctx, "(%d/%d) Processing: %s", n, total, file)
	start := time.Now()

	out, err := d.runner.Run(ctx, file)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		d.record(ctx, "SUCCESS: %s (took %.1fs)", file, elapsed.Seconds())
	default:
		var te *TimeoutError
		if errors.As(err, &te) {
			d.record(ctx, "TIMEOUT: %s (exceeded %s)", file, te.Timeout)
		} else {
			d.record(ctx, "FAIL: %s (took %.1fs): %v", file, elapsed.Seconds(), err)
			if out = strings.TrimSpace(out); out != "" {
				d.record(ctx, "OUTPUT: %s", out)
			}
		}
	}

	return Result{File: file, Err: err, Elapsed: elapsed}
}

// scan lists eligible files in dir, sorted by name.
func (d *Driver) scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if d.eligible(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func (d *Driver) eligible(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range d.extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// record writes to both the run log file and the console logger.
func (d *Driver) record(ctx context.Context, format string, args ...interface{}) {
	d.log.Printf(format, args...)
	d.logger.Info(ctx, format, args...)
}
