package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/weichenhs/transcribe-flow/internal/logger"
)

// fakeRunner fails the files listed in fail and times out the ones in hang.
type fakeRunner struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
	hang  map[string]bool
}

func (r *fakeRunner) Run(ctx context.Context, filePath string) (string, error) {
	r.mu.Lock()
	r.calls = append(r.calls, filepath.Base(filePath))
	r.mu.Unlock()

	name := filepath.Base(filePath)
	if r.hang[name] {
		return "", &TimeoutError{File: filePath, Timeout: 12 * time.Hour}
	}
	if r.fail[name] {
		return "whisper: model file not found", errors.New("exit status 1")
	}
	return "", nil
}

func newTestDriver(t *testing.T, runner Runner, workers int) (*Driver, string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "batch_transcribe.log")
	d, err := NewDriver(runner, []string{".mov", ".mp4"}, workers, logPath, logger.Nop())
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d, logPath
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDriverTimeoutDoesNotAbortBatch(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.mov", "b.mp4", "c.mov")

	runner := &fakeRunner{hang: map[string]bool{"b.mp4": true}}
	d, logPath := newTestDriver(t, runner, 1)

	report, err := d.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Succeeded != 2 || report.Failed != 1 {
		t.Errorf("report = %d succeeded / %d failed, want 2 / 1", report.Succeeded, report.Failed)
	}

	failures := report.Failures()
	if len(failures) != 1 {
		t.Fatalf("got %d failures, want 1", len(failures))
	}
	var te *TimeoutError
	if !errors.As(failures[0].Err, &te) {
		t.Errorf("failure cause = %v, want TimeoutError", failures[0].Err)
	}
	if filepath.Base(failures[0].File) != "b.mp4" {
		t.Errorf("failed file = %s, want b.mp4", failures[0].File)
	}

	// All three files must have been dispatched despite the timeout.
	if len(runner.calls) != 3 {
		t.Errorf("dispatched %d files, want 3: %v", len(runner.calls), runner.calls)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	log := string(data)
	for _, want := range []string{
		"Processing: " + filepath.Join(dir, "a.mov"),
		"TIMEOUT: " + filepath.Join(dir, "b.mp4"),
		"Processing: " + filepath.Join(dir, "c.mov"),
		"Success: 2, Failed: 1",
	} {
		if !strings.Contains(log, want) {
			t.Errorf("log missing %q:\n%s", want, log)
		}
	}
}

func TestDriverSequentialOrder(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "c.mov", "a.mov", "b.mov")

	runner := &fakeRunner{}
	d, _ := newTestDriver(t, runner, 1)

	if _, err := d.Run(context.Background(), dir); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{"a.mov", "b.mov", "c.mov"}
	for i, name := range want {
		if runner.calls[i] != name {
			t.Errorf("call %d = %s, want %s (calls: %v)", i, runner.calls[i], name, runner.calls)
		}
	}
}

func TestDriverFailureCapturesOutput(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "bad.mov")

	runner := &fakeRunner{fail: map[string]bool{"bad.mov": true}}
	d, logPath := newTestDriver(t, runner, 1)

	report, err := d.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Failed != 1 {
		t.Fatalf("Failed = %d, want 1", report.Failed)
	}

	data, _ := os.ReadFile(logPath)
	if !strings.Contains(string(data), "whisper: model file not found") {
		t.Errorf("log should carry the child's diagnostic output:\n%s", data)
	}
}

func TestDriverSkipsIneligibleFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.mov", "notes.txt", ".hidden.mov", "b.srt")
	if err := os.Mkdir(filepath.Join(dir, "sub.mov"), 0755); err != nil {
		t.Fatal(err)
	}

	runner := &fakeRunner{}
	d, _ := newTestDriver(t, runner, 1)

	report, err := d.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Succeeded != 1 {
		t.Errorf("Succeeded = %d, want 1", report.Succeeded)
	}
	if len(runner.calls) != 1 || runner.calls[0] != "a.mov" {
		t.Errorf("calls = %v, want [a.mov]", runner.calls)
	}
}

func TestDriverEmptyDirectory(t *testing.T) {
	runner := &fakeRunner{}
	d, _ := newTestDriver(t, runner, 1)

	report, err := d.Run(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Succeeded != 0 || report.Failed != 0 {
		t.Errorf("report = %+v, want empty", report)
	}
}

func TestDriverConcurrentWorkers(t *testing.T) {
	dir := t.TempDir()
	var names []string
	for i := 0; i < 8; i++ {
		names = append(names, fmt.Sprintf("f%d.mov", i))
	}
	writeFiles(t, dir, names...)

	runner := &fakeRunner{fail: map[string]bool{"f3.mov": true, "f6.mov": true}}
	d, _ := newTestDriver(t, runner, 4)

	report, err := d.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Succeeded != 6 || report.Failed != 2 {
		t.Errorf("report = %d / %d, want 6 / 2", report.Succeeded, report.Failed)
	}
	if len(report.Results) != 8 {
		t.Errorf("Results = %d entries, want 8", len(report.Results))
	}
}

func TestProcessRunnerTimeoutClassification(t *testing.T) {
	runner := NewProcessRunner("sleep", nil, 50*time.Millisecond, &sleepExecutor{}, false)

	_, err := runner.Run(context.Background(), "10")
	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want TimeoutError", err)
	}
	if te.Timeout != 50*time.Millisecond {
		t.Errorf("Timeout = %v, want 50ms", te.Timeout)
	}
}

// sleepExecutor blocks until ctx is done, like a stuck child process.
type sleepExecutor struct{}

func (sleepExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (sleepExecutor) ExecuteStreaming(ctx context.Context, w io.Writer, name string, args ...string) error {
	<-ctx.Done()
	return ctx.Err()
}
