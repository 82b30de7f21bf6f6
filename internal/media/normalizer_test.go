package media

import (
	"context"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/weichenhs/transcribe-flow/internal/logger"
)

type recordingExecutor struct {
	name string
	args []string
}

func (e *recordingExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	e.name = name
	e.args = args
	return "", nil
}

func (e *recordingExecutor) ExecuteStreaming(ctx context.Context, w io.Writer, name string, args ...string) error {
	_, err := e.Execute(ctx, name, args...)
	return err
}

// wavHeader builds a minimal RIFF header with the given format.
func wavHeader(channels uint16, rate uint32) []byte {
	h := make([]byte, 44)
	copy(h[0:4], "RIFF")
	copy(h[8:12], "WAVE")
	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint16(h[22:24], channels)
	binary.LittleEndian.PutUint32(h[24:28], rate)
	return h
}

func TestNormalizeInvokesFFmpeg(t *testing.T) {
	input := filepath.Join(t.TempDir(), "talk.mp4")
	if err := os.WriteFile(input, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}

	exec := &recordingExecutor{}
	n := New(exec, logger.Nop())

	wavPath, cleanup, err := n.Normalize(context.Background(), input)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	defer cleanup()

	if exec.name != "ffmpeg" {
		t.Errorf("command = %q, want ffmpeg", exec.name)
	}
	argv := strings.Join(exec.args, " ")
	for _, want := range []string{"-y", "-i " + input, "-vn", "-ar 16000", "-ac 1", "-c:a pcm_s16le"} {
		if !strings.Contains(argv, want) {
			t.Errorf("argv missing %q: %s", want, argv)
		}
	}

	wantOut := strings.TrimSuffix(input, ".mp4") + "_16k_mono.wav"
	if wavPath != wantOut {
		t.Errorf("output = %q, want %q", wavPath, wantOut)
	}
	if exec.args[len(exec.args)-1] != wantOut {
		t.Errorf("last argv entry = %q, want output path", exec.args[len(exec.args)-1])
	}
}

func TestNormalizePassesThroughMono16kWav(t *testing.T) {
	input := filepath.Join(t.TempDir(), "already.wav")
	if err := os.WriteFile(input, wavHeader(1, 16000), 0644); err != nil {
		t.Fatal(err)
	}

	exec := &recordingExecutor{}
	n := New(exec, logger.Nop())

	wavPath, cleanup, err := n.Normalize(context.Background(), input)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	cleanup()

	if wavPath != input {
		t.Errorf("output = %q, want pass-through of %q", wavPath, input)
	}
	if exec.name != "" {
		t.Error("ffmpeg should not run for a mono 16kHz WAV")
	}
	if _, err := os.Stat(input); err != nil {
		t.Errorf("pass-through cleanup must not delete the source: %v", err)
	}
}

func TestNormalizeConvertsMismatchedWav(t *testing.T) {
	input := filepath.Join(t.TempDir(), "stereo.wav")
	if err := os.WriteFile(input, wavHeader(2, 44100), 0644); err != nil {
		t.Fatal(err)
	}

	exec := &recordingExecutor{}
	n := New(exec, logger.Nop())

	wavPath, _, err := n.Normalize(context.Background(), input)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if exec.name != "ffmpeg" {
		t.Error("stereo 44.1kHz WAV must be converted")
	}
	if wavPath == input {
		t.Error("converted output should not overwrite the source")
	}
}

func TestNormalizeCleanupRemovesTempFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "talk.mov")
	if err := os.WriteFile(input, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}

	n := New(&recordingExecutor{}, logger.Nop())
	wavPath, cleanup, err := n.Normalize(context.Background(), input)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	// Simulate ffmpeg having produced the file.
	if err := os.WriteFile(wavPath, wavHeader(1, 16000), 0644); err != nil {
		t.Fatal(err)
	}
	cleanup()

	if _, err := os.Stat(wavPath); !os.IsNotExist(err) {
		t.Errorf("cleanup should remove %s", wavPath)
	}
}

func TestIsMono16kRejectsNonWav(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.wav")
	if err := os.WriteFile(path, []byte("this is not a riff file at all.."), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := isMono16k(path); err == nil {
		t.Error("expected error for non-RIFF content")
	}
}
