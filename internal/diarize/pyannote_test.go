package diarize

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/weichenhs/transcribe-flow/internal/config"
	"github.com/weichenhs/transcribe-flow/internal/logger"
	"github.com/weichenhs/transcribe-flow/pkg/executor"
)

func testWav(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.wav")
	if err := os.WriteFile(path, []byte("RIFF...."), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDiarize(t *testing.T) {
	var gotAuth, gotMin string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/diarize" {
			t.Errorf("path = %s, want /diarize", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotMin = r.FormValue("min_speakers")
		if _, _, err := r.FormFile("audio"); err != nil {
			t.Errorf("missing audio part: %v", err)
		}

		// Out of order on purpose; the provider must sort by start time.
		w.Write([]byte(`{
			"segments": [
				{"speaker_id": "01", "start_time": 3.5, "end_time": 6.0},
				{"speaker_id": "00", "start_time": 0.0, "end_time": 3.5}
			],
			"num_speakers": 2
		}`))
	}))
	defer server.Close()

	cfg := config.DiarizerConfig{BaseURL: server.URL, MinSpeakers: 2}
	d := New(cfg, "hf_test", logger.Nop())

	turns, err := d.Diarize(context.Background(), testWav(t))
	if err != nil {
		t.Fatalf("Diarize() error = %v", err)
	}

	if gotAuth != "Bearer hf_test" {
		t.Errorf("Authorization = %q, want Bearer hf_test", gotAuth)
	}
	if gotMin != "2" {
		t.Errorf("min_speakers = %q, want 2", gotMin)
	}

	if len(turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(turns))
	}
	if turns[0].Speaker != "00" || turns[0].Start != 0 || turns[0].End != 3.5 {
		t.Errorf("turn 0 = %+v, want speaker 00 first", turns[0])
	}
	if turns[1].Speaker != "01" {
		t.Errorf("turn 1 = %+v", turns[1])
	}
}

func TestDiarizeErrorPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"segments": [], "error": "model not loaded"}`))
	}))
	defer server.Close()

	d := New(config.DiarizerConfig{BaseURL: server.URL}, "", logger.Nop())
	_, err := d.Diarize(context.Background(), testWav(t))

	var te *executor.ToolInvocationError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want ToolInvocationError", err)
	}
	if te.Output != "model not loaded" {
		t.Errorf("Output = %q", te.Output)
	}
}

func TestDiarizeHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	d := New(config.DiarizerConfig{BaseURL: server.URL}, "", logger.Nop())
	_, err := d.Diarize(context.Background(), testWav(t))

	var te *executor.ToolInvocationError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want ToolInvocationError", err)
	}
}

func TestDiarizeMissingFile(t *testing.T) {
	d := New(config.DiarizerConfig{BaseURL: "http://localhost:1"}, "", logger.Nop())
	if _, err := d.Diarize(context.Background(), "/nonexistent/audio.wav"); err == nil {
		t.Error("expected error for missing audio file")
	}
}

func TestIsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	if !New(config.DiarizerConfig{BaseURL: server.URL}, "", logger.Nop()).IsAvailable(context.Background()) {
		t.Error("IsAvailable() = false for healthy sidecar")
	}

	server.Close()
	if New(config.DiarizerConfig{BaseURL: server.URL}, "", logger.Nop()).IsAvailable(context.Background()) {
		t.Error("IsAvailable() = true for unreachable sidecar")
	}
}
