package asr

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/weichenhs/transcribe-flow/internal/config"
	"github.com/weichenhs/transcribe-flow/internal/logger"
	"github.com/weichenhs/transcribe-flow/internal/transcript"
	"github.com/weichenhs/transcribe-flow/pkg/executor"
)

type whisperCppBackend struct {
	cfg      config.ASRConfig
	executor executor.Executor
	logger   logger.Logger
}

func newWhisperCppBackend(cfg config.ASRConfig, exec executor.Executor, log logger.Logger) Transcriber {
	return &whisperCppBackend{cfg: cfg, executor: exec, logger: log}
}

// whisperOutput mirrors the JSON written by whisper.cpp with -oj.
type whisperOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"` // milliseconds
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// Transcribe runs the whisper.cpp CLI and parses its JSON output file.
func (w *whisperCppBackend) Transcribe(ctx context.Context, wavPath, lang string) ([]transcript.Segment, error) {
	outputPrefix := strings.TrimSuffix(wavPath, filepath.Ext(wavPath))
	jsonPath := outputPrefix + ".json"
	defer os.Remove(jsonPath)

	w.logger.Info(ctx, "Starting transcription with %d threads: %s", w.cfg.Threads, wavPath)

	// -l pins the language to prevent hallucinated language switches,
	// -bo 5 trades speed for accuracy on long recordings.
	args := []string{
		"-m", w.cfg.ModelPath,
		"-f", wavPath,
		"-l", lang,
		"-t", strconv.Itoa(w.cfg.Threads),
		"-bo", "5",
		"-oj",
		"-of", outputPrefix,
	}

	if _, err := w.executor.Execute(ctx, w.cfg.BinaryPath, args...); err != nil {
		return nil, fmt.Errorf("whisper transcribe: %w", err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}
	segments, err := parseWhisperJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parse whisper output: %w", err)
	}

	w.logger.Info(ctx, "Transcription completed: %d segments", len(segments))
	return segments, nil
}

func parseWhisperJSON(data []byte) ([]transcript.Segment, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}

	var segments []transcript.Segment
	for _, t := range out.Transcription {
		text := strings.TrimSpace(t.Text)
		if text == "" {
			continue
		}
		segments = append(segments, transcript.Segment{
			Start: float64(t.Offsets.From) / 1000,
			End:   float64(t.Offsets.To) / 1000,
			Text:  text,
		})
	}
	return segments, nil
}
