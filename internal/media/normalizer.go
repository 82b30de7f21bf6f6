package media

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/weichenhs/transcribe-flow/internal/logger"
	"github.com/weichenhs/transcribe-flow/pkg/executor"
)

const (
	sampleRate = 16000
	channels   = 1
)

type implNormalizer struct {
	executor executor.Executor
	logger   logger.Logger
}

// New creates a Normalizer backed by ffmpeg.
func New(exec executor.Executor, log logger.Logger) Normalizer {
	return &implNormalizer{executor: exec, logger: log}
}

// Normalize converts the input to a mono 16kHz PCM WAV next to the source
// file. WAV inputs that already match are passed through untouched.
func (n *implNormalizer) Normalize(ctx context.Context, inputPath string) (string, func(), error) {
	if strings.EqualFold(filepath.Ext(inputPath), ".wav") {
		if ok, err := isMono16k(inputPath); err == nil && ok {
			n.logger.Debug(ctx, "Input already mono 16kHz WAV, skipping conversion: %s", inputPath)
			return inputPath, func() {}, nil
		}
	}

	outPath := strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + "_16k_mono.wav"
	n.logger.Info(ctx, "Converting %s to mono 16kHz WAV...", inputPath)

	// -vn: drop any video stream
	// -ar/-ac: 16kHz mono, the rate Whisper and pyannote expect
	// -c:a pcm_s16le: uncompressed 16-bit PCM
	args := []string{
		"-y",
		"-i", inputPath,
		"-vn",
		"-ar", fmt.Sprint(sampleRate),
		"-ac", fmt.Sprint(channels),
		"-c:a", "pcm_s16le",
		outPath,
	}

	if _, err := n.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return "", nil, fmt.Errorf("normalize audio: %w", err)
	}

	cleanup := func() {
		if err := os.Remove(outPath); err != nil {
			n.logger.Warn(ctx, "Failed to remove temp audio %s: %v", outPath, err)
		} else {
			n.logger.Debug(ctx, "Deleted temporary file: %s", outPath)
		}
	}
	return outPath, cleanup, nil
}

// isMono16k inspects the RIFF fmt chunk of a WAV file.
func isMono16k(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	header := make([]byte, 36)
	if _, err := f.Read(header); err != nil {
		return false, err
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return false, fmt.Errorf("%s: not a RIFF WAVE file", path)
	}

	ch := binary.LittleEndian.Uint16(header[22:24])
	rate := binary.LittleEndian.Uint32(header[24:28])
	return ch == channels && rate == sampleRate, nil
}
