package asr

import (
	"context"

	"github.com/weichenhs/transcribe-flow/internal/transcript"
)

// Transcriber converts a normalized waveform into timestamped text segments.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath, lang string) ([]transcript.Segment, error)
}
