package diarize

import (
	"context"

	"github.com/weichenhs/transcribe-flow/internal/transcript"
)

// Diarizer partitions a waveform into speaker-attributed time intervals.
type Diarizer interface {
	Diarize(ctx context.Context, wavPath string) ([]transcript.SpeakerTurn, error)
	// IsAvailable checks whether the diarization backend is reachable.
	IsAvailable(ctx context.Context) bool
}
