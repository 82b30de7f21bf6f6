package pipeline

import (
	"github.com/weichenhs/transcribe-flow/internal/asr"
	"github.com/weichenhs/transcribe-flow/internal/diarize"
	"github.com/weichenhs/transcribe-flow/internal/logger"
	"github.com/weichenhs/transcribe-flow/internal/media"
	"github.com/weichenhs/transcribe-flow/internal/refine"
)

type implPipeline struct {
	normalizer  media.Normalizer
	transcriber asr.Transcriber
	diarizer    diarize.Diarizer
	refiner     refine.Refiner
	logger      logger.Logger
}

// New creates a Pipeline from its collaborators. All of them are interfaces
// so tests can substitute deterministic fakes.
func New(norm media.Normalizer, tr asr.Transcriber, di diarize.Diarizer, ref refine.Refiner, log logger.Logger) Pipeline {
	return &implPipeline{
		normalizer:  norm,
		transcriber: tr,
		diarizer:    di,
		refiner:     ref,
		logger:      log,
	}
}
