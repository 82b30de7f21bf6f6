package asr

import (
	"github.com/weichenhs/transcribe-flow/internal/config"
	"github.com/weichenhs/transcribe-flow/internal/logger"
	"github.com/weichenhs/transcribe-flow/pkg/executor"
)

// New selects a Transcriber backend from config. Backend names are validated
// in config, so an unknown name here is a programming error.
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) (Transcriber, error) {
	switch cfg.ASR.Backend {
	case "openai":
		if cfg.Credentials.OpenAIKey == "" {
			return nil, &config.ConfigurationError{Setting: "OPENAI_API_KEY", Reason: "required for the openai transcription backend"}
		}
		return newOpenAIBackend(cfg.Credentials.OpenAIKey, cfg.ASR.OpenAIModel, log), nil
	default:
		return newWhisperCppBackend(cfg.ASR, exec, log), nil
	}
}
