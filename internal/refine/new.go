package refine

import (
	"github.com/weichenhs/transcribe-flow/internal/config"
	"github.com/weichenhs/transcribe-flow/internal/logger"
)

// New selects a Refiner provider from config. lang steers prompt selection.
func New(cfg *config.Config, lang string, log logger.Logger) (Refiner, error) {
	if err := cfg.RequireLLMKey(); err != nil {
		return nil, err
	}
	switch cfg.Refine.Provider {
	case "gemini":
		return newGeminiRefiner(cfg.Credentials.GeminiKeys, cfg.Refine.GeminiModel, lang, log), nil
	default:
		return newOpenAIRefiner(cfg.Credentials.OpenAIKey, cfg.Refine, lang, log), nil
	}
}
