package refine

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/weichenhs/transcribe-flow/internal/config"
	"github.com/weichenhs/transcribe-flow/internal/logger"
)

// Per-attempt timeouts for the chat calls. Long transcripts regularly take
// minutes, so each retry gets a longer deadline than the last.
var attemptTimeouts = []time.Duration{180 * time.Second, 240 * time.Second, 300 * time.Second}

type openAIRefiner struct {
	client *openai.Client
	cfg    config.RefineConfig
	lang   string
	logger logger.Logger
}

func newOpenAIRefiner(apiKey string, cfg config.RefineConfig, lang string, log logger.Logger) Refiner {
	return &openAIRefiner{
		client: openai.NewClient(apiKey),
		cfg:    cfg,
		lang:   lang,
		logger: log,
	}
}

// Refine falls back to the unrefined text when every attempt fails; a rough
// transcript beats losing the run this late in the pipeline.
func (r *openAIRefiner) Refine(ctx context.Context, transcript string) (string, error) {
	prompt := fmt.Sprintf(refinePrompt(r.lang), transcript)
	out, err := r.chatWithRetry(ctx, r.cfg.RefineModel, refineSystemPrompt, prompt, 0.2)
	if err != nil {
		r.logger.Warn(ctx, "Transcript refinement failed, using original: %v", err)
		return transcript, nil
	}
	return out, nil
}

func (r *openAIRefiner) Summarize(ctx context.Context, refined string) (string, error) {
	prompt := fmt.Sprintf(summaryPrompt(r.lang), refined)
	out, err := r.chatWithRetry(ctx, r.cfg.SummaryModel, summarySystemPrompt, prompt, 0.3)
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}
	return out, nil
}

func (r *openAIRefiner) FilenameSummary(ctx context.Context, summary string) (string, error) {
	prompt := fmt.Sprintf(filenamePrompt(r.lang), summary)
	out, err := r.chatWithRetry(ctx, r.cfg.FilenameModel, filenameSystemPrompt, prompt, 0.3)
	if err != nil {
		return "", fmt.Errorf("generate filename: %w", err)
	}
	return out, nil
}

// chatWithRetry runs one chat completion with escalating per-attempt
// timeouts. Retries stay inside this single stage call; the pipeline itself
// never retries a failed stage.
func (r *openAIRefiner) chatWithRetry(ctx context.Context, model, system, prompt string, temperature float32) (string, error) {
	var lastErr error

	for attempt, timeout := range attemptTimeouts {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		resp, err := r.client.CreateChatCompletion(attemptCtx, openai.ChatCompletionRequest{
			Model: model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			Temperature: temperature,
		})
		cancel()

		if err != nil {
			lastErr = err
			r.logger.Warn(ctx, "%s attempt %d/%d failed: %v", model, attempt+1, len(attemptTimeouts), err)
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			continue
		}
		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			lastErr = fmt.Errorf("empty response from %s", model)
			r.logger.Warn(ctx, "%s attempt %d/%d returned empty content", model, attempt+1, len(attemptTimeouts))
			continue
		}
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	}

	return "", fmt.Errorf("all %d attempts failed: %w", len(attemptTimeouts), lastErr)
}
