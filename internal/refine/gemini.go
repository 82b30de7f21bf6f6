package refine

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/weichenhs/transcribe-flow/internal/logger"
)

type geminiRefiner struct {
	apiKeys    []string
	currentKey int
	model      string
	lang       string
	logger     logger.Logger
}

// newGeminiRefiner rotates through the supplied API keys on quota errors.
func newGeminiRefiner(apiKeys []string, model, lang string, log logger.Logger) Refiner {
	return &geminiRefiner{
		apiKeys: apiKeys,
		model:   model,
		lang:    lang,
		logger:  log,
	}
}

func (g *geminiRefiner) Refine(ctx context.Context, transcript string) (string, error) {
	out, err := g.generate(ctx, fmt.Sprintf(refinePrompt(g.lang), transcript))
	if err != nil {
		g.logger.Warn(ctx, "Transcript refinement failed, using original: %v", err)
		return transcript, nil
	}
	return out, nil
}

func (g *geminiRefiner) Summarize(ctx context.Context, refined string) (string, error) {
	out, err := g.generate(ctx, fmt.Sprintf(summaryPrompt(g.lang), refined))
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}
	return out, nil
}

func (g *geminiRefiner) FilenameSummary(ctx context.Context, summary string) (string, error) {
	out, err := g.generate(ctx, fmt.Sprintf(filenamePrompt(g.lang), summary))
	if err != nil {
		return "", fmt.Errorf("generate filename: %w", err)
	}
	return out, nil
}

// generate calls Gemini, rotating API keys on 429 / quota errors.
func (g *geminiRefiner) generate(ctx context.Context, prompt string) (string, error) {
	attempts := len(g.apiKeys)
	var lastErr error

	for range attempts {
		key := g.apiKeys[g.currentKey]

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			g.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				g.logger.Warn(ctx, "Key %d rate limited, rotating...", g.currentKey+1)
				g.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text string
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text += part.Text
				}
			}
			if strings.TrimSpace(text) != "" {
				return strings.TrimSpace(text), nil
			}
		}

		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (g *geminiRefiner) rotateKey() {
	g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
}
