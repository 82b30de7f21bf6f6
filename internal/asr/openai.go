package asr

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/weichenhs/transcribe-flow/internal/logger"
	"github.com/weichenhs/transcribe-flow/internal/transcript"
)

type openAIBackend struct {
	client *openai.Client
	model  string
	logger logger.Logger
}

func newOpenAIBackend(apiKey, model string, log logger.Logger) Transcriber {
	return &openAIBackend{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: log,
	}
}

// Transcribe sends the waveform to the Whisper API, requesting verbose JSON
// so segment timings come back with the text.
func (o *openAIBackend) Transcribe(ctx context.Context, wavPath, lang string) ([]transcript.Segment, error) {
	o.logger.Info(ctx, "Uploading %s for transcription (model %s)", wavPath, o.model)

	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.model,
		FilePath: wavPath,
		Language: lang,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("openai transcription: %w", err)
	}

	var segments []transcript.Segment
	for _, s := range resp.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		segments = append(segments, transcript.Segment{
			Start: s.Start,
			End:   s.End,
			Text:  text,
		})
	}

	o.logger.Info(ctx, "Transcription completed: %d segments", len(segments))
	return segments, nil
}
