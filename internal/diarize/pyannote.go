package diarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/weichenhs/transcribe-flow/internal/config"
	"github.com/weichenhs/transcribe-flow/internal/logger"
	"github.com/weichenhs/transcribe-flow/internal/transcript"
	"github.com/weichenhs/transcribe-flow/pkg/executor"
)

// pyannoteProvider talks to a pyannote HTTP sidecar running the
// speaker-diarization-3.1 pipeline.
type pyannoteProvider struct {
	cfg    config.DiarizerConfig
	token  string
	client *http.Client
	logger logger.Logger
}

// New creates a Diarizer backed by the pyannote sidecar. token is the
// Hugging Face token the sidecar needs to load gated models.
func New(cfg config.DiarizerConfig, token string, log logger.Logger) Diarizer {
	timeout := time.Duration(cfg.Timeout)
	if timeout == 0 {
		timeout = 5 * time.Minute
	}
	return &pyannoteProvider{
		cfg:    cfg,
		token:  token,
		client: &http.Client{Timeout: timeout},
		logger: log,
	}
}

// IsAvailable checks whether the sidecar is reachable.
func (p *pyannoteProvider) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Diarize uploads the waveform and returns the detected speaker turns,
// ordered by start time.
func (p *pyannoteProvider) Diarize(ctx context.Context, wavPath string) ([]transcript.SpeakerTurn, error) {
	f, err := os.Open(wavPath)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("audio", filepath.Base(wavPath))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("write audio data: %w", err)
	}
	if p.cfg.MinSpeakers > 0 {
		_ = writer.WriteField("min_speakers", fmt.Sprintf("%d", p.cfg.MinSpeakers))
	}
	if p.cfg.MaxSpeakers > 0 {
		_ = writer.WriteField("max_speakers", fmt.Sprintf("%d", p.cfg.MaxSpeakers))
	}
	writer.Close()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/diarize", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	if p.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.token)
	}

	p.logger.Info(ctx, "Running speaker diarization: %s", wavPath)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &executor.ToolInvocationError{Tool: "pyannote", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &executor.ToolInvocationError{
			Tool:   "pyannote",
			Err:    fmt.Errorf("status %d", resp.StatusCode),
			Output: string(body),
		}
	}

	var result pyannoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode diarization response: %w", err)
	}
	if result.Error != "" {
		return nil, &executor.ToolInvocationError{Tool: "pyannote", Err: fmt.Errorf("diarization failed"), Output: result.Error}
	}

	turns := make([]transcript.SpeakerTurn, len(result.Segments))
	for i, seg := range result.Segments {
		turns[i] = transcript.SpeakerTurn{
			Start:   seg.StartTime,
			End:     seg.EndTime,
			Speaker: seg.SpeakerID,
		}
	}
	sort.SliceStable(turns, func(i, j int) bool { return turns[i].Start < turns[j].Start })

	p.logger.Info(ctx, "Speaker diarization done: %d turns, %d speakers", len(turns), result.NumSpeakers)
	return turns, nil
}

// --- sidecar API types ---

type pyannoteResponse struct {
	Segments    []pyannoteSegment `json:"segments"`
	NumSpeakers int               `json:"num_speakers"`
	Error       string            `json:"error,omitempty"`
}

type pyannoteSegment struct {
	SpeakerID string  `json:"speaker_id"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}
