package pipeline

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/weichenhs/transcribe-flow/internal/notes"
	"github.com/weichenhs/transcribe-flow/internal/transcript"
)

// Process runs the stages for one recording: normalize, transcribe and
// diarize (concurrently), align, write raw transcript and SRT, refine,
// summarize, and optionally rename everything from the summary. A stage
// failure aborts the run; outputs written before the failure stay in place.
func (p *implPipeline) Process(ctx context.Context, inputPath string, opts Options) error {
	startTime := time.Now()

	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file: %w", err)
	}

	paths := OutputPathsFor(inputPath)

	// --rename needs the summary to derive the new name.
	if opts.Rename {
		opts.Summary = true
	}

	if !opts.Force && exists(paths.Refined) && exists(paths.Summary) {
		p.logger.Info(ctx, "Refined transcript and summary already exist. Use --force to overwrite.")
		return nil
	}

	p.logger.Info(ctx, "Processing: %s (language %s)", inputPath, opts.Lang)

	labeled, err := p.loadOrGenerate(ctx, inputPath, paths, opts)
	if err != nil {
		return err
	}

	conv := transcript.Conversation{
		Segments: labeled,
		Raw:      transcript.FormatRaw(labeled),
	}

	if err := writeFile(paths.SRT, transcript.FormatSRT(conv.Segments)); err != nil {
		return fmt.Errorf("write srt: %w", err)
	}
	p.logger.Info(ctx, "SRT subtitles saved to: %s", paths.SRT)

	conv.Refined = conv.Raw
	if opts.NoRefine {
		p.logger.Info(ctx, "Skipping transcript refinement")
	} else {
		conv.Refined, err = p.refiner.Refine(ctx, conv.Raw)
		if err != nil {
			return fmt.Errorf("refine transcript: %w", err)
		}
	}
	if err := writeFile(paths.Refined, conv.Refined); err != nil {
		return fmt.Errorf("write refined transcript: %w", err)
	}
	p.logger.Info(ctx, "Refined transcript: %s", paths.Refined)

	if opts.Summary {
		conv.Summary, err = p.refiner.Summarize(ctx, conv.Refined)
		if err != nil {
			return fmt.Errorf("summarize: %w", err)
		}
		if err := writeFile(paths.Summary, conv.Summary); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		p.logger.Info(ctx, "Summary: %s", paths.Summary)

		if opts.Docx {
			if err := notes.Export(paths.Base, conv.Summary, paths.Docx); err != nil {
				return fmt.Errorf("export docx notes: %w", err)
			}
			p.logger.Info(ctx, "Notes: %s", paths.Docx)
		}
	}

	if opts.Rename {
		if err := p.renameFromSummary(ctx, inputPath, paths, conv.Summary, opts.RenamePrefix); err != nil {
			return fmt.Errorf("rename: %w", err)
		}
	}

	p.logger.Info(ctx, "Processing completed in %s", time.Since(startTime).Round(time.Second))
	return nil
}

// loadOrGenerate reuses an existing raw transcript when present, otherwise
// runs normalization, transcription and diarization and aligns the results.
func (p *implPipeline) loadOrGenerate(ctx context.Context, inputPath string, paths OutputPaths, opts Options) ([]transcript.LabeledSegment, error) {
	if !opts.Force && exists(paths.Raw) {
		p.logger.Info(ctx, "Found existing raw transcript at %s, skipping audio conversion, diarization, and transcription.", paths.Raw)
		data, err := os.ReadFile(paths.Raw)
		if err != nil {
			return nil, fmt.Errorf("read raw transcript: %w", err)
		}
		labeled, err := transcript.ParseRaw(string(data))
		if err != nil {
			return nil, fmt.Errorf("parse raw transcript: %w", err)
		}
		return labeled, nil
	}

	wavPath, cleanup, err := p.normalizer.Normalize(ctx, inputPath)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	// Transcription and diarization are independent; run them side by side.
	var (
		wg       sync.WaitGroup
		segments []transcript.Segment
		turns    []transcript.SpeakerTurn
		trErr    error
		diErr    error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		segments, trErr = p.transcriber.Transcribe(ctx, wavPath, opts.Lang)
	}()
	go func() {
		defer wg.Done()
		turns, diErr = p.diarizer.Diarize(ctx, wavPath)
	}()
	wg.Wait()

	if trErr != nil {
		return nil, fmt.Errorf("transcribe: %w", trErr)
	}
	if diErr != nil {
		return nil, fmt.Errorf("diarize: %w", diErr)
	}

	labeled, err := transcript.Align(segments, turns)
	if err != nil {
		return nil, fmt.Errorf("align speakers: %w", err)
	}

	unlabeled := 0
	for _, s := range labeled {
		if !s.Labeled() {
			unlabeled++
		}
	}
	if unlabeled > 0 {
		p.logger.Warn(ctx, "%d of %d segments had no overlapping speaker turn", unlabeled, len(labeled))
	}

	if err := writeFile(paths.Raw, transcript.FormatRaw(labeled)); err != nil {
		return nil, fmt.Errorf("write raw transcript: %w", err)
	}
	p.logger.Info(ctx, "Raw transcript: %s", paths.Raw)

	return labeled, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}
