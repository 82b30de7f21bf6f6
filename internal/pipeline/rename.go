package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	reISODate     = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
	reCompactDate = regexp.MustCompile(`(\d{8})`)
	reUnsafe      = regexp.MustCompile(`[\\/*?:"<>|\n\r]`)
)

// renameFromSummary renames the media file and its outputs to
// `<prefix>_<title>.<ext>` where the title comes from the LLM and the prefix
// defaults to a date found in the original name (or today).
func (p *implPipeline) renameFromSummary(ctx context.Context, inputPath string, paths OutputPaths, summary, prefix string) error {
	title, err := p.refiner.FilenameSummary(ctx, summary)
	if err != nil {
		return err
	}
	title = sanitizeFilename(title)
	if title == "" {
		title = "conversation"
	}

	if prefix == "" {
		prefix = dateFromBase(paths.Base)
	}
	newBase := prefix + "_" + title

	ext := filepath.Ext(inputPath)
	newInput := filepath.Join(paths.Dir, newBase+ext)
	if absEqual(inputPath, newInput) {
		return nil
	}

	if err := p.safeRename(ctx, inputPath, newInput); err != nil {
		return err
	}
	p.logger.Info(ctx, "Renamed recording: %s -> %s", inputPath, newInput)

	newPaths := paths.withBase(newBase)
	for _, pair := range [][2]string{
		{paths.Raw, newPaths.Raw},
		{paths.Refined, newPaths.Refined},
		{paths.Summary, newPaths.Summary},
		{paths.SRT, newPaths.SRT},
		{paths.Docx, newPaths.Docx},
	} {
		if !exists(pair[0]) {
			continue
		}
		if err := p.safeRename(ctx, pair[0], pair[1]); err != nil {
			p.logger.Warn(ctx, "Could not rename %s: %v", pair[0], err)
		}
	}

	return nil
}

// safeRename refuses to overwrite an existing target.
func (p *implPipeline) safeRename(ctx context.Context, src, dst string) error {
	if exists(dst) {
		p.logger.Warn(ctx, "Target %s already exists, skipping rename.", dst)
		return nil
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("rename %s: %w", src, err)
	}
	p.logger.Debug(ctx, "Renamed: %s -> %s", src, dst)
	return nil
}

// dateFromBase extracts YYYY-MM-DD (or YYYYMMDD, normalized) from the base
// name, falling back to today's date.
func dateFromBase(base string) string {
	if m := reISODate.FindString(base); m != "" {
		return m
	}
	if m := reCompactDate.FindString(base); m != "" {
		return m[:4] + "-" + m[4:6] + "-" + m[6:]
	}
	return time.Now().Format("2006-01-02")
}

func sanitizeFilename(s string) string {
	s = reUnsafe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	return strings.ReplaceAll(s, " ", "_")
}

func absEqual(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
