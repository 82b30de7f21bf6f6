package pipeline

import (
	"path/filepath"
	"strings"
)

// OutputPaths holds the per-input output file locations. Every path derives
// from the source filename, so concurrent runs on different inputs never
// collide.
type OutputPaths struct {
	Dir     string
	Base    string
	Raw     string
	Refined string
	Summary string
	SRT     string
	Docx    string
}

// OutputPathsFor derives output paths next to the input file. A trailing
// "_480p" from pre-downscaled recordings is stripped from the base name.
func OutputPathsFor(inputPath string) OutputPaths {
	dir := filepath.Dir(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	base = strings.TrimSuffix(base, "_480p")

	return OutputPaths{
		Dir:     dir,
		Base:    base,
		Raw:     filepath.Join(dir, base+".raw_transcript.txt"),
		Refined: filepath.Join(dir, base+".refined_transcript.txt"),
		Summary: filepath.Join(dir, base+".summary.txt"),
		SRT:     filepath.Join(dir, base+".srt"),
		Docx:    filepath.Join(dir, base+".summary.docx"),
	}
}

// withBase returns the same path set under a new base name, for
// summary-based renaming.
func (p OutputPaths) withBase(base string) OutputPaths {
	return OutputPaths{
		Dir:     p.Dir,
		Base:    base,
		Raw:     filepath.Join(p.Dir, base+".raw_transcript.txt"),
		Refined: filepath.Join(p.Dir, base+".refined_transcript.txt"),
		Summary: filepath.Join(p.Dir, base+".summary.txt"),
		SRT:     filepath.Join(p.Dir, base+".srt"),
		Docx:    filepath.Join(p.Dir, base+".summary.docx"),
	}
}
