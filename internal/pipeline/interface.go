package pipeline

import "context"

// Options control one pipeline run.
type Options struct {
	Lang         string
	Force        bool
	Verbose      bool
	NoRefine     bool
	Summary      bool
	Docx         bool
	Rename       bool
	RenamePrefix string // overrides the date-derived prefix when set
}

// Pipeline processes a single recording end to end.
type Pipeline interface {
	Process(ctx context.Context, inputPath string, opts Options) error
}
