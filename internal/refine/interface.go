package refine

import "context"

// Refiner cleans up a transcript and derives summaries from it via an LLM.
type Refiner interface {
	// Refine fixes punctuation, filler words and common mis-transcriptions
	// while preserving the original meaning.
	Refine(ctx context.Context, transcript string) (string, error)

	// Summarize produces a long-form summary of the refined transcript.
	Summarize(ctx context.Context, refined string) (string, error)

	// FilenameSummary produces a short title suitable for a file name.
	// Callers are responsible for filesystem sanitization.
	FilenameSummary(ctx context.Context, summary string) (string, error)
}
