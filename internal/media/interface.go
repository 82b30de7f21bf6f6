package media

import "context"

// Normalizer produces a mono 16kHz WAV from an arbitrary media file.
type Normalizer interface {
	// Normalize returns the path to the normalized waveform and a cleanup
	// func that removes any temporary file it created. When the input is
	// already a mono 16kHz WAV it is returned as-is and cleanup is a no-op.
	Normalize(ctx context.Context, inputPath string) (string, func(), error)
}
