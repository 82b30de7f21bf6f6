package transcript

// Segment is a timestamped piece of transcribed text. Times are in seconds
// from the start of the recording.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// SpeakerTurn is a time interval attributed to one speaker by diarization.
type SpeakerTurn struct {
	Start   float64
	End     float64
	Speaker string
}

// LabeledSegment is a transcript segment with its assigned speaker.
// Speaker is empty when no diarization turn overlapped the segment.
type LabeledSegment struct {
	Start   float64
	End     float64
	Text    string
	Speaker string
}

// Labeled reports whether a speaker was assigned to the segment.
func (s LabeledSegment) Labeled() bool {
	return s.Speaker != ""
}

// Conversation is the result of one pipeline run: the speaker-labeled
// transcript plus the derived artifacts produced downstream.
type Conversation struct {
	Segments []LabeledSegment
	Raw      string
	Refined  string
	Summary  string
}
