package transcript

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Raw transcript line format: `Speaker 01: [12.34-56.78] text`.
// Unlabeled segments use `Speaker ?` so the gap is visible, not papered over.
var rawLine = regexp.MustCompile(`^Speaker (\S+): \[(\d+(?:\.\d+)?)-(\d+(?:\.\d+)?)\] (.*)$`)

const unknownSpeakerMark = "?"

// FormatRaw renders labeled segments as the raw transcript text, one line
// per segment.
func FormatRaw(segments []LabeledSegment) string {
	var b strings.Builder
	for _, s := range segments {
		speaker := s.Speaker
		if speaker == "" {
			speaker = unknownSpeakerMark
		}
		fmt.Fprintf(&b, "Speaker %s: [%.2f-%.2f] %s\n", speaker, s.Start, s.End, s.Text)
	}
	return b.String()
}

// ParseRaw parses raw transcript text back into labeled segments, so an
// existing raw transcript can be reused without re-running transcription.
// Blank lines are skipped; any other non-matching line is an error.
func ParseRaw(text string) ([]LabeledSegment, error) {
	var segments []LabeledSegment
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := rawLine.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("raw transcript line %d: unrecognized format: %q", i+1, line)
		}
		start, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return nil, fmt.Errorf("raw transcript line %d: start time: %w", i+1, err)
		}
		end, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return nil, fmt.Errorf("raw transcript line %d: end time: %w", i+1, err)
		}
		speaker := m[1]
		if speaker == unknownSpeakerMark {
			speaker = ""
		}
		segments = append(segments, LabeledSegment{
			Start:   start,
			End:     end,
			Text:    m[4],
			Speaker: speaker,
		})
	}
	return segments, nil
}
