package transcript

import (
	"fmt"
	"strings"
)

// FormatSRT renders labeled segments as standard SRT: numbered cues with
// `HH:MM:SS,mmm --> HH:MM:SS,mmm` timing lines. The speaker label is kept as
// a prefix in the cue text when present.
func FormatSRT(segments []LabeledSegment) string {
	var b strings.Builder
	for i, s := range segments {
		fmt.Fprintf(&b, "%d\n%s --> %s\n", i+1, srtTimestamp(s.Start), srtTimestamp(s.End))
		if s.Speaker != "" {
			fmt.Fprintf(&b, "Speaker %s: %s\n\n", s.Speaker, s.Text)
		} else {
			fmt.Fprintf(&b, "%s\n\n", s.Text)
		}
	}
	return b.String()
}

func srtTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int64(seconds*1000 + 0.5)
	h := millis / 3600000
	m := millis / 60000 % 60
	s := millis / 1000 % 60
	ms := millis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
