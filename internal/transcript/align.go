package transcript

import (
	"errors"
	"fmt"
)

// ErrInvalidSegment indicates a segment or turn whose end precedes its start.
// Alignment aborts without partial output when any input interval is malformed.
var ErrInvalidSegment = errors.New("invalid segment: end before start")

// Align assigns a speaker to every transcript segment by finding the
// diarization turn with the largest temporal overlap. Both inputs must be
// ordered by start time. The output has exactly one entry per input segment,
// in the same order. Segments no turn overlaps keep an empty Speaker.
//
// Ties on overlap duration go to the earliest-starting turn. Zero-duration
// intervals are treated as single instants: they overlap whatever interval
// contains them, with overlap duration zero.
func Align(segments []Segment, turns []SpeakerTurn) ([]LabeledSegment, error) {
	for i, s := range segments {
		if s.End < s.Start {
			return nil, fmt.Errorf("%w: segment %d [%.2f-%.2f]", ErrInvalidSegment, i, s.Start, s.End)
		}
	}
	for i, t := range turns {
		if t.End < t.Start {
			return nil, fmt.Errorf("%w: turn %d [%.2f-%.2f]", ErrInvalidSegment, i, t.Start, t.End)
		}
	}

	labeled := make([]LabeledSegment, 0, len(segments))

	// Both sequences are time-ordered, so turns that ended before the
	// current segment can never overlap a later one. lo only moves forward.
	lo := 0
	for _, seg := range segments {
		for lo < len(turns) && turns[lo].End < seg.Start {
			lo++
		}

		best := -1
		bestOverlap := -1.0
		for j := lo; j < len(turns) && turns[j].Start <= seg.End; j++ {
			d, ok := overlap(seg, turns[j])
			if !ok {
				continue
			}
			if d > bestOverlap {
				best, bestOverlap = j, d
			}
		}

		ls := LabeledSegment{Start: seg.Start, End: seg.End, Text: seg.Text}
		if best >= 0 {
			ls.Speaker = turns[best].Speaker
		}
		labeled = append(labeled, ls)
	}

	return labeled, nil
}

// overlap returns the overlap duration between a segment and a turn and
// whether the two intervals intersect at all. Abutting non-degenerate
// intervals (one ends exactly where the other starts) do not intersect;
// a zero-duration interval intersects any interval that contains its instant.
func overlap(seg Segment, turn SpeakerTurn) (float64, bool) {
	start := max(seg.Start, turn.Start)
	end := min(seg.End, turn.End)
	if end > start {
		return end - start, true
	}
	if end == start && (seg.Start == seg.End || turn.Start == turn.End) {
		return 0, true
	}
	return 0, false
}
