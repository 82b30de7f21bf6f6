package transcript

import (
	"strings"
	"testing"
)

func TestFormatSRT(t *testing.T) {
	segments := []LabeledSegment{
		{Start: 0, End: 2.5, Text: "hello there", Speaker: "00"},
		{Start: 3661.25, End: 3662, Text: "one hour in", Speaker: "01"},
		{Start: 3662, End: 3663, Text: "nobody", Speaker: ""},
	}

	got := FormatSRT(segments)

	want := "1\n00:00:00,000 --> 00:00:02,500\nSpeaker 00: hello there\n\n" +
		"2\n01:01:01,250 --> 01:01:02,000\nSpeaker 01: one hour in\n\n" +
		"3\n01:01:02,000 --> 01:01:03,000\nnobody\n\n"
	if got != want {
		t.Errorf("FormatSRT() =\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatSRTEmpty(t *testing.T) {
	if got := FormatSRT(nil); got != "" {
		t.Errorf("FormatSRT(nil) = %q, want empty", got)
	}
}

func TestSRTTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{59.999, "00:00:59,999"},
		{60, "00:01:00,000"},
		{3600.001, "01:00:00,001"},
		{-1, "00:00:00,000"},
	}

	for _, tt := range tests {
		if got := srtTimestamp(tt.seconds); got != tt.want {
			t.Errorf("srtTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatSRTCueNumbering(t *testing.T) {
	segments := []LabeledSegment{
		{Start: 0, End: 1, Text: "a", Speaker: "00"},
		{Start: 1, End: 2, Text: "b", Speaker: "00"},
		{Start: 2, End: 3, Text: "c", Speaker: "00"},
	}
	got := FormatSRT(segments)
	for _, prefix := range []string{"1\n", "\n2\n", "\n3\n"} {
		if !strings.Contains(got, prefix) {
			t.Errorf("missing cue number %q in:\n%s", strings.TrimSpace(prefix), got)
		}
	}
}
