package captions

import (
	"math"
	"strings"
	"testing"
)

func TestSRTTimestampRoundTrip(t *testing.T) {
	for _, seconds := range []float64{0, 0.001, 1.2, 59.999, 61.5, 3599.02, 3661.042} {
		formatted := FormatSRTTimestamp(seconds)
		parsed, err := ParseSRTTimestamp(formatted)
		if err != nil {
			t.Fatalf("parse %q: %v", formatted, err)
		}
		if math.Abs(parsed-seconds) > 0.0005 {
			t.Fatalf("round trip drifted: %f -> %q -> %f", seconds, formatted, parsed)
		}
	}
}

func TestParseSRTTimestampAcceptsPeriodSeparator(t *testing.T) {
	got, err := ParseSRTTimestamp("00:01:02.500")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 62.5 {
		t.Fatalf("got %f, want 62.5", got)
	}
}

func TestMarshalSRTRoundTrip(t *testing.T) {
	limits := DefaultLimits()
	cues := []Cue{
		{Start: 0, End: 2.4, Text: "Hello world."},
		{Start: 2.4, End: 6.0, Text: "Stay tuned for more updates!"},
	}
	doc := MarshalSRT(cues, limits)
	parsed, err := ParseSRT(doc)
	if err != nil {
		t.Fatalf("ParseSRT: %v", err)
	}
	if len(parsed) != len(cues) {
		t.Fatalf("cue count changed: %d -> %d", len(cues), len(parsed))
	}
	for i := range cues {
		if parsed[i].Text != cues[i].Text {
			t.Fatalf("cue %d text changed: %q -> %q", i, cues[i].Text, parsed[i].Text)
		}
		if math.Abs(parsed[i].Start-cues[i].Start) > 0.0005 ||
			math.Abs(parsed[i].End-cues[i].End) > 0.0005 {
			t.Fatalf("cue %d timing changed: %+v -> %+v", i, cues[i], parsed[i])
		}
	}
}

func TestMarshalSRTWrapsLongText(t *testing.T) {
	limits := DefaultLimits()
	limits.MaxCharsPerLine = 20
	cues := []Cue{{Start: 0, End: 4, Text: "A line that is too wide for one row"}}
	doc := MarshalSRT(cues, limits)
	block := strings.TrimSpace(doc)
	lines := strings.Split(block, "\n")
	// index + timing + two text lines
	if len(lines) != 4 {
		t.Fatalf("expected a wrapped two-line block, got %q", doc)
	}
}

func TestParseSRTRejectsMalformedTiming(t *testing.T) {
	if _, err := ParseSRT("1\n00:00:00,000 -> 00:00:02,000\nBroken arrow\n"); err == nil {
		t.Fatal("expected error for malformed timing separator")
	}
}

func TestParseSRTCollapsesWindowsLineEndings(t *testing.T) {
	doc := "1\r\n00:00:00,000 --> 00:00:02,000\r\nHello there\r\n\r\n"
	cues, err := ParseSRT(doc)
	if err != nil {
		t.Fatalf("ParseSRT: %v", err)
	}
	if len(cues) != 1 || cues[0].Text != "Hello there" {
		t.Fatalf("unexpected parse result %+v", cues)
	}
}
