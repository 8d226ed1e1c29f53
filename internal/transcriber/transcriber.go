// Package transcriber defines the speech-to-text collaborator contract the
// caption engine consumes. The engine never runs speech recognition itself;
// it reads segment and word timestamps produced by an external tool.
package transcriber

import "context"

// Word is a single recognized word with its audio timestamps in seconds.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Segment is a recognized utterance. Words may be empty when the external
// tool did not produce word-level alignment; cue building then degrades to
// proportional time allocation.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Words []Word  `json:"words"`
}

// Transcriber produces timestamped segments for an audio file.
//
// Availability is decided once at construction; the engine selects the
// script-driven fallback path up front when the collaborator reports
// unavailable rather than probing mid-run.
type Transcriber interface {
	Available() bool
	Transcribe(ctx context.Context, audioPath string) ([]Segment, error)
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// HasWordTimestamps reports whether every word carries usable timestamps.
func (s Segment) HasWordTimestamps() bool {
	if len(s.Words) == 0 {
		return false
	}
	for _, w := range s.Words {
		if w.End < w.Start {
			return false
		}
	}
	return true
}

// WordMidpoints collects the midpoint of every word across segments, falling
// back to segment midpoints when word alignment is missing. QC uses these as
// the reference timeline for drift measurement.
func WordMidpoints(segments []Segment) []float64 {
	var midpoints []float64
	for _, seg := range segments {
		if seg.HasWordTimestamps() {
			for _, w := range seg.Words {
				midpoints = append(midpoints, (w.Start+w.End)/2)
			}
			continue
		}
		if seg.End >= seg.Start {
			midpoints = append(midpoints, (seg.Start+seg.End)/2)
		}
	}
	return midpoints
}
