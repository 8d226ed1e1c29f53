package captions

import (
	"math"
	"sort"
	"strings"
)

// Cue is one timed caption entry. Start and End are seconds from the top of
// the narration; Text may contain a newline once wrapped for display.
type Cue struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Duration returns the display time in seconds.
func (c Cue) Duration() float64 {
	return c.End - c.Start
}

// Midpoint returns the temporal center of the cue.
func (c Cue) Midpoint() float64 {
	return (c.Start + c.End) / 2
}

// CPS returns the characters-per-second reading speed of the cue. Spaces and
// line breaks do not count as characters.
func (c Cue) CPS() float64 {
	duration := c.Duration()
	if duration <= 0 {
		return 0
	}
	return float64(countGlyphs(c.Text)) / duration
}

// Words returns the cue text split on whitespace, ignoring line breaks.
func (c Cue) Words() []string {
	return strings.Fields(c.Text)
}

func countGlyphs(text string) int {
	count := 0
	for _, r := range text {
		if r == ' ' || r == '\n' || r == '\t' {
			continue
		}
		count++
	}
	return count
}

// Stats aggregates cue durations. Recomputed per report, never persisted.
type Stats struct {
	Min float64 `json:"min_seconds"`
	Max float64 `json:"max_seconds"`
	Avg float64 `json:"avg_seconds"`
}

// ComputeStats derives duration statistics over a cue sequence. Returns the
// zero value for an empty sequence.
func ComputeStats(cues []Cue) Stats {
	if len(cues) == 0 {
		return Stats{}
	}
	stats := Stats{Min: math.Inf(1)}
	var total float64
	for _, cue := range cues {
		d := cue.Duration()
		if d < stats.Min {
			stats.Min = d
		}
		if d > stats.Max {
			stats.Max = d
		}
		total += d
	}
	stats.Avg = total / float64(len(cues))
	return stats
}

// Midpoints collects the midpoint of every cue, in order.
func Midpoints(cues []Cue) []float64 {
	out := make([]float64, 0, len(cues))
	for _, cue := range cues {
		if cue.End >= cue.Start {
			out = append(out, cue.Midpoint())
		}
	}
	return out
}

// Median returns the median of values, or 0 for an empty slice.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
