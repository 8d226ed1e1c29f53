package captions

import (
	"math"
	"testing"
)

func TestCueCPSIgnoresSpaces(t *testing.T) {
	cue := Cue{Start: 0, End: 2, Text: "ab cd ef"}
	if got := cue.CPS(); got != 3 {
		t.Fatalf("CPS = %f, want 3", got)
	}
	if got := (Cue{Start: 1, End: 1, Text: "x"}).CPS(); got != 0 {
		t.Fatalf("zero-duration CPS = %f, want 0", got)
	}
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats([]Cue{
		{Start: 0, End: 2},
		{Start: 2, End: 5},
		{Start: 5, End: 9},
	})
	if stats.Min != 2 || stats.Max != 4 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if math.Abs(stats.Avg-3.0) > 1e-9 {
		t.Fatalf("avg = %f, want 3", stats.Avg)
	}
}

func TestMedian(t *testing.T) {
	if got := Median([]float64{3, 1, 2}); got != 2 {
		t.Fatalf("odd median = %f, want 2", got)
	}
	if got := Median([]float64{4, 1, 3, 2}); got != 2.5 {
		t.Fatalf("even median = %f, want 2.5", got)
	}
	if got := Median(nil); got != 0 {
		t.Fatalf("empty median = %f, want 0", got)
	}
}

func TestSnapToFrame(t *testing.T) {
	limits := DefaultLimits()
	if got := limits.SnapToFrame(1.02); math.Abs(got-31.0/30.0) > 1e-9 {
		t.Fatalf("snap 1.02 = %f", got)
	}
	if got := limits.SnapToFrame(2.0); got != 2.0 {
		t.Fatalf("aligned timestamp moved: %f", got)
	}
}
