package captions

import (
	"reflect"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
)

func TestEnforceContractSplitsSpeedyRun(t *testing.T) {
	source := strings.TrimSpace(strings.Repeat("speedy ", 40))
	limits := DefaultLimits()
	cues, err := BuildFromScript(source, 16.0, limits)
	if err != nil {
		t.Fatalf("BuildFromScript returned error: %v", err)
	}
	cues = EnforceContract(cues, limits, testBox(t), 16.0, true)
	if len(cues) < 2 {
		t.Fatalf("CPS-hostile input must split into multiple cues, got %d", len(cues))
	}
	for _, cue := range cues {
		if cue.CPS() > limits.CPSMax {
			t.Fatalf("cue reads too fast (%.2f cps): %+v", cue.CPS(), cue)
		}
	}
	// Verbatim preserved by splitting, never by trimming.
	if err := CheckVerbatim(source, cues); err != nil {
		t.Fatalf("splitting lost words: %v", err)
	}
}

func TestEnforceContractSplitsOverLongCue(t *testing.T) {
	limits := DefaultLimits()
	cues := []Cue{{
		Start: 0, End: 10.0,
		Text: "This cue runs for ten seconds, far beyond the hard cap, and must be split.",
	}}
	out := EnforceContract(cues, limits, testBox(t), 10.0, false)
	if len(out) < 2 {
		t.Fatalf("10s cue must split, got %d cues", len(out))
	}
	for _, cue := range out {
		if cue.Duration() > limits.MaxCueSeconds+limits.ToleranceSeconds {
			t.Fatalf("cue still over the hard cap: %+v", cue)
		}
	}
}

func TestEnforceContractMergesShortCue(t *testing.T) {
	limits := DefaultLimits()
	cues := []Cue{
		{Start: 0, End: 2.5, Text: "The markets closed higher"},
		{Start: 2.5, End: 3.0, Text: "today."},
	}
	out := EnforceContract(cues, limits, testBox(t), 3.0, false)
	for _, cue := range out {
		if cue.Duration() < limits.MinCueSeconds-limits.ToleranceSeconds {
			t.Fatalf("short cue survived enforcement: %+v", cue)
		}
	}
}

func TestEnforceContractIsIdempotent(t *testing.T) {
	limits := DefaultLimits()
	source := "Warner Bros. Discovery announced the new streaming lineup today. Analysts expect the launch to reshape the market."
	cues, err := BuildFromScript(source, 12.0, limits)
	if err != nil {
		t.Fatalf("BuildFromScript returned error: %v", err)
	}
	box := testBox(t)
	once := EnforceContract(cues, limits, box, 12.0, false)
	twice := EnforceContract(once, limits, box, 12.0, false)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("enforcement is not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestEnforceContractSnapsBoundariesToFrames(t *testing.T) {
	limits := DefaultLimits()
	cues := []Cue{
		{Start: 0.011, End: 2.507, Text: "Frame snapped opening line."},
		{Start: 2.507, End: 5.013, Text: "Frame snapped closing line."},
	}
	out := EnforceContract(cues, limits, testBox(t), 5.013, false)
	for _, cue := range out {
		for _, ts := range []float64{cue.Start, cue.End} {
			snapped := limits.SnapToFrame(ts)
			if snapped != ts {
				t.Fatalf("timestamp %f not on the frame grid", ts)
			}
		}
	}
	if out[0].Start != 0 {
		t.Fatalf("small lead-in gap should snap to 0, got %f", out[0].Start)
	}
}

func TestEnforceContractNeverDropsFinalCue(t *testing.T) {
	limits := DefaultLimits()
	cues := []Cue{{Start: 9.0, End: 12.0, Text: "Entirely past the end of audio."}}
	out := EnforceContract(cues, limits, testBox(t), 5.0, false)
	if len(out) == 0 {
		t.Fatalf("final cue was dropped")
	}
	for _, cue := range out {
		if cue.End > 5.0 {
			t.Fatalf("cue extends past audio: %+v", cue)
		}
	}
}

func TestEnforceContractClampsOutOfWindowCueToTail(t *testing.T) {
	limits := DefaultLimits()
	cues := []Cue{{Start: 7.0, End: 9.0, Text: "Entirely past the end of audio."}}
	out := EnforceContract(cues, limits, testBox(t), 5.0, false)
	if len(out) == 0 {
		t.Fatal("final cue was dropped")
	}
	tail := 5.0 - limits.MinCueSeconds
	if out[0].Start < tail-1e-9 {
		t.Fatalf("cue widened past the tail window, start %f < %f: %+v", out[0].Start, tail, out)
	}
	for _, cue := range out {
		if cue.End > 5.0+1e-9 {
			t.Fatalf("cue extends past audio: %+v", cue)
		}
	}
}

func TestEnforceContractRandomizedScriptsHoldInvariants(t *testing.T) {
	faker := gofakeit.New(11)
	limits := DefaultLimits()
	box := testBox(t)
	for i := 0; i < 25; i++ {
		sentences := faker.Number(1, 6)
		var parts []string
		for s := 0; s < sentences; s++ {
			parts = append(parts, faker.Sentence(faker.Number(3, 14)))
		}
		source := strings.Join(parts, " ")
		duration := float64(faker.Number(4, 45))
		cues, err := BuildFromScript(source, duration, limits)
		if err != nil {
			t.Fatalf("BuildFromScript(%q): %v", source, err)
		}
		out := EnforceContract(cues, limits, box, duration, false)
		if len(out) == 0 {
			t.Fatalf("enforcement emptied the sequence for %q", source)
		}
		for _, cue := range out {
			if cue.End <= cue.Start {
				t.Fatalf("non-positive cue window %+v for %q", cue, source)
			}
			if cue.End > duration+1e-9 {
				t.Fatalf("cue past audio end %+v for %q", cue, source)
			}
		}
		for j := 1; j < len(out); j++ {
			if out[j].Start < out[j-1].End-1e-9 {
				t.Fatalf("overlapping cues %+v / %+v for %q", out[j-1], out[j], source)
			}
		}
	}
}
