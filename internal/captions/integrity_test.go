package captions

import (
	"strings"
	"testing"
)

func TestRepairIntegrityMergesDanglingConjunction(t *testing.T) {
	limits := DefaultLimits()
	cues := []Cue{
		{Start: 0, End: 3.0, Text: "The deal was announced and"},
		{Start: 3.0, End: 5.0, Text: "shares jumped."},
	}
	out, notes := RepairIntegrity(cues, limits, testBox(t), 5.0, false)
	if len(out) != 1 {
		t.Fatalf("expected the dangling cue to merge, got %d cues", len(out))
	}
	if !strings.HasSuffix(out[0].Text, ".") {
		t.Fatalf("merged cue must end a sentence, got %q", out[0].Text)
	}
	if !strings.Contains(out[0].Text, "announced and shares") {
		t.Fatalf("merge lost words: %q", out[0].Text)
	}
	if len(notes) == 0 {
		t.Fatal("expected a repair note for the merge")
	}
}

func TestRepairIntegritySkipsMergeOverHardCap(t *testing.T) {
	limits := DefaultLimits()
	cues := []Cue{
		{Start: 0, End: 4.0, Text: "The first cue runs long and"},
		{Start: 4.0, End: 8.5, Text: "the second one is long as well."},
	}
	out, _ := RepairIntegrity(cues, limits, testBox(t), 8.5, false)
	if len(out) < 2 {
		t.Fatalf("merge over the 6s cap must not happen, got %d cues", len(out))
	}
}

func TestRepairIntegrityMergesTrailingComma(t *testing.T) {
	limits := DefaultLimits()
	cues := []Cue{
		{Start: 0, End: 2.0, Text: "After the announcement,"},
		{Start: 2.0, End: 4.5, Text: "shares rallied sharply."},
	}
	out, _ := RepairIntegrity(cues, limits, testBox(t), 4.5, false)
	if len(out) != 1 {
		t.Fatalf("trailing comma cue should merge forward, got %d cues", len(out))
	}
}

func TestRepairIntegrityPullsContinuationBackward(t *testing.T) {
	limits := DefaultLimits()
	cues := []Cue{
		{Start: 0, End: 2.5, Text: "Shares rallied sharply"},
		{Start: 2.5, End: 5.0, Text: "while volume stayed thin."},
	}
	out, _ := RepairIntegrity(cues, limits, testBox(t), 5.0, false)
	if len(out) != 1 {
		t.Fatalf("continuation fragment should pull backward, got %d cues", len(out))
	}
	if !strings.Contains(out[0].Text, "sharply while volume") {
		t.Fatalf("unexpected merged text %q", out[0].Text)
	}
}

func TestRepairIntegrityDeduplicatesStutters(t *testing.T) {
	limits := DefaultLimits()
	cues := []Cue{
		{Start: 0, End: 3.0, Text: "The the markets closed higher today."},
		{Start: 3.0, End: 6.0, Text: "Higher today. Analysts cheered the result."},
	}
	out, notes := RepairIntegrity(cues, limits, testBox(t), 6.0, false)
	joined := strings.ToLower(strings.Join(cueTexts(out), " "))
	if strings.Contains(joined, "the the") {
		t.Fatalf("repeated word survived: %q", joined)
	}
	if strings.Count(joined, "higher today") != 1 {
		t.Fatalf("repeated tail phrase survived: %q", joined)
	}
	if len(notes) == 0 {
		t.Fatal("expected repair notes for deduplication")
	}
}

func TestRepairIntegrityRestoresSentenceForm(t *testing.T) {
	limits := DefaultLimits()
	cues := []Cue{
		{Start: 0, End: 3.0, Text: "the markets closed higher today."},
		{Start: 3.0, End: 6.0, Text: "Analysts cheered the result"},
	}
	out, _ := RepairIntegrity(cues, limits, testBox(t), 6.0, false)
	first := cueTexts(out)[0]
	if !strings.HasPrefix(first, "The") {
		t.Fatalf("sentence case not restored: %q", first)
	}
	last := cueTexts(out)[len(out)-1]
	if !EndsSentence(last) {
		t.Fatalf("terminal punctuation not restored: %q", last)
	}
}

func TestRepairIntegrityVerbatimOnlyMerges(t *testing.T) {
	limits := DefaultLimits()
	cues := []Cue{
		{Start: 0, End: 3.0, Text: "the the markets closed higher today"},
		{Start: 3.0, End: 6.0, Text: "and analysts cheered"},
	}
	out, _ := RepairIntegrity(cues, limits, testBox(t), 6.0, true)
	joined := strings.Join(cueTexts(out), " ")
	if !strings.Contains(joined, "the the") {
		t.Fatalf("verbatim mode must not edit word content, got %q", joined)
	}
	if !strings.HasPrefix(joined, "the") {
		t.Fatalf("verbatim mode must not re-case text, got %q", joined)
	}
}

func cueTexts(cues []Cue) []string {
	out := make([]string, 0, len(cues))
	for _, cue := range cues {
		out = append(out, cue.Text)
	}
	return out
}
