package captions

import (
	"math"
	"strings"
	"testing"

	"techsprint/internal/transcriber"
)

func timedWords(start float64, step float64, words ...string) []transcriber.Word {
	out := make([]transcriber.Word, 0, len(words))
	cursor := start
	for _, word := range words {
		out = append(out, transcriber.Word{Word: word, Start: cursor, End: cursor + step})
		cursor += step
	}
	return out
}

func TestBuildFromTranscriptClosesAtSentencePunctuation(t *testing.T) {
	words := timedWords(0, 0.5,
		"The", "markets", "closed", "higher", "today.",
		"Tech", "stocks", "led", "the", "rally.")
	segments := []transcriber.Segment{{
		Text:  strings.Join(fieldsOf(words), " "),
		Start: 0, End: 5.0, Words: words,
	}}
	cues := BuildFromTranscript(segments, DefaultLimits())
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d: %+v", len(cues), cues)
	}
	if !strings.HasSuffix(cues[0].Text, "today.") {
		t.Fatalf("first cue should close at sentence end, got %q", cues[0].Text)
	}
}

func TestAccumulateWordsHoldsShortSentenceOpen(t *testing.T) {
	words := append(
		timedWords(0, 0.65, "Markets", "rallied."),
		timedWords(1.3, 0.6, "Analysts", "cheered", "loudly", "today.")...)
	cues := accumulateWords(words, DefaultLimits())
	if len(cues) != 1 {
		t.Fatalf("a 1.3s sentence is under the target minimum and must not close a cue, got %d: %+v", len(cues), cues)
	}
}

func TestAccumulateWordsClosesLongSlowSentence(t *testing.T) {
	words := append(
		timedWords(0, 0.5, "They", "rose", "fast", "amid", "calm", "mild", "late", "gray", "days."),
		timedWords(4.5, 0.5, "More", "gains", "came", "later.")...)
	cues := accumulateWords(words, DefaultLimits())
	if len(cues) != 2 {
		t.Fatalf("a slow sentence past 4s still closes on its reading speed, got %d: %+v", len(cues), cues)
	}
	if !strings.HasSuffix(cues[0].Text, "days.") {
		t.Fatalf("first cue should close at sentence end, got %q", cues[0].Text)
	}
}

func TestAccumulateWordsKeepsFastLongSentenceOpen(t *testing.T) {
	words := timedWords(0, 0.5,
		"analysts", "expected", "steadier", "markets", "overseas", "tonight",
		"despite", "unusual", "pressure", "downtown", "already.", "now")
	cues := accumulateWords(words, DefaultLimits())
	if len(cues) != 1 {
		t.Fatalf("a fast sentence past 4s must stay open, got %d: %+v", len(cues), cues)
	}
}

func TestBuildFromTranscriptRollsBackBudgetOverrun(t *testing.T) {
	names := make([]string, 0, 15)
	for i := 0; i < 15; i++ {
		names = append(names, "update")
	}
	words := timedWords(0, 0.4, names...)
	segments := []transcriber.Segment{{
		Text:  strings.Join(names, " "),
		Start: 0, End: 6.0, Words: words,
	}}
	limits := DefaultLimits()
	cues := BuildFromTranscript(segments, limits)
	if len(cues) < 2 {
		t.Fatalf("15 words must overflow the %d-word cap, got %d cues", limits.MaxWordsPerCue, len(cues))
	}
	total := 0
	for _, cue := range cues {
		n := len(strings.Fields(cue.Text))
		if n > limits.MaxWordsPerCue {
			t.Fatalf("cue still over the word cap: %q", cue.Text)
		}
		total += n
	}
	if total != 15 {
		t.Fatalf("rollback lost words: got %d of 15", total)
	}
}

func TestBuildFromTranscriptProportionalWithoutWordStamps(t *testing.T) {
	segments := []transcriber.Segment{{
		Text:  "hello world this is a longer segment",
		Start: 0, End: 13.0,
	}}
	cues := BuildFromTranscript(segments, DefaultLimits())
	if len(cues) < 2 {
		t.Fatalf("13s segment must split under the 6s cap, got %d cues", len(cues))
	}
	for _, cue := range cues {
		if cue.Duration() > 6.0+1e-9 {
			t.Fatalf("cue exceeds hard cap: %+v", cue)
		}
	}
}

func TestTranscriptOverrunCapsAtAudioDuration(t *testing.T) {
	segments := []transcriber.Segment{{
		Text:  "hello world this is a longer segment",
		Start: 0, End: 13.0,
	}}
	limits := DefaultLimits()
	cues := BuildFromTranscript(segments, limits)
	cues = EnforceContract(cues, limits, testBox(t), 5.0, false)
	if len(cues) == 0 {
		t.Fatal("the final cue must never be dropped")
	}
	last := cues[len(cues)-1]
	if math.Abs(last.End-5.0) > 1e-9 {
		t.Fatalf("last cue must end at the audio duration 5.0, got %f", last.End)
	}
	for _, cue := range cues {
		if cue.End > 5.0+1e-9 {
			t.Fatalf("cue extends past audio: %+v", cue)
		}
	}
}

func TestMergeShortCuesRespectsCaps(t *testing.T) {
	limits := DefaultLimits()
	cues := []Cue{
		{Start: 0, End: 1.0, Text: "Quick one"},
		{Start: 1.0, End: 2.0, Text: "quick two"},
		{Start: 2.0, End: 8.0, Text: "then a much longer closing cue here"},
	}
	merged := mergeShortCues(cues, limits)
	if len(merged) != 2 {
		t.Fatalf("expected the two short cues to merge, got %d", len(merged))
	}
	if merged[0].Text != "Quick one quick two" {
		t.Fatalf("unexpected merged text %q", merged[0].Text)
	}
	if merged[0].Start != 0 || merged[0].End != 2.0 {
		t.Fatalf("merged window wrong: %+v", merged[0])
	}
}

func TestBuildFromTranscriptSkipsDegenerateSegments(t *testing.T) {
	segments := []transcriber.Segment{
		{Text: "   ", Start: 0, End: 2},
		{Text: "valid text here", Start: 2, End: 1},
		{Text: "Kept segment speaks plainly.", Start: 2, End: 5},
	}
	cues := BuildFromTranscript(segments, DefaultLimits())
	if len(cues) != 1 {
		t.Fatalf("expected only the valid segment to survive, got %d", len(cues))
	}
	if cues[0].Text != "Kept segment speaks plainly." {
		t.Fatalf("unexpected cue text %q", cues[0].Text)
	}
}

func fieldsOf(words []transcriber.Word) []string {
	out := make([]string, 0, len(words))
	for _, word := range words {
		out = append(out, word.Word)
	}
	return out
}
