package captions

import (
	"math"
	"strings"

	"techsprint/internal/transcriber"
)

// BuildFromTranscript turns speech-to-text segments into cues. Segments with
// word timestamps accumulate words left to right, closing the running cue at
// natural break points or rolling the last word forward when a budget trips.
// Segments without word stamps fall back to proportional allocation. Short
// neighbors are merged afterward.
func BuildFromTranscript(segments []transcriber.Segment, limits Limits) []Cue {
	var cues []Cue
	for _, segment := range segments {
		text := strings.TrimSpace(segment.Text)
		if text == "" || segment.End <= segment.Start {
			continue
		}
		if segment.HasWordTimestamps() {
			cues = append(cues, accumulateWords(segment.Words, limits)...)
		} else {
			cues = append(cues, proportionalSegment(segment, limits)...)
		}
	}
	return mergeShortCues(cues, limits)
}

// accumulateWords walks timed words and decides after each one whether the
// running cue should close. Budget overruns close immediately with the last
// word rolled back into the next cue; otherwise the cue closes
// opportunistically on break strength once the target minimum is reached.
func accumulateWords(words []transcriber.Word, limits Limits) []Cue {
	var cues []Cue
	var run []transcriber.Word

	flush := func() {
		if len(run) == 0 {
			return
		}
		cues = append(cues, cueFromWords(run))
		run = nil
	}

	for i, word := range words {
		token := strings.TrimSpace(word.Word)
		if token == "" {
			continue
		}
		run = append(run, word)
		current := cueFromWords(run)

		overBudget := current.Duration() > limits.MaxCueSeconds ||
			current.CPS() > limits.CPSMax ||
			len(run) > limits.MaxWordsPerCue
		if overBudget && len(run) > 1 {
			// Roll the word that tripped the budget into the next cue.
			rolled := run[len(run)-1]
			run = run[:len(run)-1]
			flush()
			run = append(run, rolled)
			continue
		}

		if i == len(words)-1 {
			continue
		}
		strength := breakStrength(token)
		if strength == 0 {
			continue
		}
		if isForbiddenSplit(token, words[i+1].Word) {
			continue
		}
		switch {
		case strength >= 3 && current.Duration() >= limits.TargetMinSeconds &&
			(current.Duration() <= limits.StrongPunctMaxSeconds || current.CPS() <= limits.CPSSoft):
			flush()
		case strength == 2 && current.Duration() >= limits.TargetMinSeconds:
			flush()
		case strength == 1 && current.Duration() >= limits.TargetMaxSeconds:
			flush()
		}
	}
	flush()
	return cues
}

func cueFromWords(words []transcriber.Word) Cue {
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		tokens = append(tokens, strings.TrimSpace(word.Word))
	}
	return Cue{
		Start: words[0].Start,
		End:   words[len(words)-1].End,
		Text:  strings.Join(tokens, " "),
	}
}

// proportionalSegment handles a segment without word stamps: chunk count is
// sized so each slot stays under the CPS ceiling, then time spreads
// proportionally.
func proportionalSegment(segment transcriber.Segment, limits Limits) []Cue {
	text := strings.TrimSpace(segment.Text)
	duration := segment.Duration()
	glyphs := countGlyphs(text)

	parts := 1
	if limits.CPSMax > 0 && duration > 0 {
		budget := limits.CPSMax * duration
		parts = int(math.Ceil(float64(glyphs) / budget))
	}
	if byDuration := int(math.Ceil(duration / limits.MaxCueSeconds)); byDuration > parts {
		parts = byDuration
	}
	if parts < 1 {
		parts = 1
	}

	words := strings.Fields(text)
	if parts > len(words) {
		parts = len(words)
	}
	chunks := partitionWords(words, parts)
	return allocateProportional(chunks, segment.Start, duration)
}

// mergeShortCues combines under-length neighbors forward then backward while
// the combined cue stays within the ASR duration and word caps.
func mergeShortCues(cues []Cue, limits Limits) []Cue {
	if len(cues) < 2 {
		return cues
	}
	merged := make([]Cue, 0, len(cues))
	for _, cue := range cues {
		if len(merged) > 0 {
			last := merged[len(merged)-1]
			short := last.Duration() < limits.ASRMergeTargetSeconds ||
				cue.Duration() < limits.ASRMergeTargetSeconds ||
				len(strings.Fields(cue.Text)) < limits.ASRMinWords
			if short && canCombine(last, cue, limits) {
				merged[len(merged)-1] = combine(last, cue)
				continue
			}
		}
		merged = append(merged, cue)
	}
	return merged
}

func canCombine(a, b Cue, limits Limits) bool {
	if b.End-a.Start > limits.ASRMaxCueSeconds {
		return false
	}
	words := len(strings.Fields(a.Text)) + len(strings.Fields(b.Text))
	return words <= limits.MaxWordsPerCue
}

func combine(a, b Cue) Cue {
	return Cue{
		Start: a.Start,
		End:   b.End,
		Text:  strings.TrimSpace(a.Text + " " + b.Text),
	}
}
