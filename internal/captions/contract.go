package captions

import (
	"math"
	"strings"

	"techsprint/internal/captions/layout"
)

// EnforceContract runs the broadcast-contract fixed point over the cue
// sequence: over-length cues split, under-length cues merge or stretch,
// over-speed cues compress, trim, and finally split, failing layouts re-enter
// the splitter, and boundary timestamps snap to coverage and frame grid. When
// verbatim is set the content edits (compress, trim, truncate) are suppressed
// and only split, merge, and retime operate. The final cue is never dropped.
func EnforceContract(cues []Cue, limits Limits, box layout.Box, audioDuration float64, verbatim bool) []Cue {
	out := cloneCues(cues)
	if len(out) == 0 {
		return out
	}
	for pass := 0; pass < limits.MaxPasses; pass++ {
		changed := false
		out, changed = splitOverLength(out, limits, box, changed)
		out, changed = mergeOrStretchShort(out, limits, changed)
		if !verbatim {
			out, changed = compressOverSpeed(out, limits, changed)
		}
		out, changed = splitOverSpeed(out, limits, changed)
		if !changed {
			break
		}
	}
	if !verbatim {
		out = truncateUnwrappable(out, limits)
	}
	out = snapCoverage(out, limits, audioDuration)
	return out
}

func cloneCues(cues []Cue) []Cue {
	out := make([]Cue, len(cues))
	copy(out, cues)
	return out
}

// splitOverLength breaks every cue that exceeds the hard duration cap or
// fails the two-line wrap. Splits prefer punctuation boundaries and fold a
// trailing single-word chunk back into its predecessor.
func splitOverLength(cues []Cue, limits Limits, box layout.Box, changed bool) ([]Cue, bool) {
	out := make([]Cue, 0, len(cues))
	// When the style box itself cannot fit the frame no amount of text
	// splitting helps; only duration violations drive splits then.
	checkWrap := box.Fits()
	for _, cue := range cues {
		over := cue.Duration() > limits.MaxCueSeconds+limits.ToleranceSeconds
		badLayout := checkWrap && !LinesFit(cue.Text, limits.MaxLines, limits.MaxCharsPerLine)
		if !over && !badLayout {
			out = append(out, cue)
			continue
		}
		parts := splitCue(cue, limits)
		if len(parts) > 1 {
			changed = true
		}
		out = append(out, parts...)
	}
	return out, changed
}

// splitCue divides a cue into the minimum number of parts that each pass the
// duration, CPS, and wrap checks, up to the cue's word count.
func splitCue(cue Cue, limits Limits) []Cue {
	words := strings.Fields(cue.Text)
	if len(words) < 2 {
		return []Cue{cue}
	}
	maxParts := len(words)
	for parts := 2; parts <= maxParts; parts++ {
		candidate := splitAtBoundaries(cue, words, parts, limits)
		if candidate != nil && partsCompliant(candidate, limits) {
			return candidate
		}
	}
	// No compliant partition exists; fall back to the most even word split.
	fallback := splitAtBoundaries(cue, words, min(maxParts, 2), limits)
	if fallback == nil {
		return []Cue{cue}
	}
	return fallback
}

func partsCompliant(parts []Cue, limits Limits) bool {
	for _, part := range parts {
		if part.Duration() > limits.MaxCueSeconds+limits.ToleranceSeconds {
			return false
		}
		if part.CPS() > limits.CPSMax {
			return false
		}
		if !LinesFit(part.Text, limits.MaxLines, limits.MaxCharsPerLine) {
			return false
		}
	}
	return true
}

// splitAtBoundaries partitions the words into the requested part count,
// nudging each cut toward the nearest punctuation or soft-break boundary.
// Time is reallocated proportionally to each part's glyph weight.
func splitAtBoundaries(cue Cue, words []string, parts int, limits Limits) []Cue {
	if parts > len(words) {
		parts = len(words)
	}
	if parts < 2 {
		return nil
	}
	cuts := make([]int, 0, parts-1)
	for i := 1; i < parts; i++ {
		ideal := i * len(words) / parts
		cuts = append(cuts, bestCutNear(words, ideal, len(words)/(parts*2)))
	}
	chunks := make([]string, 0, parts)
	prev := 0
	for _, cut := range cuts {
		if cut <= prev || cut >= len(words) {
			continue
		}
		chunks = append(chunks, strings.Join(words[prev:cut], " "))
		prev = cut
	}
	chunks = append(chunks, strings.Join(words[prev:], " "))

	// A trailing single-word chunk folds into the prior chunk.
	if n := len(chunks); n > 1 && len(strings.Fields(chunks[n-1])) == 1 {
		chunks[n-2] = chunks[n-2] + " " + chunks[n-1]
		chunks = chunks[:n-1]
	}
	if len(chunks) < 2 {
		return nil
	}
	return allocateProportional(chunks, cue.Start, cue.Duration())
}

// bestCutNear searches a window around the ideal index for the strongest
// break, avoiding forbidden splits. Falls back to the ideal index.
func bestCutNear(words []string, ideal, radius int) int {
	if radius < 1 {
		radius = 1
	}
	best := ideal
	bestScore := -1
	for offset := 0; offset <= radius; offset++ {
		for _, cut := range []int{ideal - offset, ideal + offset} {
			if cut < 1 || cut >= len(words) {
				continue
			}
			if isForbiddenSplit(words[cut-1], words[cut]) {
				continue
			}
			score := breakStrength(words[cut-1])*10 + (radius - offset)
			if score > bestScore {
				bestScore = score
				best = cut
			}
		}
	}
	return best
}

// mergeOrStretchShort merges each under-length cue into a neighbor when the
// merged duration stays under the hard cap, otherwise stretches its window
// into the adjacent gap.
func mergeOrStretchShort(cues []Cue, limits Limits, changed bool) ([]Cue, bool) {
	out := make([]Cue, 0, len(cues))
	for i := 0; i < len(cues); i++ {
		cue := cues[i]
		if cue.Duration() >= limits.MinCueSeconds-limits.ToleranceSeconds {
			out = append(out, cue)
			continue
		}
		// Prefer merging backward into the already-emitted neighbor.
		if len(out) > 0 {
			prev := out[len(out)-1]
			if cue.End-prev.Start <= limits.MaxCueSeconds {
				out[len(out)-1] = combine(prev, cue)
				changed = true
				continue
			}
		}
		if i+1 < len(cues) {
			next := cues[i+1]
			if next.End-cue.Start <= limits.MaxCueSeconds {
				cues[i+1] = combine(cue, next)
				changed = true
				continue
			}
			// Stretch into the gap before the next cue.
			room := next.Start - limits.CueGapSeconds
			if room > cue.End {
				stretched := cue
				stretched.End = math.Min(room, cue.Start+limits.MinCueSeconds)
				if stretched.End > cue.End+limits.ToleranceSeconds {
					changed = true
				}
				out = append(out, stretched)
				continue
			}
		}
		out = append(out, cue)
	}
	return out, changed
}

// compressOverSpeed removes fillers, then stop words, from cues reading
// faster than the target.
func compressOverSpeed(cues []Cue, limits Limits, changed bool) ([]Cue, bool) {
	for i, cue := range cues {
		if cue.CPS() <= limits.CPSTarget {
			continue
		}
		compressed := compressText(cue.Text)
		if compressed != "" && compressed != cue.Text {
			cues[i].Text = compressed
			changed = true
			if cues[i].CPS() <= limits.CPSTarget {
				continue
			}
		}
		trimmed := aggressiveTrim(cues[i].Text)
		if trimmed != "" && trimmed != cues[i].Text {
			cues[i].Text = trimmed
			changed = true
		}
	}
	return cues, changed
}

// splitOverSpeed splits remaining over-speed cues into time-proportional
// parts.
func splitOverSpeed(cues []Cue, limits Limits, changed bool) ([]Cue, bool) {
	out := make([]Cue, 0, len(cues))
	for _, cue := range cues {
		if cue.CPS() <= limits.CPSMax || len(strings.Fields(cue.Text)) < 2 {
			out = append(out, cue)
			continue
		}
		parts := splitCue(cue, limits)
		if len(parts) > 1 {
			changed = true
		}
		out = append(out, parts...)
	}
	return out, changed
}

// truncateUnwrappable is the deterministic last resort once the pass budget
// is spent: text that still cannot wrap is cut to the display capacity with
// an ellipsis.
func truncateUnwrappable(cues []Cue, limits Limits) []Cue {
	capacity := limits.MaxLines*limits.MaxCharsPerLine - 3
	for i, cue := range cues {
		if LinesFit(cue.Text, limits.MaxLines, limits.MaxCharsPerLine) {
			continue
		}
		if len(strings.Fields(cue.Text)) > 1 {
			continue
		}
		if countGlyphs(cue.Text) > capacity && capacity > 0 {
			runes := []rune(cue.Text)
			cues[i].Text = string(runes[:capacity]) + "..."
		}
	}
	return cues
}

// snapCoverage aligns the sequence with the audio window: the first cue
// starts at zero when the lead-in gap is small, the last cue meets the probed
// duration, interior boundaries stay ordered, and every timestamp lands on
// the frame grid.
func snapCoverage(cues []Cue, limits Limits, audioDuration float64) []Cue {
	if len(cues) == 0 {
		return cues
	}
	if cues[0].Start > 0 && cues[0].Start <= limits.CoverageSlackSeconds {
		cues[0].Start = 0
	}
	if cues[0].Start < 0 {
		cues[0].Start = 0
	}
	if audioDuration > 0 {
		// Transcripts can overrun the track. Fold cues that start past the
		// end of audio into the last in-window cue rather than dropping
		// their text, then clamp to the audio window.
		keep := len(cues)
		for keep > 1 && cues[keep-1].Start >= audioDuration {
			keep--
		}
		for _, overflow := range cues[keep:] {
			cues[keep-1] = combine(cues[keep-1], Cue{End: audioDuration, Text: overflow.Text})
		}
		cues = cues[:keep]

		last := len(cues) - 1
		for i := range cues {
			if cues[i].Start > audioDuration {
				// A lone cue entirely past the end of audio keeps a short
				// window at the tail instead of swallowing the whole track.
				start := audioDuration - limits.MinCueSeconds
				if start < 0 {
					start = 0
				}
				cues[i].Start = start
			}
			if cues[i].End > audioDuration {
				cues[i].End = audioDuration
			}
		}
		gap := audioDuration - cues[last].End
		if gap > 0 && gap <= limits.CoverageSlackSeconds &&
			audioDuration-cues[last].Start <= limits.MaxCueSeconds {
			cues[last].End = audioDuration
		}
	}
	for i := range cues {
		cues[i].Start = limits.SnapToFrame(cues[i].Start)
		cues[i].End = limits.SnapToFrame(cues[i].End)
		if cues[i].End <= cues[i].Start {
			cues[i].End = cues[i].Start + 1/float64(limits.FrameRate)
		}
		if i > 0 && cues[i].Start < cues[i-1].End {
			cues[i].Start = cues[i-1].End
			if cues[i].End <= cues[i].Start {
				cues[i].End = cues[i].Start + 1/float64(limits.FrameRate)
			}
		}
	}
	return cues
}
