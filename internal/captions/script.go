package captions

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

var sentenceSplitRe = regexp.MustCompile(`(?s)(.*?[.!?]+)(?:\s+|$)`)

// BuildFromScript turns a normalized script into timed cues when no
// timestamps are available. Text splits on sentence boundaries first, falling
// back to fixed-size word chunks, and time is allocated in proportion to each
// chunk's glyph weight across the known duration.
func BuildFromScript(text string, duration float64, limits Limits) ([]Cue, error) {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return nil, fmt.Errorf("build cues: empty script text")
	}
	if duration <= 0 {
		return nil, fmt.Errorf("build cues: non-positive duration %.3f", duration)
	}

	chunks := splitSentences(cleaned)
	if len(chunks) <= 1 {
		chunks = chunkWords(cleaned, limits.MaxWordsPerCue)
	}

	// Raise the chunk count until no slot can exceed the hard duration cap.
	// A script with fewer words than required slots caps out at one word per
	// cue; the enforcer deals with the leftover duration.
	minParts := int(math.Ceil(duration / limits.MaxCueSeconds))
	for len(chunks) < minParts {
		rechunked := rechunk(chunks, len(chunks)+1)
		if len(rechunked) <= len(chunks) {
			break
		}
		chunks = rechunked
	}

	// Re-split chunks that blow the word cap.
	expanded := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		expanded = append(expanded, splitByWordCap(chunk, limits.MaxWordsPerCue)...)
	}
	chunks = expanded

	return allocateProportional(chunks, 0, duration), nil
}

// splitSentences cuts on terminal punctuation, keeping the punctuation with
// its sentence. Trailing text without terminal punctuation becomes a final
// chunk.
func splitSentences(text string) []string {
	var out []string
	consumed := 0
	for _, match := range sentenceSplitRe.FindAllStringSubmatchIndex(text, -1) {
		sentence := strings.TrimSpace(text[match[2]:match[3]])
		if sentence != "" {
			out = append(out, sentence)
		}
		consumed = match[1]
	}
	if tail := strings.TrimSpace(text[consumed:]); tail != "" {
		out = append(out, tail)
	}
	if len(out) == 0 {
		out = append(out, strings.TrimSpace(text))
	}
	return out
}

// chunkWords splits text into near-equal word groups of at most maxWords each.
func chunkWords(text string, maxWords int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if maxWords < 1 {
		maxWords = 1
	}
	parts := (len(words) + maxWords - 1) / maxWords
	return partitionWords(words, parts)
}

// rechunk redistributes the joined text of chunks into the requested number
// of near-equal word groups.
func rechunk(chunks []string, parts int) []string {
	words := strings.Fields(strings.Join(chunks, " "))
	if parts > len(words) {
		parts = len(words)
	}
	if parts < 1 {
		parts = 1
	}
	return partitionWords(words, parts)
}

func partitionWords(words []string, parts int) []string {
	out := make([]string, 0, parts)
	for i := 0; i < parts; i++ {
		lo := i * len(words) / parts
		hi := (i + 1) * len(words) / parts
		if hi > lo {
			out = append(out, strings.Join(words[lo:hi], " "))
		}
	}
	return out
}

// splitByWordCap recursively halves a chunk until every piece respects the
// word cap.
func splitByWordCap(chunk string, maxWords int) []string {
	words := strings.Fields(chunk)
	if len(words) <= maxWords {
		return []string{chunk}
	}
	mid := len(words) / 2
	left := strings.Join(words[:mid], " ")
	right := strings.Join(words[mid:], " ")
	return append(splitByWordCap(left, maxWords), splitByWordCap(right, maxWords)...)
}

// allocateProportional spreads [start, start+total] across chunks weighted by
// glyph count, so denser chunks get more screen time.
func allocateProportional(chunks []string, start, total float64) []Cue {
	weightSum := 0
	for _, chunk := range chunks {
		weightSum += countGlyphs(chunk) + 1
	}
	cues := make([]Cue, 0, len(chunks))
	cursor := start
	for i, chunk := range chunks {
		weight := float64(countGlyphs(chunk)+1) / float64(weightSum)
		end := cursor + total*weight
		if i == len(chunks)-1 {
			end = start + total
		}
		cues = append(cues, Cue{Start: cursor, End: end, Text: chunk})
		cursor = end
	}
	return cues
}
