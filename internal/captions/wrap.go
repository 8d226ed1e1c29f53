package captions

import "strings"

// WrapLines splits cue text into at most maxLines display lines of at most
// maxChars glyphs each. Single-line text that fits stays on one line. Two-line
// splits prefer balanced halves and penalize one- and two-word lines as well
// as boundaries that strand an article, preposition, or paired name across
// the break.
func WrapLines(text string, maxLines, maxChars int) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if lineWidth(trimmed) <= maxChars || maxLines < 2 {
		return []string{trimmed}
	}
	words := strings.Fields(trimmed)
	if len(words) < 2 {
		return []string{trimmed}
	}

	bestScore := -1
	var best []string
	for split := 1; split < len(words); split++ {
		top := strings.Join(words[:split], " ")
		bottom := strings.Join(words[split:], " ")
		score := splitScore(top, bottom, words[split-1], words[split], maxChars)
		if score < 0 {
			continue
		}
		if bestScore < 0 || score < bestScore {
			bestScore = score
			best = []string{top, bottom}
		}
	}
	if best == nil {
		// Nothing fits cleanly; take the most balanced split and let the
		// layout check flag the overflow.
		mid := len(words) / 2
		if mid == 0 {
			mid = 1
		}
		best = []string{
			strings.Join(words[:mid], " "),
			strings.Join(words[mid:], " "),
		}
	}
	return best
}

// splitScore ranks a candidate two-line split. Lower is better; negative
// means an overflowing line.
func splitScore(top, bottom, lastTop, firstBottom string, maxChars int) int {
	topLen := lineWidth(top)
	bottomLen := lineWidth(bottom)
	if topLen > maxChars || bottomLen > maxChars {
		return -1
	}
	score := abs(topLen - bottomLen)
	if len(strings.Fields(top)) <= 2 || len(strings.Fields(bottom)) <= 2 {
		score += 10
	}
	if isForbiddenToken(lastTop) {
		score += 20
	}
	if isForbiddenToken(firstBottom) {
		score += 10
	}
	if isTitleCase(lastTop) && isTitleCase(firstBottom) {
		score += 15
	}
	if strings.HasSuffix(strings.TrimSpace(top), ",") {
		score -= 3
	}
	if score < 0 {
		score = 0
	}
	return score
}

// LinesFit reports whether text wraps within the line and glyph budget.
func LinesFit(text string, maxLines, maxChars int) bool {
	lines := WrapLines(text, maxLines, maxChars)
	if len(lines) > maxLines {
		return false
	}
	for _, line := range lines {
		if lineWidth(line) > maxChars {
			return false
		}
	}
	return true
}

// LongestLine returns the glyph count of the widest wrapped line.
func LongestLine(text string, maxLines, maxChars int) int {
	longest := 0
	for _, line := range WrapLines(text, maxLines, maxChars) {
		if n := lineWidth(line); n > longest {
			longest = n
		}
	}
	return longest
}

// lineWidth is the display width of a line in characters, spaces included.
// Reading speed counts glyphs only, but the wrap budget is about pixels.
func lineWidth(line string) int {
	return len([]rune(line))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
