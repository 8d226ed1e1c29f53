package captions

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"techsprint/internal/captions/layout"
)

var upperCaser = cases.Upper(language.English)

// RepairIntegrity is the post-pass enforcing sentence-level well-formedness
// over the constrained sequence. Cues ending on a dangling conjunction,
// trailing comma, or verbless short fragment merge into a neighbor, leading
// continuation fragments move backward, immediately repeated words and tail
// phrases are deduplicated, sentence case and terminal punctuation are
// restored. Merges can re-violate the duration and speed limits, so the
// contract enforcer runs again before returning. Under verbatim only the
// merge operations apply. The returned notes describe every repair for the
// artifact record.
func RepairIntegrity(cues []Cue, limits Limits, box layout.Box, audioDuration float64, verbatim bool) ([]Cue, []string) {
	out := cloneCues(cues)
	var notes []string

	out, notes = mergeDanglingTails(out, limits, notes)
	out, notes = pullContinuations(out, limits, notes)
	if !verbatim {
		out, notes = dedupeRepeats(out, notes)
		out, notes = restoreSentenceForm(out, notes)
	}

	out = EnforceContract(out, limits, box, audioDuration, verbatim)
	return out, notes
}

// mergeDanglingTails merges forward every cue that ends mid-thought: a
// dangling conjunction or preposition, a trailing comma, or a sub-four-word
// fragment with no finite verb.
func mergeDanglingTails(cues []Cue, limits Limits, notes []string) ([]Cue, []string) {
	out := make([]Cue, 0, len(cues))
	for i := 0; i < len(cues); i++ {
		cue := cues[i]
		reason := danglingReason(cue)
		if reason == "" || i+1 >= len(cues) {
			out = append(out, cue)
			continue
		}
		next := cues[i+1]
		if next.End-cue.Start > limits.MaxCueSeconds {
			out = append(out, cue)
			continue
		}
		cues[i+1] = combine(cue, next)
		notes = append(notes, fmt.Sprintf("merged cue %d forward: %s", i+1, reason))
	}
	return out, notes
}

func danglingReason(cue Cue) string {
	words := strings.Fields(cue.Text)
	if len(words) == 0 {
		return ""
	}
	last := words[len(words)-1]
	if strings.HasSuffix(last, ",") {
		return "trailing comma"
	}
	if isForbiddenToken(last) {
		return "dangling conjunction or preposition"
	}
	if len(words) < 4 && !hasFiniteVerb(cue.Text) && !endsSentence(cue.Text) {
		return "fragment without a finite verb"
	}
	return ""
}

// pullContinuations moves a leading continuation fragment ("while ...",
// "though ...") into the preceding cue when that cue has not already closed
// its sentence.
func pullContinuations(cues []Cue, limits Limits, notes []string) ([]Cue, []string) {
	out := make([]Cue, 0, len(cues))
	for i := 0; i < len(cues); i++ {
		cue := cues[i]
		if len(out) == 0 {
			out = append(out, cue)
			continue
		}
		first := firstWord(cue.Text)
		prev := out[len(out)-1]
		startsLower := first != "" && unicode.IsLower(rune(first[0]))
		if (isContinuationWord(first) || startsLower) && !endsSentence(prev.Text) &&
			cue.End-prev.Start <= limits.MaxCueSeconds {
			out[len(out)-1] = combine(prev, cue)
			notes = append(notes, fmt.Sprintf("pulled continuation into cue %d", len(out)))
			continue
		}
		out = append(out, cue)
	}
	return out, notes
}

// dedupeRepeats removes immediately repeated words inside a cue and a tail
// phrase repeated verbatim at the head of the next cue, both common speech
// recognition stutters.
func dedupeRepeats(cues []Cue, notes []string) ([]Cue, []string) {
	for i := range cues {
		deduped := dedupeWords(cues[i].Text)
		if deduped != cues[i].Text {
			cues[i].Text = deduped
			notes = append(notes, fmt.Sprintf("deduplicated repeated words in cue %d", i+1))
		}
	}
	for i := 1; i < len(cues); i++ {
		trimmed, n := stripRepeatedHead(cues[i-1].Text, cues[i].Text)
		if n > 0 {
			cues[i].Text = trimmed
			notes = append(notes, fmt.Sprintf("removed %d-word repeated head from cue %d", n, i+1))
		}
	}
	return cues, notes
}

func dedupeWords(text string) string {
	words := strings.Fields(text)
	out := words[:0]
	for _, word := range words {
		if len(out) > 0 && stripToken(out[len(out)-1]) == stripToken(word) && stripToken(word) != "" {
			continue
		}
		out = append(out, word)
	}
	return strings.Join(out, " ")
}

// stripRepeatedHead drops the longest head of next that repeats the tail of
// prev, comparing up to four words.
func stripRepeatedHead(prev, next string) (string, int) {
	prevWords := strings.Fields(prev)
	nextWords := strings.Fields(next)
	for n := 4; n >= 1; n-- {
		if n > len(prevWords) || n >= len(nextWords) {
			continue
		}
		match := true
		for i := 0; i < n; i++ {
			if stripToken(prevWords[len(prevWords)-n+i]) != stripToken(nextWords[i]) {
				match = false
				break
			}
		}
		if match {
			return strings.Join(nextWords[n:], " "), n
		}
	}
	return next, 0
}

// restoreSentenceForm applies sentence case after terminal punctuation and
// guarantees the sequence ends a sentence.
func restoreSentenceForm(cues []Cue, notes []string) ([]Cue, []string) {
	startOfSentence := true
	for i := range cues {
		fixed, nowStart := sentenceCase(cues[i].Text, startOfSentence)
		if fixed != cues[i].Text {
			cues[i].Text = fixed
			notes = append(notes, fmt.Sprintf("restored sentence case in cue %d", i+1))
		}
		startOfSentence = nowStart
	}
	if n := len(cues); n > 0 && !endsSentence(cues[n-1].Text) {
		cues[n-1].Text = strings.TrimRight(cues[n-1].Text, ",;:") + "."
		notes = append(notes, "added terminal punctuation to final cue")
	}
	return cues, notes
}

// sentenceCase uppercases the first letter of every sentence in text. The
// second return value reports whether the next cue starts a fresh sentence.
func sentenceCase(text string, startOfSentence bool) (string, bool) {
	words := strings.Fields(text)
	for i, word := range words {
		if startOfSentence {
			words[i] = upperFirst(word)
		}
		startOfSentence = breakStrength(word) >= 3
	}
	return strings.Join(words, " "), startOfSentence
}

func upperFirst(word string) string {
	runes := []rune(word)
	if len(runes) == 0 || !unicode.IsLower(runes[0]) {
		return word
	}
	return upperCaser.String(string(runes[0])) + string(runes[1:])
}

func endsSentence(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	switch trimmed[len(trimmed)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

func firstWord(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
