package captions

import (
	"regexp"
	"strings"
)

// forbiddenTokens are words a cue or wrapped line must not end or begin on:
// articles, conjunctions, and short prepositions that leave the thought
// dangling across a cue boundary.
var forbiddenTokens = map[string]struct{}{
	"and": {}, "but": {}, "or": {}, "so": {}, "to": {}, "of": {},
	"for": {}, "from": {}, "with": {}, "in": {}, "on": {}, "at": {},
	"by": {}, "as": {}, "the": {}, "a": {}, "an": {},
}

// longPrepositions extend the forbidden-split set for word boundaries.
var longPrepositions = map[string]struct{}{
	"into": {}, "over": {}, "under": {}, "between": {}, "about": {},
	"after": {}, "before": {}, "without": {}, "within": {},
}

// pairedModifiers and pairedVerbs guard splits between a modifier or verb and
// its object ("new | phone", "launched | today").
var pairedModifiers = map[string]struct{}{
	"new": {}, "big": {}, "small": {}, "major": {}, "minor": {},
	"last": {}, "next": {}, "top": {}, "key": {},
}

var pairedVerbs = map[string]struct{}{
	"make": {}, "makes": {}, "made": {}, "get": {}, "gets": {}, "got": {},
	"build": {}, "built": {}, "launch": {}, "launched": {},
}

// unitWords follow a number; the pair must stay on one cue/line.
var unitWords = map[string]struct{}{
	"percent": {}, "%": {}, "seconds": {}, "minutes": {}, "hours": {},
	"days": {}, "weeks": {}, "months": {}, "years": {}, "users": {},
	"views": {}, "dollars": {}, "usd": {}, "gb": {}, "mb": {}, "kb": {},
	"hz": {}, "k": {}, "m": {}, "b": {},
}

// softBreakWords mark a weak clause boundary when they end a word.
var softBreakWords = map[string]struct{}{
	"and": {}, "but": {}, "so": {}, "because": {}, "however": {},
	"while": {}, "then": {}, "though": {},
}

// continuationWords starting a cue signal the previous sentence is still in
// flight; the integrity merger pulls them backward.
var continuationWords = map[string]struct{}{
	"while": {}, "though": {}, "although": {}, "because": {},
	"which": {}, "whereas": {},
}

// fillerPhrases are removed first when a cue reads too fast. Longest first so
// multi-word phrases match before their substrings.
var fillerPhrases = []string{
	"you know", "i mean", "kind of", "sort of",
	"actually", "basically", "literally", "really", "just", "like", "well",
}

// stopWords extend forbiddenTokens for the aggressive trim pass.
var stopWords = map[string]struct{}{
	"this": {}, "that": {}, "these": {}, "those": {}, "it": {}, "its": {},
	"they": {}, "them": {}, "their": {}, "there": {}, "here": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"being": {}, "we": {}, "you": {}, "i": {}, "me": {}, "my": {},
	"our": {}, "your": {},
}

var numberRe = regexp.MustCompile(`^\d+(?:\.\d+)?$`)

// verbRe is a cheap finite-verb detector: common auxiliaries plus regular
// inflection suffixes. Good enough to catch verbless fragments.
var verbRe = regexp.MustCompile(`(?i)\b(is|are|was|were|be|been|being|am|has|have|had|do|does|did|will|would|can|could|should|may|might|must|says|said|gets?|got|makes?|made|goes|went|comes?|came|takes?|took|launch(es|ed)?|builds?|built|brings?|brought|shows?|showed|keeps?|kept|turns?|turned|calls?|called|starts?|started|ends?|ended|means?|meant|needs?|needed|wants?|wanted|uses?|used|works?|worked|looks?|looked|reports?|reported|announc(es|ed))\b|\b\w+(ing)\b`)

func stripToken(token string) string {
	return strings.ToLower(strings.Trim(token, ",;:.!?"))
}

func isForbiddenToken(token string) bool {
	_, ok := forbiddenTokens[stripToken(token)]
	return ok
}

// breakStrength scores how natural a cue split is immediately after the word:
// 3 sentence punctuation, 2 clause punctuation, 1 soft conjunction, 0 none.
func breakStrength(word string) int {
	trimmed := strings.TrimSpace(word)
	if trimmed == "" {
		return 0
	}
	switch trimmed[len(trimmed)-1] {
	case '.', '!', '?':
		return 3
	case ',', ';', ':':
		return 2
	}
	if _, ok := softBreakWords[strings.ToLower(trimmed)]; ok {
		return 1
	}
	return 0
}

// isForbiddenSplit reports whether breaking between prev and next would
// orphan a grammatical pair: trailing preposition or article, modifier or
// verb before its object, paired title-case tokens, or a number before its
// unit.
func isForbiddenSplit(prev, next string) bool {
	p := stripToken(prev)
	n := stripToken(next)
	if _, ok := forbiddenTokens[p]; ok {
		return true
	}
	if _, ok := longPrepositions[p]; ok {
		return true
	}
	if _, ok := pairedModifiers[p]; ok && isAlpha(n) {
		return true
	}
	if _, ok := pairedVerbs[p]; ok && isAlpha(n) {
		return true
	}
	if isTitleCase(prev) && isTitleCase(next) {
		return true
	}
	if numberRe.MatchString(p) {
		if _, ok := unitWords[n]; ok {
			return true
		}
	}
	return false
}

func isContinuationWord(word string) bool {
	_, ok := continuationWords[stripToken(word)]
	return ok
}

// hasFiniteVerb reports whether the text plausibly contains a finite verb.
func hasFiniteVerb(text string) bool {
	return verbRe.MatchString(text)
}

func isAlpha(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

func isTitleCase(token string) bool {
	trimmed := strings.Trim(token, ",;:.!?")
	if len(trimmed) < 2 {
		return false
	}
	first := rune(trimmed[0])
	if first < 'A' || first > 'Z' {
		return false
	}
	rest := trimmed[1:]
	return strings.ToLower(rest) == rest && isAlpha(rest)
}

// compressText removes filler phrases; the gentle first step when a cue's
// reading speed exceeds the target.
func compressText(text string) string {
	cleaned := text
	for _, phrase := range fillerPhrases {
		cleaned = removePhrase(cleaned, phrase)
	}
	cleaned = multiSpaceRe.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	return spacePunctRe.ReplaceAllString(cleaned, "$1")
}

func removePhrase(text, phrase string) string {
	words := strings.Fields(text)
	phraseWords := strings.Fields(phrase)
	if len(words) == 0 || len(phraseWords) == 0 {
		return text
	}
	out := make([]string, 0, len(words))
	for i := 0; i < len(words); {
		if matchesPhrase(words[i:], phraseWords) {
			// Keep trailing punctuation from the last removed word.
			last := words[i+len(phraseWords)-1]
			if tail := trailingPunct(last); tail != "" && len(out) > 0 {
				out[len(out)-1] = strings.TrimRight(out[len(out)-1], ",;:") + tail
			}
			i += len(phraseWords)
			continue
		}
		out = append(out, words[i])
		i++
	}
	return strings.Join(out, " ")
}

func matchesPhrase(words, phrase []string) bool {
	if len(words) < len(phrase) {
		return false
	}
	for i, want := range phrase {
		if stripToken(words[i]) != want {
			return false
		}
	}
	return true
}

func trailingPunct(word string) string {
	trimmed := strings.TrimRight(word, ",;:.!?")
	return word[len(trimmed):]
}

// aggressiveTrim drops stop words while keeping at least three words; the
// last resort before a CPS-driven split.
func aggressiveTrim(text string) string {
	words := strings.Fields(text)
	trimmed := make([]string, 0, len(words))
	for _, word := range words {
		key := stripToken(word)
		if _, ok := forbiddenTokens[key]; ok {
			continue
		}
		if _, ok := stopWords[key]; ok {
			continue
		}
		trimmed = append(trimmed, word)
	}
	if len(trimmed) < 3 {
		return strings.TrimSpace(text)
	}
	out := strings.Join(trimmed, " ")
	return spacePunctRe.ReplaceAllString(out, "$1")
}
