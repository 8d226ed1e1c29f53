package captions

// Exported predicates for the QC validator; they mirror the checks the
// enforcer and integrity passes apply so both sides agree on what counts as
// a violation.

// IsForbiddenEdge reports whether a word may not start or end a cue or
// display line.
func IsForbiddenEdge(word string) bool { return isForbiddenToken(word) }

// HasVerb reports whether text plausibly contains a finite verb.
func HasVerb(text string) bool { return hasFiniteVerb(text) }

// EndsSentence reports whether text closes with terminal punctuation.
func EndsSentence(text string) bool { return endsSentence(text) }

// SentenceCased reports whether text already satisfies sentence case.
func SentenceCased(text string) bool {
	fixed, _ := sentenceCase(text, true)
	return fixed == text
}
