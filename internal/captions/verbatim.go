package captions

import (
	"fmt"
	"strings"
	"unicode"

	"techsprint/internal/services"
)

// VerbatimTokens normalizes text for fidelity comparison: case-folded words
// with surrounding punctuation stripped, non-speech tokens removed.
func VerbatimTokens(text string) []string {
	var tokens []string
	for _, field := range strings.Fields(Normalize(text)) {
		token := foldToken(field)
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func foldToken(field string) string {
	trimmed := strings.TrimFunc(field, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
	return strings.ToLower(trimmed)
}

// CheckVerbatim verifies that the cue texts, concatenated in order, carry
// exactly the source tokens. Any dropped, inserted, or reordered word fails
// with the first mismatching token index.
func CheckVerbatim(source string, cues []Cue) error {
	want := VerbatimTokens(source)
	var got []string
	for _, cue := range cues {
		got = append(got, VerbatimTokens(cue.Text)...)
	}
	limit := len(want)
	if len(got) < limit {
		limit = len(got)
	}
	for i := 0; i < limit; i++ {
		if want[i] != got[i] {
			return services.Wrap(services.ErrVerbatim, "captions", "verbatim check",
				fmt.Sprintf("caption text diverges from source at token %d: want %q, got %q",
					i, want[i], got[i]), nil)
		}
	}
	if len(got) != len(want) {
		return services.Wrap(services.ErrVerbatim, "captions", "verbatim check",
			fmt.Sprintf("caption text diverges from source at token %d: source has %d tokens, captions have %d",
				limit, len(want), len(got)), nil)
	}
	return nil
}
