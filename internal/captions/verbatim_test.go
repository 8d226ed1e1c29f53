package captions

import (
	"errors"
	"strings"
	"testing"

	"techsprint/internal/services"
)

func TestCheckVerbatimPassesOnExactSplit(t *testing.T) {
	source := "Hello world. Stay tuned for more updates!"
	cues := []Cue{
		{Start: 0, End: 2, Text: "Hello world."},
		{Start: 2, End: 6, Text: "Stay tuned for more updates!"},
	}
	if err := CheckVerbatim(source, cues); err != nil {
		t.Fatalf("expected pass, got %v", err)
	}
}

func TestCheckVerbatimIgnoresCaseAndPunctuation(t *testing.T) {
	source := "Hello world, stay tuned."
	cues := []Cue{{Start: 0, End: 3, Text: "hello world stay tuned"}}
	if err := CheckVerbatim(source, cues); err != nil {
		t.Fatalf("case and punctuation must not matter: %v", err)
	}
}

func TestCheckVerbatimReportsFirstMismatchIndex(t *testing.T) {
	source := "The markets closed higher today"
	cues := []Cue{{Start: 0, End: 3, Text: "The markets closed lower today"}}
	err := CheckVerbatim(source, cues)
	if err == nil {
		t.Fatal("expected a verbatim error")
	}
	if !errors.Is(err, services.ErrVerbatim) {
		t.Fatalf("expected ErrVerbatim, got %v", err)
	}
	if !strings.Contains(err.Error(), "token 3") {
		t.Fatalf("error should name the first mismatching token index: %v", err)
	}
}

func TestCheckVerbatimDetectsDroppedWords(t *testing.T) {
	source := "The markets closed higher today"
	cues := []Cue{{Start: 0, End: 3, Text: "The markets closed"}}
	err := CheckVerbatim(source, cues)
	if !errors.Is(err, services.ErrVerbatim) {
		t.Fatalf("expected ErrVerbatim for dropped words, got %v", err)
	}
}

func TestVerbatimTokensStripNonSpeech(t *testing.T) {
	tokens := VerbatimTokens("(music) Anchor: The markets closed higher.")
	want := []string{"the", "markets", "closed", "higher"}
	if len(tokens) != len(want) {
		t.Fatalf("got tokens %v, want %v", tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("token %d = %q, want %q", i, tokens[i], want[i])
		}
	}
}
