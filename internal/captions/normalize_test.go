package captions

import "testing"

func TestNormalizeStripsNonSpeech(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"(upbeat music) Hello world.", "Hello world."},
		{"[applause] Stay tuned!", "Stay tuned!"},
		{"Anchor: The markets closed higher.", "The markets closed higher."},
		{"Narrator - A new chapter begins.", "A new chapter begins."},
		{"Too   many    spaces .", "Too many spaces."},
		{"Wait ..... what", "Wait... what"},
		{"", ""},
		{"(music)", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeAppliesCanonicalForms(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"the hostel bid failed", "the hostile bid failed"},
		{"warner brothers announced earnings", "Warner Bros. Discovery announced earnings"},
		{"send it to g mail", "send it to Gmail"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestQCTextPredicates(t *testing.T) {
	if !HasMetadataTokens("SFX: door slams") {
		t.Fatal("metadata label not detected")
	}
	if HasMetadataTokens("The markets closed higher") {
		t.Fatal("false positive metadata label")
	}
	if !IsBracketOnly("[applause]") {
		t.Fatal("bracket-only line not detected")
	}
	if IsBracketOnly("Hello [pause] world") {
		t.Fatal("mixed line misclassified as bracket-only")
	}
	if !HasBadSpacing("strange  gap") {
		t.Fatal("double space not detected")
	}
	if !HasBadSpacing("orphaned space .") {
		t.Fatal("space before punctuation not detected")
	}
	if HasBadSpacing("Clean text.") {
		t.Fatal("false positive spacing")
	}
	if !ContainsBadForm("the hostel bid failed") {
		t.Fatal("known bad form not detected")
	}
	if ContainsBadForm("the hostile bid failed") {
		t.Fatal("false positive bad form")
	}
}

func TestNormalizeEllipses(t *testing.T) {
	if got := NormalizeEllipses("Wait..... what....."); got != "Wait... what..." {
		t.Fatalf("got %q", got)
	}
}
