package textutil

import "testing"

func TestNormalizeSpace(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  hello   world ", "hello world"},
		{"one\ntwo\tthree", "one two three"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeSpace(tc.in); got != tc.want {
			t.Fatalf("NormalizeSpace(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSHA256TextStable(t *testing.T) {
	a := SHA256Text("narration text")
	b := SHA256Text("narration text")
	if a != b {
		t.Fatalf("expected identical digests, got %s and %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
	if SHA256Text("other") == a {
		t.Fatal("expected different digest for different text")
	}
}

func TestTokenOverlap(t *testing.T) {
	if got := TokenOverlap("hello world", "Hello, world!"); got != 1 {
		t.Fatalf("expected full overlap, got %f", got)
	}
	if got := TokenOverlap("alpha beta gamma delta", "alpha beta"); got != 0.5 {
		t.Fatalf("expected 0.5 overlap, got %f", got)
	}
	if got := TokenOverlap("", "anything"); got != 0 {
		t.Fatalf("expected 0 for empty side, got %f", got)
	}
}

func TestSanitizeFileName(t *testing.T) {
	if got := SanitizeFileName("run: briefing/evening*"); got != "run- briefing-evening-" {
		t.Fatalf("unexpected sanitized name %q", got)
	}
}
