package services_test

import (
	"errors"
	"strings"
	"testing"

	"techsprint/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "captions", "probe audio", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"captions", "probe audio", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestExitCodeMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"configuration", services.Wrap(services.ErrConfiguration, "captions", "mode", "unknown", nil), 2},
		{"dependency", services.Wrap(services.ErrDependency, "captions", "transcribe", "missing", nil), 2},
		{"integrity", services.Wrap(services.ErrIntegrity, "captions", "digest", "mismatch", nil), 2},
		{"verbatim", services.Wrap(services.ErrVerbatim, "captions", "guard", "token drift", nil), 3},
		{"qc", services.Wrap(services.ErrQC, "qc", "strict", "coverage", nil), 4},
		{"other", errors.New("io"), 1},
	}
	for _, tc := range cases {
		if got := services.ExitCode(tc.err); got != tc.want {
			t.Fatalf("%s: expected exit code %d, got %d", tc.name, tc.want, got)
		}
	}
}
