package captions

import (
	"testing"

	"techsprint/internal/captions/layout"
	"techsprint/internal/render"
)

func testBox(t *testing.T) layout.Box {
	t.Helper()
	geom, err := render.Lookup("tiktok")
	if err != nil {
		t.Fatalf("lookup tiktok geometry: %v", err)
	}
	limits := DefaultLimits()
	return layout.Compute(geom, limits.MaxLines, limits.MaxCharsPerLine)
}
