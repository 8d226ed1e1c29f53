package layout

import (
	"testing"

	"techsprint/internal/render"
)

func TestComputeFitsAllProfiles(t *testing.T) {
	for _, name := range render.Names() {
		geom, err := render.Lookup(name)
		if err != nil {
			t.Fatalf("lookup %s: %v", name, err)
		}
		box := Compute(geom, 2, geom.MaxCharsPerLine)
		if box.FontSize < 12 {
			t.Fatalf("%s: font size %d too small", name, box.FontSize)
		}
		if !box.Fits() {
			t.Fatalf("%s: worst-case block %+v does not fit safe area", name, box.BBox())
		}
		if box.MarginBottom <= 0 {
			t.Fatalf("%s: expected positive bottom margin", name)
		}
	}
}

func TestComputeRespectsInsetOverNarrowMargins(t *testing.T) {
	geom := render.Geometry{
		Name: "loose", Width: 1080, Height: 1920, FPS: 30,
		SafeAreaLeftPct: 0.02, SafeAreaRightPct: 0.02,
		SafeAreaTopPct: 0.02, SafeAreaBottomPct: 0.02,
	}
	box := Compute(geom, 2, 42)
	if !box.Fits() {
		t.Fatalf("expected inset-constrained block to fit, got %+v", box.BBox())
	}
	bbox := box.BBox()
	if bbox.X < 108 {
		t.Fatalf("expected x >= 10%% inset, got %d", bbox.X)
	}
}

func TestFitsFailsForDegenerateFrame(t *testing.T) {
	geom := render.Geometry{Name: "tiny", Width: 320, Height: 240, FPS: 30}
	box := Compute(geom, 2, 42)
	if box.Fits() {
		t.Fatal("expected tiny frame to fail the fit check")
	}
}

func TestBBoxAnchorsAboveBottomMargin(t *testing.T) {
	geom, _ := render.Lookup("tiktok")
	box := Compute(geom, 2, geom.MaxCharsPerLine)
	bbox := box.BBox()
	if bbox.Y+bbox.Height != geom.Height-box.MarginBottom {
		t.Fatalf("expected block anchored to bottom margin, got y=%d h=%d margin=%d", bbox.Y, bbox.Height, box.MarginBottom)
	}
}
