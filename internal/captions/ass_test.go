package captions

import (
	"strings"
	"testing"

	"techsprint/internal/captions/layout"
	"techsprint/internal/render"
)

func TestMarshalASSStructure(t *testing.T) {
	geom, err := render.Lookup("tiktok")
	if err != nil {
		t.Fatalf("lookup geometry: %v", err)
	}
	limits := DefaultLimits().ForGeometry(geom)
	box := layout.Compute(geom, limits.MaxLines, limits.MaxCharsPerLine)
	cues := []Cue{{Start: 1.25, End: 3.5, Text: "Hello from the newsroom."}}

	doc := MarshalASS(cues, geom, box, limits)
	for _, want := range []string{
		"[Script Info]",
		"PlayResX: 1080",
		"PlayResY: 1920",
		"[V4+ Styles]",
		"Style: Caption,Proxima Nova,",
		"[Events]",
		"Dialogue: 0,0:00:01.25,0:00:03.50,Caption",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("ASS output missing %q:\n%s", want, doc)
		}
	}
}

func TestMarshalASSEscapesMetacharacters(t *testing.T) {
	geom, err := render.Lookup("shorts")
	if err != nil {
		t.Fatalf("lookup geometry: %v", err)
	}
	limits := DefaultLimits().ForGeometry(geom)
	box := layout.Compute(geom, limits.MaxLines, limits.MaxCharsPerLine)
	cues := []Cue{{Start: 0, End: 2, Text: `braces {and} a back\slash`}}

	doc := MarshalASS(cues, geom, box, limits)
	if !strings.Contains(doc, `\{and\}`) {
		t.Fatalf("braces not escaped:\n%s", doc)
	}
	if !strings.Contains(doc, `back\\slash`) {
		t.Fatalf("backslash not escaped:\n%s", doc)
	}
}

func TestMarshalASSUsesLineBreakEscape(t *testing.T) {
	geom, err := render.Lookup("reels")
	if err != nil {
		t.Fatalf("lookup geometry: %v", err)
	}
	limits := DefaultLimits().ForGeometry(geom)
	limits.MaxCharsPerLine = 20
	box := layout.Compute(geom, limits.MaxLines, limits.MaxCharsPerLine)
	cues := []Cue{{Start: 0, End: 4, Text: "A line that is too wide for one row"}}

	doc := MarshalASS(cues, geom, box, limits)
	if !strings.Contains(doc, `\N`) {
		t.Fatalf("wrapped dialogue should use \\N line breaks:\n%s", doc)
	}
}
