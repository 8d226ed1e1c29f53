// Package render defines the target-platform geometry a caption run is laid
// out against: frame size, frame rate, and the safe-area insets text must
// stay inside.
package render

import (
	"fmt"
	"strings"
)

// Geometry describes the render target for a caption run. Values are
// immutable for the duration of the run.
type Geometry struct {
	Name              string
	Width             int
	Height            int
	FPS               int
	SafeAreaTopPct    float64
	SafeAreaBottomPct float64
	SafeAreaLeftPct   float64
	SafeAreaRightPct  float64
	FontHint          string
	OutlinePx         int
	ShadowPx          int
	MaxCharsPerLine   int
}

// Presets for the supported vertical-video platforms.
var (
	TikTok = Geometry{
		Name:              "tiktok",
		Width:             1080,
		Height:            1920,
		FPS:               30,
		SafeAreaTopPct:    0.12,
		SafeAreaBottomPct: 0.18,
		SafeAreaLeftPct:   0.08,
		SafeAreaRightPct:  0.08,
		FontHint:          "Proxima Nova",
		OutlinePx:         3,
		ShadowPx:          2,
		MaxCharsPerLine:   36,
	}

	Reels = Geometry{
		Name:              "reels",
		Width:             1080,
		Height:            1920,
		FPS:               30,
		SafeAreaTopPct:    0.10,
		SafeAreaBottomPct: 0.15,
		SafeAreaLeftPct:   0.08,
		SafeAreaRightPct:  0.08,
		FontHint:          "Helvetica Neue",
		OutlinePx:         2,
		ShadowPx:          2,
		MaxCharsPerLine:   40,
	}

	Shorts = Geometry{
		Name:              "shorts",
		Width:             1080,
		Height:            1920,
		FPS:               30,
		SafeAreaTopPct:    0.08,
		SafeAreaBottomPct: 0.12,
		SafeAreaLeftPct:   0.08,
		SafeAreaRightPct:  0.08,
		FontHint:          "Roboto",
		OutlinePx:         2,
		ShadowPx:          1,
		MaxCharsPerLine:   42,
	}
)

// Lookup resolves a profile name to its geometry. Matching is
// case-insensitive and accepts the youtube_shorts alias.
func Lookup(name string) (Geometry, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "tiktok":
		return TikTok, nil
	case "reels":
		return Reels, nil
	case "shorts", "youtube_shorts":
		return Shorts, nil
	default:
		return Geometry{}, fmt.Errorf("unknown render profile %q", name)
	}
}

// Names lists the supported profile names in display order.
func Names() []string {
	return []string{"tiktok", "reels", "shorts"}
}
