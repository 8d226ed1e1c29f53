// Package layout models the subtitle text block geometry for a render
// target. It computes font metrics and margins such that the worst-case
// caption (max lines at max characters) stays inside the platform safe area,
// and exposes the fit check both the constraint enforcer and the QC
// validator rely on.
package layout

import (
	"math"

	"techsprint/internal/render"
)

// Safe-area inset used by the certification check. Platforms may reserve
// larger margins; the fit check always verifies against this inset.
const safeInsetPct = 0.10

// Approximate glyph advance as a fraction of the font size for the bold
// sans-serif faces the render profiles use.
const glyphAspect = 0.52

// Line height multiplier applied to the font size.
const lineSpacing = 1.25

// Box describes the computed subtitle bounding block for a render target.
type Box struct {
	WidthPx      int
	HeightPx     int
	MarginTop    int
	MarginBottom int
	MarginLeft   int
	MarginRight  int
	FontSize     int
	Outline      int
	Shadow       int
	MaxLines     int
	MaxChars     int

	frameWidth  int
	frameHeight int
}

// BBox is the worst-case text block placement inside the frame.
type BBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Compute derives the subtitle layout for a geometry and line limits. The
// font size is the largest that keeps maxChars glyphs inside the horizontal
// safe area and maxLines lines above the bottom margin.
func Compute(geom render.Geometry, maxLines, maxChars int) Box {
	if maxLines <= 0 {
		maxLines = 2
	}
	if maxChars <= 0 {
		maxChars = 42
	}

	marginTop := int(float64(geom.Height) * geom.SafeAreaTopPct)
	marginBottom := int(float64(geom.Height) * geom.SafeAreaBottomPct)
	marginLeft := int(float64(geom.Width) * geom.SafeAreaLeftPct)
	marginRight := int(float64(geom.Width) * geom.SafeAreaRightPct)

	// The certification inset may be tighter than the platform margins;
	// size against whichever constrains more.
	insetX := int(float64(geom.Width) * safeInsetPct)
	insetY := int(float64(geom.Height) * safeInsetPct)
	availWidth := geom.Width - maxInt(marginLeft, insetX) - maxInt(marginRight, insetX)
	availHeight := geom.Height - maxInt(marginTop, insetY) - maxInt(marginBottom, insetY)

	// Largest size where the widest line fits horizontally and the full
	// block fits vertically.
	byWidth := float64(availWidth) / (float64(maxChars) * glyphAspect)
	byHeight := float64(availHeight) / (float64(maxLines) * lineSpacing)
	fontSize := int(math.Floor(math.Min(byWidth, byHeight)))
	if ceiling := geom.Height / 18; fontSize > ceiling {
		fontSize = ceiling
	}
	if fontSize < 12 {
		fontSize = 12
	}

	outline := geom.OutlinePx
	if outline <= 0 {
		outline = maxInt(2, fontSize/18)
	}
	shadow := geom.ShadowPx
	if shadow < 0 {
		shadow = 0
	}

	blockWidth := int(float64(fontSize) * glyphAspect * float64(maxChars))
	blockHeight := int(float64(fontSize) * lineSpacing * float64(maxLines))

	return Box{
		WidthPx:      blockWidth,
		HeightPx:     blockHeight,
		MarginTop:    marginTop,
		MarginBottom: marginBottom,
		MarginLeft:   marginLeft,
		MarginRight:  marginRight,
		FontSize:     fontSize,
		Outline:      outline,
		Shadow:       shadow,
		MaxLines:     maxLines,
		MaxChars:     maxChars,
		frameWidth:   geom.Width,
		frameHeight:  geom.Height,
	}
}

// BBox returns the worst-case text block placement: centered horizontally,
// anchored above the bottom margin.
func (b Box) BBox() BBox {
	x := (b.frameWidth - b.WidthPx) / 2
	y := b.frameHeight - b.MarginBottom - b.HeightPx
	return BBox{X: x, Y: y, Width: b.WidthPx, Height: b.HeightPx}
}

// Fits reports whether the worst-case text block stays inside the 10%-inset
// safe area of the frame.
func (b Box) Fits() bool {
	if b.frameWidth <= 0 || b.frameHeight <= 0 {
		return false
	}
	bbox := b.BBox()
	insetX := int(float64(b.frameWidth) * safeInsetPct)
	insetY := int(float64(b.frameHeight) * safeInsetPct)
	if bbox.X < insetX || bbox.X+bbox.Width > b.frameWidth-insetX {
		return false
	}
	if bbox.Y < insetY || bbox.Y+bbox.Height > b.frameHeight-insetY {
		return false
	}
	return true
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
