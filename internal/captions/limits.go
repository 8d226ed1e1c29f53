package captions

import (
	"math"

	"techsprint/internal/render"
)

// Limits is the single source of truth for the broadcast contract: every
// duration, reading-speed, and layout threshold the passes enforce. A Limits
// value is immutable for a run and passed explicitly into each component so
// render profiles can override fields without shared mutable state.
type Limits struct {
	// Duration windows in seconds.
	MinCueSeconds         float64
	TargetMinSeconds      float64
	TargetMaxSeconds      float64
	StrongPunctMaxSeconds float64
	MaxCueSeconds         float64

	// Transcript-driven merge caps.
	ASRMaxCueSeconds      float64
	ASRMergeTargetSeconds float64
	ASRMinWords           int

	// Reading speed in characters per second.
	CPSMax    float64
	CPSTarget float64
	CPSSoft   float64

	// Layout caps.
	MaxWordsPerCue  int
	MaxLines        int
	MaxCharsPerLine int

	// Timing arithmetic.
	FrameRate            int
	ToleranceSeconds     float64
	CoverageSlackSeconds float64
	CueGapSeconds        float64

	// MaxPasses bounds the enforcer's fixed-point loop so layout-driven and
	// CPS-driven re-splitting cannot oscillate forever on adversarial input.
	MaxPasses int
}

// DefaultLimits returns the broadcast contract defaults.
func DefaultLimits() Limits {
	return Limits{
		MinCueSeconds:         1.2,
		TargetMinSeconds:      1.8,
		TargetMaxSeconds:      3.5,
		StrongPunctMaxSeconds: 4.0,
		MaxCueSeconds:         6.0,
		ASRMaxCueSeconds:      6.0,
		ASRMergeTargetSeconds: 2.2,
		ASRMinWords:           2,
		CPSMax:                17,
		CPSTarget:             16,
		CPSSoft:               15,
		MaxWordsPerCue:        12,
		MaxLines:              2,
		MaxCharsPerLine:       42,
		FrameRate:             30,
		ToleranceSeconds:      0.02,
		CoverageSlackSeconds:  0.2,
		CueGapSeconds:         0.02,
		MaxPasses:             8,
	}
}

// ForGeometry applies a render profile's layout overrides.
func (l Limits) ForGeometry(geom render.Geometry) Limits {
	if geom.MaxCharsPerLine > 0 {
		l.MaxCharsPerLine = geom.MaxCharsPerLine
	}
	if geom.FPS > 0 {
		l.FrameRate = geom.FPS
	}
	return l
}

// SnapToFrame rounds a timestamp to the nearest video frame boundary.
func (l Limits) SnapToFrame(seconds float64) float64 {
	rate := float64(l.FrameRate)
	if rate <= 0 {
		return seconds
	}
	return math.Round(seconds*rate) / rate
}
