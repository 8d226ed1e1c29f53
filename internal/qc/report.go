package qc

import (
	"encoding/json"
	"fmt"
	"os"

	"techsprint/internal/captions"
	"techsprint/internal/captions/layout"
)

// Violation flags one broken rule on one cue.
type Violation struct {
	Cue  int     `json:"cue"`
	Rule string  `json:"rule"`
	CPS  float64 `json:"cps,omitempty"`
}

func (v Violation) String() string {
	return fmt.Sprintf("cue %d %s", v.Cue, v.Rule)
}

// Drift summarizes caption-versus-speech midpoint offsets.
type Drift struct {
	AvgSeconds float64 `json:"avg_seconds"`
	MaxSeconds float64 `json:"max_seconds"`
}

// TokenMismatch pinpoints the first diverging token of a verbatim diff.
type TokenMismatch struct {
	Index    int    `json:"mismatch_index"`
	Expected string `json:"expected_token"`
	Actual   string `json:"actual_token"`
}

// VerbatimDiff compares two token streams for broadcast QC.
type VerbatimDiff struct {
	Status      string         `json:"status"`
	ExpectedLen int            `json:"expected_len"`
	ActualLen   int            `json:"actual_len"`
	Mismatch    *TokenMismatch `json:"mismatch,omitempty"`
}

// Report is the full QC metrics document. Optional metrics are pointers so
// "not computed" serializes as null rather than a misleading zero.
type Report struct {
	Mode          string  `json:"mode"`
	AudioDuration float64 `json:"audio_duration"`
	CueCount      int     `json:"cue_count"`
	SpanOK        bool    `json:"span_ok"`

	CueStats       *captions.Stats `json:"cue_stats"`
	CPSMax         *float64        `json:"cue_cps_max"`
	CPSMedian      *float64        `json:"cue_cps_median"`
	MedianSeconds  *float64        `json:"cue_median_seconds"`
	ShortPercent   *float64        `json:"cue_short_percent"`
	ChangesPer10s  *float64        `json:"cue_changes_per_10s"`
	OrphanLineRate *float64        `json:"orphan_line_rate"`

	SubtitleStart *float64 `json:"subtitle_start_seconds"`
	SubtitleEnd   *float64 `json:"subtitle_end_seconds"`
	AVDelta       *float64 `json:"av_delta_seconds"`
	SubtitleDelta *float64 `json:"subtitle_delta_seconds"`

	TextOverlap *float64 `json:"text_overlap"`
	Drift       *Drift   `json:"drift"`
	Transcript  string   `json:"transcript"`

	LayoutOK   bool        `json:"subtitle_layout_ok"`
	LayoutBBox layout.BBox `json:"subtitle_layout_bbox"`

	Violations []Violation `json:"violations"`
	Warnings   []string    `json:"warnings"`

	VerbatimMode   bool                    `json:"verbatim_mode"`
	VerbatimPolicy string                  `json:"verbatim_policy,omitempty"`
	VerbatimDiffs  map[string]VerbatimDiff `json:"verbatim_diff,omitempty"`

	Passed   bool     `json:"passed"`
	Failures []string `json:"failures,omitempty"`
}

// WriteJSON serializes the report next to the caption artifacts.
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal qc report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write qc report: %w", err)
	}
	return nil
}

func floatPtr(v float64) *float64 { return &v }
