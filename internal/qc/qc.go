// Package qc validates finished caption sequences against the broadcast
// thresholds and produces the metrics report consumed by operators and the
// calling pipeline.
package qc

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"techsprint/internal/captions"
	"techsprint/internal/captions/layout"
	"techsprint/internal/logging"
	"techsprint/internal/render"
	"techsprint/internal/services"
	"techsprint/internal/textutil"
	"techsprint/internal/transcriber"
)

// canonicalTerms must survive from script to captions verbatim under
// broadcast QC.
var canonicalTerms = []string{
	"Warner Bros. Discovery",
	"Live Translation",
	"Gmail",
}

// asrConfusions pair common misrecognitions with the term the script actually
// uses; their presence in a transcript is warned about, not failed. Order is
// fixed so identical inputs produce identical reports.
var asrConfusions = []struct {
	wrong   string
	correct string
}{
	{"hostel", "hostile"},
	{"warner discovery", "warner bros. discovery"},
	{"live translations", "live translation"},
}

// Thresholds beyond the per-cue contract limits.
const (
	spanOverrunSlack    = 0.05
	coverageSlack       = 0.2
	deltaMax            = 0.25
	medianFloorStrict   = 1.5
	medianFloorBroad    = 1.0
	orphanRateMax       = 0.05
	changesPer10sMax    = 5.0
	broadcastDriftLimit = 0.25
	violationDetailCap  = 12
)

// hardFailRules are the per-cue violations broadcast mode refuses to ship.
var hardFailRules = map[string]struct{}{
	"end_punctuation":      {},
	"dangling_tail":        {},
	"forbidden_line_start": {},
	"forbidden_line_end":   {},
	"max_cps":              {},
	"min_duration":         {},
	"max_duration":         {},
}

// Input gathers everything one QC run inspects.
type Input struct {
	Mode           string
	Cues           []captions.Cue
	AudioDuration  float64
	VideoDuration  float64
	ScriptText     string
	Segments       []transcriber.Segment
	Geometry       render.Geometry
	Limits         captions.Limits
	Box            layout.Box
	VerbatimPolicy string
	// DriftAvgMax and DriftMaxMax override the strict-mode drift thresholds
	// when > 0.
	DriftAvgMax float64
	DriftMaxMax float64
}

// Run computes the full metrics report and, in strict or broadcast mode,
// fails with a QC error listing every violated rule. The report is returned
// in both cases.
func Run(input Input, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "qc")

	switch input.Mode {
	case "warn", "strict", "broadcast":
	default:
		return nil, services.Wrap(services.ErrConfiguration, "qc", "validate",
			fmt.Sprintf("unknown qc mode %q", input.Mode), nil)
	}

	report := &Report{
		Mode:           input.Mode,
		AudioDuration:  input.AudioDuration,
		CueCount:       len(input.Cues),
		SpanOK:         true,
		Transcript:     "skipped",
		VerbatimMode:   input.VerbatimPolicy != "",
		VerbatimPolicy: input.VerbatimPolicy,
		Violations:     []Violation{},
		Warnings:       []string{},
	}

	measureCues(report, input)
	measureTranscript(report, input)
	measureDeltas(report, input)
	measureLayout(report, input)
	collectWarnings(report)

	if input.Mode == "broadcast" {
		report.VerbatimDiffs = verbatimDiffs(input)
	}

	var failures []string
	switch input.Mode {
	case "strict":
		failures = strictFailures(report, input)
	case "broadcast":
		failures = broadcastFailures(report, input)
	}
	report.Failures = failures
	report.Passed = len(failures) == 0

	logger.Info("qc complete",
		logging.String(logging.FieldEventType, "qc_complete"),
		logging.String(logging.FieldMode, input.Mode),
		logging.Int("cues", report.CueCount),
		logging.Int("violations", len(report.Violations)),
		logging.Int("failures", len(failures)))

	if len(failures) > 0 {
		return report, services.Wrap(services.ErrQC, "qc", "validate",
			strings.Join(failures, "; "), nil)
	}
	return report, nil
}

// measureCues fills the per-cue distribution metrics and rule violations.
func measureCues(report *Report, input Input) {
	cues := input.Cues
	if len(cues) == 0 {
		return
	}
	limits := input.Limits

	report.SubtitleStart = floatPtr(cues[0].Start)
	maxEnd := 0.0
	for _, cue := range cues {
		if cue.End > maxEnd {
			maxEnd = cue.End
		}
	}
	report.SubtitleEnd = floatPtr(maxEnd)
	if input.AudioDuration > 0 && maxEnd > input.AudioDuration+spanOverrunSlack {
		report.SpanOK = false
	}

	stats := captions.ComputeStats(cues)
	report.CueStats = &stats

	var durations, cpsValues []float64
	orphanCount := 0
	for i, cue := range cues {
		idx := i + 1
		duration := cue.Duration()
		if duration <= 0 {
			continue
		}
		durations = append(durations, duration)
		cps := cue.CPS()
		cpsValues = append(cpsValues, cps)

		if captions.NormalizeEllipses(cue.Text) != cue.Text {
			report.Violations = append(report.Violations, Violation{Cue: idx, Rule: "ellipsis_spam"})
		}
		lines := captions.WrapLines(cue.Text, limits.MaxLines, limits.MaxCharsPerLine)
		if len(lines) == 2 {
			if hasShortOrphan(lines) && duration < limits.TargetMinSeconds {
				orphanCount++
				report.Violations = append(report.Violations, Violation{Cue: idx, Rule: "orphan_line"})
			}
			for _, line := range lines {
				words := strings.Fields(line)
				if len(words) == 0 {
					continue
				}
				if captions.IsForbiddenEdge(words[0]) {
					report.Violations = append(report.Violations, Violation{Cue: idx, Rule: "forbidden_line_start"})
				}
				if captions.IsForbiddenEdge(words[len(words)-1]) {
					report.Violations = append(report.Violations, Violation{Cue: idx, Rule: "forbidden_line_end"})
				}
			}
		}
		if duration < limits.MinCueSeconds-limits.ToleranceSeconds {
			report.Violations = append(report.Violations, Violation{Cue: idx, Rule: "min_duration"})
		}
		if duration > limits.MaxCueSeconds {
			report.Violations = append(report.Violations, Violation{Cue: idx, Rule: "max_duration"})
		}
		if cps > limits.CPSTarget {
			report.Violations = append(report.Violations, Violation{Cue: idx, Rule: "cps_target", CPS: round2(cps)})
		}
		if cps > limits.CPSMax {
			report.Violations = append(report.Violations, Violation{Cue: idx, Rule: "max_cps", CPS: round2(cps)})
		}
		trimmed := strings.TrimSpace(cue.Text)
		if strings.HasSuffix(trimmed, ",") {
			report.Violations = append(report.Violations, Violation{Cue: idx, Rule: "dangling_comma"})
		}
		if words := strings.Fields(cue.Text); len(words) > 0 && captions.IsForbiddenEdge(words[len(words)-1]) {
			report.Violations = append(report.Violations, Violation{Cue: idx, Rule: "dangling_tail"})
		}
		if len(strings.Fields(cue.Text)) < 4 && !captions.HasVerb(cue.Text) {
			report.Violations = append(report.Violations, Violation{Cue: idx, Rule: "fragment_no_verb"})
		}
		if !captions.SentenceCased(cue.Text) {
			report.Violations = append(report.Violations, Violation{Cue: idx, Rule: "sentence_case"})
		}
		if trimmed != "" && !captions.EndsSentence(trimmed) {
			report.Violations = append(report.Violations, Violation{Cue: idx, Rule: "end_punctuation"})
		}
		if captions.HasMetadataTokens(cue.Text) {
			report.Violations = append(report.Violations, Violation{Cue: idx, Rule: "metadata_tokens"})
		}
		if captions.IsBracketOnly(cue.Text) {
			report.Violations = append(report.Violations, Violation{Cue: idx, Rule: "bracket_only"})
		}
		if captions.HasBadSpacing(cue.Text) {
			report.Violations = append(report.Violations, Violation{Cue: idx, Rule: "bad_spacing"})
		}
		if captions.ContainsBadForm(cue.Text) {
			report.Violations = append(report.Violations, Violation{Cue: idx, Rule: "bad_term"})
		}
	}

	if len(cpsValues) > 0 {
		maxCPS := cpsValues[0]
		for _, v := range cpsValues {
			if v > maxCPS {
				maxCPS = v
			}
		}
		report.CPSMax = floatPtr(maxCPS)
		report.CPSMedian = floatPtr(captions.Median(cpsValues))
	}
	if len(durations) > 0 {
		report.MedianSeconds = floatPtr(captions.Median(durations))
		shortCount := 0
		for _, d := range durations {
			if d < limits.MinCueSeconds {
				shortCount++
			}
		}
		report.ShortPercent = floatPtr(float64(shortCount) / float64(len(durations)))
		report.OrphanLineRate = floatPtr(float64(orphanCount) / float64(len(durations)))
	}
	if input.AudioDuration > 0 {
		report.ChangesPer10s = floatPtr(float64(len(cues)) / (input.AudioDuration / 10))
	}
}

func hasShortOrphan(lines []string) bool {
	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 1 && len(strings.TrimSpace(line)) <= 3 {
			return true
		}
	}
	return false
}

// measureTranscript computes script/speech token overlap and timing drift
// when a transcript re-run is available. Word midpoints are preferred over
// segment midpoints for drift.
func measureTranscript(report *Report, input Input) {
	if len(input.Segments) == 0 {
		return
	}
	report.Transcript = "ok"

	var parts []string
	for _, segment := range input.Segments {
		if strings.TrimSpace(segment.Text) != "" {
			parts = append(parts, segment.Text)
		}
	}
	transcriptText := strings.Join(parts, " ")
	if input.ScriptText != "" {
		report.TextOverlap = floatPtr(textutil.TokenOverlap(input.ScriptText, transcriptText))
	}

	cueMidpoints := captions.Midpoints(input.Cues)
	speechMidpoints := transcriber.WordMidpoints(input.Segments)
	if len(speechMidpoints) == 0 {
		for _, segment := range input.Segments {
			if segment.End >= segment.Start {
				speechMidpoints = append(speechMidpoints, (segment.Start+segment.End)/2)
			}
		}
	}
	if drift := computeDrift(cueMidpoints, speechMidpoints); drift != nil {
		report.Drift = drift
	}
}

// computeDrift reduces per-cue nearest-midpoint distances to average and
// maximum offsets.
func computeDrift(cueMidpoints, speechMidpoints []float64) *Drift {
	if len(cueMidpoints) == 0 || len(speechMidpoints) == 0 {
		return nil
	}
	sum := 0.0
	maxDelta := 0.0
	for _, cueMid := range cueMidpoints {
		nearest := math.Inf(1)
		for _, speechMid := range speechMidpoints {
			if delta := math.Abs(speechMid - cueMid); delta < nearest {
				nearest = delta
			}
		}
		sum += nearest
		if nearest > maxDelta {
			maxDelta = nearest
		}
	}
	return &Drift{
		AvgSeconds: sum / float64(len(cueMidpoints)),
		MaxSeconds: maxDelta,
	}
}

func measureDeltas(report *Report, input Input) {
	if input.AudioDuration > 0 && input.VideoDuration > 0 {
		report.AVDelta = floatPtr(math.Abs(input.VideoDuration - input.AudioDuration))
	}
	if input.AudioDuration > 0 && report.SubtitleEnd != nil {
		report.SubtitleDelta = floatPtr(math.Abs(*report.SubtitleEnd - input.AudioDuration))
	}
}

func measureLayout(report *Report, input Input) {
	report.LayoutOK = input.Box.Fits()
	report.LayoutBBox = input.Box.BBox()
}

// collectWarnings mirrors every threshold as a warning regardless of mode.
func collectWarnings(report *Report) {
	if report.CueStats != nil && report.CueStats.Max > 6.0 {
		report.Warnings = append(report.Warnings, "Max cue duration exceeds caption limits")
	}
	if report.CPSMax != nil && *report.CPSMax > 17 {
		report.Warnings = append(report.Warnings, "Max cue CPS exceeds caption limits")
	}
	if report.ShortPercent != nil && *report.ShortPercent > 0 {
		report.Warnings = append(report.Warnings, "Cues under minimum duration present")
	}
	if report.MedianSeconds != nil && *report.MedianSeconds < medianFloorStrict {
		report.Warnings = append(report.Warnings, "Median cue duration below 1.5s")
	}
	if report.OrphanLineRate != nil && *report.OrphanLineRate > orphanRateMax {
		report.Warnings = append(report.Warnings, "Orphan line rate exceeds 5%")
	}
	if report.ChangesPer10s != nil && *report.ChangesPer10s > changesPer10sMax {
		report.Warnings = append(report.Warnings, "Cue changes per 10s exceeds 5")
	}
	if len(report.Violations) > 0 {
		report.Warnings = append(report.Warnings,
			"Caption text/layout violations: "+violationDetail(report.Violations))
	}
	if report.AVDelta != nil && *report.AVDelta > deltaMax {
		report.Warnings = append(report.Warnings, "AV duration delta exceeds 0.25s")
	}
	if report.SubtitleDelta != nil && *report.SubtitleDelta > deltaMax {
		report.Warnings = append(report.Warnings, "Subtitle end delta exceeds 0.25s")
	}
	if report.SubtitleStart != nil && *report.SubtitleStart > coverageSlack {
		report.Warnings = append(report.Warnings, "Subtitle starts after audio by >0.2s")
	}
	if !report.LayoutOK {
		report.Warnings = append(report.Warnings, "Subtitle layout exceeds safe-area bounds")
	}
}

func violationDetail(violations []Violation) string {
	parts := make([]string, 0, len(violations))
	for _, v := range violations {
		parts = append(parts, v.String())
	}
	if len(parts) > violationDetailCap {
		return strings.Join(parts[:violationDetailCap], "; ") +
			fmt.Sprintf("; +%d more", len(parts)-violationDetailCap)
	}
	return strings.Join(parts, "; ")
}

// sharedFailures are the threshold checks strict and broadcast both apply.
func sharedFailures(report *Report, input Input, medianFloor float64) []string {
	var failures []string
	if !report.SpanOK {
		failures = append(failures, "SRT extends beyond audio duration")
	}
	if report.CueStats != nil && report.CueStats.Max > input.Limits.MaxCueSeconds {
		failures = append(failures, "Max cue duration exceeds caption limits")
	}
	if report.ShortPercent != nil && *report.ShortPercent > 0 {
		failures = append(failures, "Cues under minimum duration present")
	}
	if report.MedianSeconds != nil && *report.MedianSeconds < medianFloor {
		failures = append(failures, fmt.Sprintf("Median cue duration below %.1fs", medianFloor))
	}
	if report.OrphanLineRate != nil && *report.OrphanLineRate > orphanRateMax {
		failures = append(failures, "Orphan line rate exceeds 5%")
	}
	if report.ChangesPer10s != nil && *report.ChangesPer10s > changesPer10sMax {
		failures = append(failures, "Cue changes per 10s exceeds 5")
	}
	if input.AudioDuration > 0 && report.SubtitleEnd != nil &&
		input.AudioDuration-*report.SubtitleEnd > coverageSlack {
		failures = append(failures, "Subtitle coverage ends too early")
	}
	if report.AVDelta != nil && *report.AVDelta > deltaMax {
		failures = append(failures, "AV duration delta exceeds 0.25s")
	}
	if report.SubtitleDelta != nil && *report.SubtitleDelta > deltaMax {
		failures = append(failures, "Subtitle end delta exceeds 0.25s")
	}
	if report.SubtitleStart != nil && *report.SubtitleStart > coverageSlack {
		failures = append(failures, "Subtitle starts after audio by >0.2s")
	}
	if !report.LayoutOK {
		failures = append(failures, "Subtitle layout exceeds safe-area bounds")
	}
	return failures
}

func strictFailures(report *Report, input Input) []string {
	failures := sharedFailures(report, input, medianFloorStrict)
	avgMax := input.DriftAvgMax
	if avgMax <= 0 {
		avgMax = 0.8
	}
	maxMax := input.DriftMaxMax
	if maxMax <= 0 {
		maxMax = 2.0
	}
	if report.Drift != nil && (report.Drift.AvgSeconds > avgMax || report.Drift.MaxSeconds > maxMax) {
		failures = append(failures, "Subtitle/ASR drift exceeds thresholds")
	}
	if len(report.Violations) > 0 && !report.VerbatimMode {
		failures = append(failures,
			"Caption text/layout violations: "+violationDetail(report.Violations))
	}
	return failures
}

func broadcastFailures(report *Report, input Input) []string {
	failures := sharedFailures(report, input, medianFloorBroad)
	if report.Drift != nil &&
		(report.Drift.AvgSeconds > broadcastDriftLimit || report.Drift.MaxSeconds > broadcastDriftLimit) {
		failures = append(failures, "Subtitle/ASR drift exceeds broadcast threshold")
	}
	var hard []Violation
	for _, v := range report.Violations {
		if _, ok := hardFailRules[v.Rule]; ok {
			hard = append(hard, v)
		}
	}
	if len(hard) > 0 {
		failures = append(failures,
			"Caption text/layout violations: "+violationDetail(hard))
	}

	captionText := joinCueText(input.Cues)
	scriptLower := strings.ToLower(input.ScriptText)
	captionLower := strings.ToLower(captionText)
	var missing []string
	for _, term := range canonicalTerms {
		lowered := strings.ToLower(term)
		if strings.Contains(scriptLower, lowered) && !strings.Contains(captionLower, lowered) {
			missing = append(missing, term)
		}
	}
	if len(missing) > 0 {
		msg := "Missing canonical terms: " + strings.Join(missing, ", ")
		if input.VerbatimPolicy == "script" {
			failures = append(failures, msg)
		} else {
			report.Warnings = append(report.Warnings, msg)
		}
	}
	if input.VerbatimPolicy == "audio" && len(input.Segments) > 0 {
		transcriptLower := strings.ToLower(joinSegmentText(input.Segments))
		for _, confusion := range asrConfusions {
			if strings.Contains(transcriptLower, confusion.wrong) && strings.Contains(scriptLower, confusion.correct) {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("ASR confusion: %q vs %q", confusion.wrong, confusion.correct))
			}
		}
	}
	return failures
}

// verbatimDiffs compares the caption token stream against the script and the
// transcript re-run.
func verbatimDiffs(input Input) map[string]VerbatimDiff {
	captionText := joinCueText(input.Cues)
	diffs := map[string]VerbatimDiff{
		"script_vs_captions": diffTokens(input.ScriptText, captionText),
	}
	if len(input.Segments) > 0 {
		transcriptText := joinSegmentText(input.Segments)
		diffs["transcript_vs_captions"] = diffTokens(transcriptText, captionText)
		diffs["script_vs_transcript"] = diffTokens(input.ScriptText, transcriptText)
	} else {
		diffs["transcript_vs_captions"] = VerbatimDiff{Status: "skipped"}
		diffs["script_vs_transcript"] = VerbatimDiff{Status: "skipped"}
	}
	return diffs
}

func diffTokens(expected, actual string) VerbatimDiff {
	expectedTokens := captions.VerbatimTokens(expected)
	actualTokens := captions.VerbatimTokens(actual)
	diff := VerbatimDiff{
		Status:      "pass",
		ExpectedLen: len(expectedTokens),
		ActualLen:   len(actualTokens),
	}
	limit := len(expectedTokens)
	if len(actualTokens) < limit {
		limit = len(actualTokens)
	}
	for i := 0; i < limit; i++ {
		if expectedTokens[i] != actualTokens[i] {
			diff.Status = "fail"
			diff.Mismatch = &TokenMismatch{
				Index:    i,
				Expected: expectedTokens[i],
				Actual:   actualTokens[i],
			}
			return diff
		}
	}
	if len(expectedTokens) != len(actualTokens) {
		diff.Status = "fail"
		mismatch := &TokenMismatch{Index: limit}
		if limit < len(expectedTokens) {
			mismatch.Expected = expectedTokens[limit]
		}
		if limit < len(actualTokens) {
			mismatch.Actual = actualTokens[limit]
		}
		diff.Mismatch = mismatch
	}
	return diff
}

func joinCueText(cues []captions.Cue) string {
	parts := make([]string, 0, len(cues))
	for _, cue := range cues {
		parts = append(parts, cue.Text)
	}
	return strings.Join(parts, " ")
}

func joinSegmentText(segments []transcriber.Segment) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		if strings.TrimSpace(segment.Text) != "" {
			parts = append(parts, segment.Text)
		}
	}
	return strings.Join(parts, " ")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
