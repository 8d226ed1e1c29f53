package captions

import (
	"fmt"
	"math"
	"strings"

	"techsprint/internal/captions/layout"
	"techsprint/internal/render"
)

// MarshalASS renders cues as a styled ASS document sized for the render
// geometry, with a single style derived from the layout box.
func MarshalASS(cues []Cue, geom render.Geometry, box layout.Box, limits Limits) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "[Script Info]\nScriptType: v4.00+\nPlayResX: %d\nPlayResY: %d\nWrapStyle: 2\nScaledBorderAndShadow: yes\n\n",
		geom.Width, geom.Height)

	builder.WriteString("[V4+ Styles]\n")
	builder.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	fmt.Fprintf(&builder, "Style: Caption,%s,%d,&H00FFFFFF,&H000000FF,&H00000000,&H80000000,-1,0,0,0,100,100,0,0,1,%d,%d,2,%d,%d,%d,1\n\n",
		geom.FontHint, box.FontSize, box.Outline, box.Shadow,
		box.MarginLeft, box.MarginRight, box.MarginBottom)

	builder.WriteString("[Events]\n")
	builder.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for _, cue := range cues {
		lines := WrapLines(cue.Text, limits.MaxLines, limits.MaxCharsPerLine)
		if len(lines) == 0 {
			continue
		}
		escaped := make([]string, len(lines))
		for i, line := range lines {
			escaped[i] = escapeASS(line)
		}
		fmt.Fprintf(&builder, "Dialogue: 0,%s,%s,Caption,,0,0,0,,%s\n",
			formatASSTimestamp(cue.Start),
			formatASSTimestamp(cue.End),
			strings.Join(escaped, `\N`))
	}
	return builder.String()
}

// formatASSTimestamp renders seconds as H:MM:SS.cc with centisecond
// precision.
func formatASSTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	centis := int(math.Round(seconds * 100))
	hours := centis / 360000
	centis -= hours * 360000
	minutes := centis / 6000
	centis -= minutes * 6000
	secs := centis / 100
	centis -= secs * 100
	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, secs, centis)
}

// escapeASS protects override-block and line-break metacharacters in cue
// text.
func escapeASS(text string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		"{", `\{`,
		"}", `\}`,
	)
	return replacer.Replace(text)
}
