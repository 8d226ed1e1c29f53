package captions

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatSRTTimestamp renders seconds as the SRT HH:MM:SS,mmm form.
func FormatSRTTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int(math.Round(seconds * 1000))
	hours := millis / 3600000
	millis -= hours * 3600000
	minutes := millis / 60000
	millis -= minutes * 60000
	secs := millis / 1000
	millis -= secs * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// ParseSRTTimestamp reads an SRT timestamp, accepting a period in place of
// the standard comma.
func ParseSRTTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// MarshalSRT renders cues as an SRT document with wrapped display lines.
func MarshalSRT(cues []Cue, limits Limits) string {
	var builder strings.Builder
	for i, cue := range cues {
		lines := WrapLines(cue.Text, limits.MaxLines, limits.MaxCharsPerLine)
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&builder, "%d\n%s --> %s\n%s\n\n",
			i+1,
			FormatSRTTimestamp(cue.Start),
			FormatSRTTimestamp(cue.End),
			strings.Join(lines, "\n"))
	}
	return builder.String()
}

// ParseSRT reads an SRT document back into cues. Display line breaks
// collapse to spaces; index lines are ignored so renumbered files still
// parse.
func ParseSRT(content string) ([]Cue, error) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	blocks := strings.Split(strings.TrimSpace(normalized), "\n\n")
	var cues []Cue
	for _, block := range blocks {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
			continue
		}
		timingIdx := -1
		for i, line := range lines {
			if strings.Contains(line, "-->") {
				timingIdx = i
				break
			}
		}
		if timingIdx < 0 {
			return nil, fmt.Errorf("parse srt: block %d has no timing line", len(cues)+1)
		}
		parts := strings.Split(lines[timingIdx], "-->")
		if len(parts) != 2 {
			return nil, fmt.Errorf("parse srt: malformed timing line %q", lines[timingIdx])
		}
		start, err := ParseSRTTimestamp(parts[0])
		if err != nil {
			return nil, fmt.Errorf("parse srt: %w", err)
		}
		end, err := ParseSRTTimestamp(parts[1])
		if err != nil {
			return nil, fmt.Errorf("parse srt: %w", err)
		}
		text := strings.TrimSpace(strings.Join(lines[timingIdx+1:], " "))
		if text == "" {
			continue
		}
		cues = append(cues, Cue{Start: start, End: end, Text: text})
	}
	return cues, nil
}
