package textutil

import "strings"

// SanitizeFileName makes a caption base name safe to write to disk. Path
// separators, colons, and asterisks become dashes; shell- and
// platform-hostile characters are dropped. Empty input stays empty so the
// caller can fall back to its own default.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch r {
		case '/', '\\', ':', '*':
			b.WriteByte('-')
		case '?', '"', '<', '>', '|':
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
