package captions

import (
	"regexp"
	"strings"
)

var (
	bracketedRe    = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]`)
	metadataRe     = regexp.MustCompile(`(?i)\b(anchor|narrator|speaker|sfx|music)\b\s*[:\-]?`)
	bracketLineRe  = regexp.MustCompile(`^\W*[\[(].*[\])]\W*$`)
	spacePunctRe   = regexp.MustCompile(`\s+([.,!?;:])`)
	multiSpaceRe   = regexp.MustCompile(`\s{2,}`)
	ellipsisRunRe  = regexp.MustCompile(`…+`)
	repeatedDotsRe = regexp.MustCompile(`\.{4,}`)
)

// canonicalForms rewrites known proper-noun and ASR-confusion variants to the
// forms the editorial style guide requires. Matching is case-insensitive.
var canonicalForms = []struct {
	bad  string
	good string
}{
	{"hostel bid", "hostile bid"},
	{"warner brothers.", "Warner Bros. Discovery"},
	{"warner brothers", "Warner Bros. Discovery"},
	{"father -son", "father-son"},
	{"live translations", "Live Translation"},
	{"g mail", "Gmail"},
}

// Normalize sanitizes a raw narration fragment for captioning: strips
// parenthetical and bracketed non-speech annotations, speaker and metadata
// labels, stray subtitle escapes, collapses whitespace, canonicalizes
// ellipses, and rewrites known bad forms. Returns "" when nothing speakable
// remains.
func Normalize(text string) string {
	cleaned := bracketedRe.ReplaceAllString(text, "")
	cleaned = metadataRe.ReplaceAllString(cleaned, "")
	cleaned = strings.ReplaceAll(cleaned, `\N`, " ")
	cleaned = strings.ReplaceAll(cleaned, `\,`, ",")
	cleaned = NormalizeEllipses(cleaned)
	cleaned = multiSpaceRe.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = spacePunctRe.ReplaceAllString(cleaned, "$1")
	cleaned = applyCanonicalForms(cleaned)
	return cleaned
}

// NormalizeEllipses collapses runs of periods or unicode ellipses to the
// canonical three-dot form.
func NormalizeEllipses(text string) string {
	text = ellipsisRunRe.ReplaceAllString(text, "...")
	return repeatedDotsRe.ReplaceAllString(text, "...")
}

func applyCanonicalForms(text string) string {
	lowered := strings.ToLower(text)
	for _, form := range canonicalForms {
		for {
			idx := strings.Index(lowered, form.bad)
			if idx < 0 {
				break
			}
			text = text[:idx] + form.good + text[idx+len(form.bad):]
			lowered = strings.ToLower(text)
		}
	}
	return text
}

// ContainsBadForm reports whether the text still carries a known bad form.
// QC flags these as violations.
func ContainsBadForm(text string) bool {
	lowered := strings.ToLower(text)
	for _, form := range canonicalForms {
		if strings.ToLower(form.good) == form.bad {
			continue
		}
		if strings.Contains(lowered, form.bad) {
			return true
		}
	}
	return false
}

// HasMetadataTokens reports whether speaker or stage-direction labels remain
// in the text.
func HasMetadataTokens(text string) bool {
	return metadataRe.MatchString(text)
}

// IsBracketOnly reports whether the text is a single bracketed annotation
// with no speech content.
func IsBracketOnly(text string) bool {
	return bracketLineRe.MatchString(strings.TrimSpace(text))
}

// HasBadSpacing reports doubled spaces or a space before punctuation.
func HasBadSpacing(text string) bool {
	return strings.Contains(text, "  ") || spacePunctRe.MatchString(text)
}
