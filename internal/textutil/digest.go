package textutil

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// NormalizeSpace collapses all whitespace runs to single spaces and trims the
// result.
func NormalizeSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// SHA256Text returns the hex digest of the text's UTF-8 bytes. Callers should
// normalize the text first so digests compare across sources.
func SHA256Text(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
