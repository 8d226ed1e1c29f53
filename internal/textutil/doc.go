// Package textutil provides small text helpers shared across the caption
// engine: whitespace normalization, content digests, token-overlap scoring,
// and filename sanitization.
package textutil
