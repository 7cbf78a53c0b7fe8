package domain

import (
	"strings"
)

// NormalizeText prepares a fragment for storage, caching, and comparison:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - compresses multiple spaces into one
//
// Diacritics, hyphens, and apostrophes are preserved. Stored source terms
// and cache keys are always normalized with this function, so "Hello " and
// "hello" resolve to the same record.
func NormalizeText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)

	// Compress multiple spaces into one.
	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeLang canonicalizes an ISO 639-1 language code for lookups.
func NormalizeLang(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
