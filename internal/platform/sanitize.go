package platform

import (
	"strings"
	"unicode"
)

// Runes that pass through sanitization unchanged besides letters and digits
const allowedNameRunes = " ._-()"

// SanitizeFileName maps a video title to a string safe to use as a file stem
// on all supported platforms. Unicode letters, digits and a small allow-set
// pass through; every other rune becomes a single underscore. Surrounding
// whitespace is trimmed last. The mapping is deterministic and idempotent;
// it never fails. All-illegal input collapses to underscores, so callers
// substitute a default stem when the result is unusable.
func SanitizeFileName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(allowedNameRunes, r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return strings.TrimSpace(b.String())
}
