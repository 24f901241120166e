package post

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD and drops combining marks, so "café" slugs as
// "cafe" instead of growing a hyphen.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify derives a URL-safe slug from a filename fragment: lowercase,
// accents folded, every run of non-alphanumeric characters collapsed to a
// single hyphen, leading and trailing hyphens trimmed.
func Slugify(fragment string) string {
	folded, _, err := transform.String(stripMarks, fragment)
	if err != nil {
		// Transform only fails on invalid UTF-8; keep the raw input and let
		// the hyphen collapse below neutralize anything unsafe.
		folded = fragment
	}

	var sb strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			sb.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.TrimRight(sb.String(), "-")
}
