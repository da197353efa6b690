// Package text holds the string reconciliation helpers the catalog relies
// on: historical product documents reference categories by display name, so
// matching has to survive stray whitespace, case differences, and
// URL-encoded Arabic.
package text

import (
	"net/url"
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// slugStrip removes everything that is not a word character or hyphen.
// Arabic letters count as word characters, so Arabic names survive as-is.
var slugStrip = regexp.MustCompile(`[^\p{L}\p{N}_-]`)

// Normalize trims, lower-cases, and collapses internal whitespace runs to a
// single space. Two category labels are considered the same grouping when
// their normalized forms are equal.
func Normalize(s string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// Slugify derives a URL-safe identifier from a display name: whitespace
// becomes hyphens, anything outside letters/digits/hyphen/underscore is
// dropped, and the result is lower-cased.
func Slugify(name string) string {
	hyphenated := whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "-")
	return strings.ToLower(slugStrip.ReplaceAllString(hyphenated, ""))
}

// EqualFold reports whether two labels match under Normalize.
func EqualFold(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// EqualDecoded reports whether two labels match after URL-decoding both
// sides and normalizing. Labels that fail to decode fall back to their raw
// form, mirroring how encoded Arabic slugs show up in old documents.
func EqualDecoded(a, b string) bool {
	return Normalize(decodeOrRaw(a)) == Normalize(decodeOrRaw(b))
}

func decodeOrRaw(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}
