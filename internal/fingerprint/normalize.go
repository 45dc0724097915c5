package fingerprint

import (
	"regexp"
	"strings"
)

// MaxNormalizedLength is the number of characters (runes) kept from a raw URL
// before any prefix or suffix is stripped.
const MaxNormalizedLength = 200

// dataURIMarker prefixes inline images. Their payload sits at the tail, so
// the tail is what gets kept.
const dataURIMarker = "data:"

var (
	schemePattern       = regexp.MustCompile(`(?i)^https?://`)
	wwwPattern          = regexp.MustCompile(`(?i)^www\.`)
	trailingSlash       = regexp.MustCompile(`/+$`)
	dataPreamblePattern = regexp.MustCompile(`^data:.*?,`)
)

// Normalize canonicalizes a raw URL so that equivalent addresses compare equal.
//
// The input is trimmed and bounded to MaxNormalizedLength runes first: the
// last runes when raw itself starts with "data:", the first runes otherwise.
// The data URI test runs on the untrimmed input, so " data:..." with
// leading whitespace is bounded from the head. The scheme, a leading
// "www.", trailing slashes and a "data:...," preamble are then stripped and
// the result is lower-cased. Stripped characters are not refunded into the
// length budget.
//
// Normalize is pure and never fails; an empty input yields an empty key.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	u := strings.TrimSpace(raw)
	if strings.HasPrefix(raw, dataURIMarker) {
		u = lastRunes(u, MaxNormalizedLength)
	} else {
		u = firstRunes(u, MaxNormalizedLength)
	}

	u = schemePattern.ReplaceAllString(u, "")
	u = wwwPattern.ReplaceAllString(u, "")
	u = trailingSlash.ReplaceAllString(u, "")
	u = dataPreamblePattern.ReplaceAllString(u, "")

	return strings.ToLower(u)
}

func firstRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func lastRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
