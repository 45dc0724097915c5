package scrape

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NoLabel is used for elements without visible text or alt text.
const NoLabel = "None"

// NormalizeLabel applies NFKC, collapses whitespace runs into one space and
// returns NoLabel for an empty result. NFKC folds NO-BREAK SPACE into an
// ordinary space, so it is collapsed like any other whitespace.
func NormalizeLabel(s string) string {
	s = strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
	if s == "" {
		return NoLabel
	}
	return s
}
