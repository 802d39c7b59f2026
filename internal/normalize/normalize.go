// Package normalize folds titles and names into comparison keys.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// Key folds s for case- and accent-insensitive comparison.
// "  Cien Años de  Soledad" -> "cien anos de soledad".
// Compatibility forms are unified and combining marks dropped, so width
// and accents never affect a match.
func Key(s string) string {
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, s)
	s = folder.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// Contains reports whether needle occurs in haystack after folding both.
// An empty needle matches everything.
func Contains(haystack, needle string) bool {
	return strings.Contains(Key(haystack), Key(needle))
}

// Equal reports whether a and b fold to the same key.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}
