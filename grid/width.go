package grid

import (
	"unicode"

	"golang.org/x/text/width"
)

// RuneWidth returns the number of columns a rune occupies: 0 for NUL,
// control characters and combining marks, 2 for East Asian wide and
// fullwidth characters, 1 otherwise.
func RuneWidth(r rune) int {
	switch {
	case r == 0 || !unicode.IsPrint(r):
		return 0
	case unicode.In(r, unicode.Mn, unicode.Me, unicode.Mc):
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

// StringWidth returns the total display width of a string
func StringWidth(s string) int {
	w := 0
	for _, r := range s {
		w += RuneWidth(r)
	}
	return w
}
