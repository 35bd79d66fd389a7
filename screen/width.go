package screen

import "github.com/unilibs/uniwidth"

// runeWidth returns the display width: 2 for wide characters (CJK, emoji),
// 1 for normal, 0 for zero-width (combining marks, control chars).
func runeWidth(r rune) int {
	return uniwidth.RuneWidth(r)
}

// isWideRune returns true if the rune occupies 2 columns (CJK ideographs,
// fullwidth forms, emoji). The current model still writes such characters
// into a single cell; this flag exists so a future double-width extension
// has a stable hook without changing the hash of existing single-width
// content.
func isWideRune(r rune) bool {
	return uniwidth.RuneWidth(r) == 2
}
