package utils

import (
	"strconv"
	"unicode/utf8"
)

// CharsLen returns the number of characters (runes) in s, not bytes. The
// single-character filter rule counts characters of the rendered text, which
// for CJK output differs from the byte length.
func CharsLen(s string) int {
	return utf8.RuneCountInString(s)
}

// FormatWithCommas renders n with thousands separators for CLI output.
func FormatWithCommas(n int) string {
	s := strconv.Itoa(n)
	start := 0
	if len(s) > 0 && s[0] == '-' {
		start = 1
	}
	for i := len(s) - 3; i > start; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}
