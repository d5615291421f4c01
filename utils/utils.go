package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

func UrlQuery(s string) string { return strings.ReplaceAll(s, " ", "+") }

func Str(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// Truncate caps s at n bytes, backing up to a rune boundary so multibyte
// characters are never split, and appends an ellipsis marker when it cut
// anything off.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
