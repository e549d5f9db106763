package util

import (
	"regexp"
	"strings"
)

var reSpaces = regexp.MustCompile(`\s+`)

// CleanText trims the value and collapses internal whitespace runs to a
// single space. Non-breaking spaces count as whitespace.
func CleanText(input string) string {
	s := strings.ReplaceAll(input, " ", " ")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
