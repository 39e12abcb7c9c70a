package util

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var docIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+(?:-[a-zA-Z0-9_]+)*$`)

// ValidateDocID rejects identifiers that could escape a URL path segment.
func ValidateDocID(id string) error {
	if !docIDRegex.MatchString(id) {
		return fmt.Errorf("invalid document id: %s", id)
	}
	return nil
}

// Truncate shortens s to at most n runes, appending an ellipsis when cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// Tokenize lowercases s and splits it on any non-alphanumeric rune,
// dropping empty fields.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
