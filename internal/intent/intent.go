// Package intent maps free-text chat input to one of a fixed set of
// handling categories. Classification is a case-insensitive substring
// test over fixed keyword lists, evaluated in priority order with the
// first match winning. It is deterministic, total, and side-effect free.
package intent

import "strings"

// Intent is the category a message is routed by.
type Intent string

const (
	IdeaValidation Intent = "idea_validation"
	Progress       Intent = "progress"
	Documentation  Intent = "documentation"
	General        Intent = "general"
)

// Keyword lists, checked in this order. A message matching none of them
// falls through to General.
var (
	ideaKeywords = []string{
		"idea", "project", "validate", "original", "similar", "unique", "concept",
	}
	progressKeywords = []string{
		"progress", "status", "commit", "github", "development", "team", "accomplished",
	}
	documentationKeywords = []string{
		"how to", "documentation", "rules", "guidelines", "google cloud", "elastic", "vertex",
	}
)

func containsAny(message string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(message, kw) {
			return true
		}
	}
	return false
}

// Classify returns exactly one Intent for the given input.
func Classify(message string) Intent {
	lower := strings.ToLower(message)

	switch {
	case containsAny(lower, ideaKeywords):
		return IdeaValidation
	case containsAny(lower, progressKeywords):
		return Progress
	case containsAny(lower, documentationKeywords):
		return Documentation
	default:
		return General
	}
}

// Valid reports whether s is one of the known intent labels.
func Valid(s string) bool {
	switch Intent(s) {
	case IdeaValidation, Progress, Documentation, General:
		return true
	}
	return false
}
