package search

import (
	"fmt"
	"strings"

	"github.com/akontos/hackmate/internal/util"
)

const (
	defaultSuggestions = 5
	maxSuggestions     = 10
)

// commonSuggestions are the canned queries offered when nothing better
// matches. Ordered by how often hackathon teams ask them.
var commonSuggestions = []string{
	"How to implement hybrid search",
	"Validate my hackathon idea",
	"Check my project progress",
	"How to deploy a web application",
	"Generate a pitch deck for my project",
	"How to use vector embeddings",
	"Write a README for my repository",
	"How to set up CI for a hackathon project",
}

// Suggest returns up to limit query completions: titles of stored documents
// whose title or content shares a token with the input first, then canned
// queries, then templated fallbacks. An empty query yields the canned list
// head. A non-positive limit means the default of five.
func (e *Engine) Suggest(query string, limit int) []string {
	if limit <= 0 {
		limit = defaultSuggestions
	}
	if limit > maxSuggestions {
		limit = maxSuggestions
	}

	tokens := util.Tokenize(query)
	if len(tokens) == 0 {
		if limit > len(commonSuggestions) {
			limit = len(commonSuggestions)
		}
		return commonSuggestions[:limit]
	}

	tokenSet := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		tokenSet[tok] = struct{}{}
	}

	overlaps := func(s string) bool {
		for _, tok := range util.Tokenize(s) {
			if _, ok := tokenSet[tok]; ok {
				return true
			}
		}
		return false
	}

	var suggestions []string
	seen := make(map[string]struct{})
	add := func(s string) {
		if len(suggestions) >= limit {
			return
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		suggestions = append(suggestions, s)
	}

	if docs, err := e.store.List(""); err == nil {
		for _, doc := range docs {
			if overlaps(doc.Title) || overlaps(doc.Content) {
				add(doc.Title)
			}
		}
	}

	for _, s := range commonSuggestions {
		if overlaps(s) {
			add(s)
		}
	}

	trimmed := strings.TrimSpace(query)
	for _, tmpl := range []string{"How to implement %s", "Projects similar to %s", "Best practices for %s"} {
		add(fmt.Sprintf(tmpl, trimmed))
	}

	return suggestions
}
