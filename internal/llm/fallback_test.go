package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackEmbedDeterministic(t *testing.T) {
	f := Fallback{EmbeddingDimensions: 64}

	a := f.Embed("vector databases")
	b := f.Embed("vector databases")
	c := f.Embed("something else entirely")

	require.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	for _, v := range a {
		assert.GreaterOrEqual(t, v, float32(-1))
		assert.Less(t, v, float32(1))
	}
}

func TestFallbackRespondRouting(t *testing.T) {
	f := Fallback{EmbeddingDimensions: 8}

	tests := []struct {
		prompt string
		want   string
	}{
		{"Validate my idea for a carbon tracker", "Idea Validation Analysis"},
		{"How do I implement hybrid search?", "Technical Documentation Response"},
		{"Summarize my commit history", "Development Progress Analysis"},
		// "Show" contains "how", which routes to documentation first.
		{"Show my commit history", "Technical Documentation Response"},
		{"Help me with my pitch deck", "Pitch Deck Structure"},
		{"hello there", "Hackathon Assistant"},
	}
	for _, tc := range tests {
		assert.Contains(t, f.Respond(tc.prompt, ""), tc.want, "prompt %q", tc.prompt)
	}
}

func TestOriginalityScoreRange(t *testing.T) {
	prompts := []string{"a", "chat app", "ml pipeline", "game", "social network for dogs"}
	for _, p := range prompts {
		score := originalityScore(p)
		assert.GreaterOrEqual(t, score, 65)
		assert.LessOrEqual(t, score, 90)
		assert.Equal(t, score, originalityScore(p))
	}
}

func TestFallbackIdeaValidationMentionsSimilar(t *testing.T) {
	f := Fallback{EmbeddingDimensions: 8}

	with := f.Respond("validate my idea", "Similar past projects:\n1. Foo: bar")
	without := f.Respond("validate my idea", "")

	assert.Contains(t, with, "Similar projects were found")
	assert.NotContains(t, without, "Similar projects were found")
}
