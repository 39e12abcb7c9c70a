package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexicalSearchRanksByRelevance(t *testing.T) {
	idx := newLexicalIndex()
	idx.Add("tracker", "projects", "carbon footprint tracker for daily commutes")
	idx.Add("chatbot", "projects", "sustainability chatbot answering climate questions")
	idx.Add("game", "projects", "multiplayer trivia game about movies")

	hits := idx.Search("carbon footprint", "projects", 10)
	require.NotEmpty(t, hits)
	assert.Equal(t, "tracker", hits[0].ID)
	for _, h := range hits {
		assert.NotEqual(t, "game", h.ID)
	}
}

func TestLexicalSearchRespectsIndex(t *testing.T) {
	idx := newLexicalIndex()
	idx.Add("p1", "projects", "elasticsearch dashboard")
	idx.Add("d1", "docs", "elasticsearch setup guide")

	hits := idx.Search("elasticsearch", "docs", 10)
	require.Len(t, hits, 1)
	assert.Equal(t, "d1", hits[0].ID)

	all := idx.Search("elasticsearch", "", 10)
	assert.Len(t, all, 2)
}

func TestLexicalReindexReplacesTerms(t *testing.T) {
	idx := newLexicalIndex()
	idx.Add("p1", "projects", "blockchain voting system")
	idx.Add("p1", "projects", "recipe recommendation engine")

	assert.Empty(t, idx.Search("blockchain", "projects", 10))
	assert.NotEmpty(t, idx.Search("recipe", "projects", 10))
}

func TestLexicalSearchEmptyQuery(t *testing.T) {
	idx := newLexicalIndex()
	idx.Add("p1", "projects", "something")
	assert.Nil(t, idx.Search("   ", "projects", 10))
}

func TestBestResultsKeepsTopK(t *testing.T) {
	best := newBestResults(3)
	for i := 0; i < 10; i++ {
		best.Add(scored{ID: fmt.Sprintf("doc-%d", i), Score: float64(i)})
	}

	got := best.Get()
	require.Len(t, got, 3)
	assert.Equal(t, "doc-9", got[0].ID)
	assert.Equal(t, "doc-8", got[1].ID)
	assert.Equal(t, "doc-7", got[2].ID)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float64{1, 2}, []float64{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float64{0, 0}, []float64{1, 1}))
}
