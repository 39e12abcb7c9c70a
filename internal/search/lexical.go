package search

import (
	"container/heap"
	"math"
	"sort"
	"sync"

	"github.com/akontos/hackmate/internal/util"
	"gonum.org/v1/gonum/mat"
)

// scored is one lexical hit.
type scored struct {
	ID    string
	Score float64
}

func cosineSimilarity(a, b []float64) float64 {
	va := mat.NewVecDense(len(a), a)
	vb := mat.NewVecDense(len(b), b)
	normA := mat.Norm(va, 2)
	normB := mat.Norm(vb, 2)
	if normA == 0 || normB == 0 {
		return 0
	}
	return mat.Dot(va, vb) / (normA * normB)
}

type scoredHeap []scored

func (h scoredHeap) Len() int           { return len(h) }
func (h scoredHeap) Less(i, j int) bool { return h[i].Score < h[j].Score }
func (h scoredHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *scoredHeap) Push(x interface{}) {
	*h = append(*h, x.(scored))
}

func (h *scoredHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

type bestResults struct {
	results *scoredHeap
	maxSize int
}

func newBestResults(maxSize int) bestResults {
	results := scoredHeap{}
	heap.Init(&results)

	return bestResults{
		results: &results,
		maxSize: maxSize,
	}
}

func (br bestResults) Add(result scored) {
	heap.Push(br.results, result)
	if br.results.Len() > br.maxSize {
		heap.Pop(br.results)
	}
}

func (br bestResults) Get() []scored {
	results := *br.results
	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// lexicalIndex is an in-memory term-frequency index over one or more
// document indexes. Rebuilt from the store on startup, cheap enough for a
// corpus of hackathon projects and docs.
type lexicalIndex struct {
	mu    sync.RWMutex
	docs  map[string]map[string]int // doc ID -> term -> count
	idx   map[string]string         // doc ID -> index name
	df    map[string]int            // term -> number of docs containing it
	total int
}

func newLexicalIndex() *lexicalIndex {
	return &lexicalIndex{
		docs: make(map[string]map[string]int),
		idx:  make(map[string]string),
		df:   make(map[string]int),
	}
}

func (l *lexicalIndex) Add(id, index, text string) {
	util.Assert(id != "", "lexical Add empty id")

	terms := make(map[string]int)
	for _, tok := range util.Tokenize(text) {
		terms[tok]++
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if old, ok := l.docs[id]; ok {
		for term := range old {
			l.df[term]--
			if l.df[term] == 0 {
				delete(l.df, term)
			}
		}
		l.total--
	}

	l.docs[id] = terms
	l.idx[id] = index
	for term := range terms {
		l.df[term]++
	}
	l.total++
}

// idf dampens terms common across the corpus. Caller holds the read lock.
func (l *lexicalIndex) idf(term string) float64 {
	df := l.df[term]
	if df == 0 {
		return 0
	}
	return math.Log(1 + float64(l.total)/float64(df))
}

// Search scores documents against the query over the query's term space:
// query and document are projected onto the query terms, weighted by tf-idf,
// and compared by cosine. Scores are in [0, 1].
func (l *lexicalIndex) Search(query, index string, maxResults int) []scored {
	tokens := util.Tokenize(query)
	if len(tokens) == 0 || maxResults <= 0 {
		return nil
	}

	queryTerms := make(map[string]int)
	for _, tok := range tokens {
		queryTerms[tok]++
	}
	dims := make([]string, 0, len(queryTerms))
	for term := range queryTerms {
		dims = append(dims, term)
	}
	sort.Strings(dims)

	l.mu.RLock()
	defer l.mu.RUnlock()

	queryVec := make([]float64, len(dims))
	for i, term := range dims {
		queryVec[i] = float64(queryTerms[term]) * l.idf(term)
	}

	best := newBestResults(maxResults)
	for id, terms := range l.docs {
		if index != "" && l.idx[id] != index {
			continue
		}

		docVec := make([]float64, len(dims))
		hit := false
		for i, term := range dims {
			if tf := terms[term]; tf > 0 {
				docVec[i] = float64(tf) * l.idf(term)
				hit = true
			}
		}
		if !hit {
			continue
		}

		best.Add(scored{ID: id, Score: cosineSimilarity(queryVec, docVec)})
	}

	return best.Get()
}
