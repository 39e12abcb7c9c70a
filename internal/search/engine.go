package search

import (
	"context"
	"log/slog"

	"github.com/akontos/hackmate/internal/api"
	"github.com/akontos/hackmate/internal/util"
	"github.com/pkg/errors"
)

const (
	defaultSize = 5
	maxSize     = 25

	// Hybrid fusion weights, equal boosts for both signals.
	semanticWeight = 1.0
	lexicalWeight  = 1.0

	snippetLength = 200
)

// Engine answers search requests over the document store. The sqlite store
// is the source of truth; the lexical index is rebuilt from it on startup
// and the chromem collections persist alongside it.
type Engine struct {
	store   *Store
	vectors *VectorStore
	lexical *lexicalIndex
}

func NewEngine(store *Store, vectors *VectorStore) (*Engine, error) {
	util.Assert(store != nil, "NewEngine nil store")
	util.Assert(vectors != nil, "NewEngine nil vectors")

	e := &Engine{
		store:   store,
		vectors: vectors,
		lexical: newLexicalIndex(),
	}

	docs, err := store.List("")
	if err != nil {
		return nil, errors.Wrap(err, "rebuild lexical index")
	}
	for _, doc := range docs {
		e.lexical.Add(doc.ID, doc.Index, doc.Title+"\n"+doc.Content)
	}
	slog.Info("lexical index rebuilt", "documents", len(docs))

	return e, nil
}

// Index writes a document to the store and both indexes.
func (e *Engine) Index(ctx context.Context, doc Document) error {
	util.Assert(doc.ID != "", "Index empty document ID")
	util.Assert(doc.Index != "", "Index empty index name")

	if err := e.store.Upsert(doc); err != nil {
		return err
	}
	e.lexical.Add(doc.ID, doc.Index, doc.Title+"\n"+doc.Content)
	if err := e.vectors.Upsert(ctx, doc); err != nil {
		return errors.Wrapf(err, "vector index %s", doc.ID)
	}
	return nil
}

// Document returns a stored document by ID.
func (e *Engine) Document(id string) (Document, error) {
	return e.store.Get(id)
}

// Documents lists the contents of one index.
func (e *Engine) Documents(index string) ([]Document, error) {
	return e.store.List(index)
}

// Count returns the document count of one index.
func (e *Engine) Count(index string) (int, error) {
	return e.store.Count(index)
}

func clampSize(size int) int {
	if size <= 0 {
		return defaultSize
	}
	if size > maxSize {
		return maxSize
	}
	return size
}

// Search runs a query in the requested mode. Keyword mode never touches the
// embedding backend; semantic mode never touches the lexical index; hybrid
// fuses both with fixed weights.
func (e *Engine) Search(ctx context.Context, query, mode, index string, size int) ([]api.SearchResult, error) {
	util.Assert(query != "", "Search empty query")

	size = clampSize(size)

	var hits []scored
	switch mode {
	case api.ModeKeyword:
		hits = e.lexical.Search(query, index, size)
	case api.ModeSemantic:
		var err error
		hits, err = e.vectors.Search(ctx, index, query, size)
		if err != nil {
			return nil, err
		}
	default:
		var err error
		hits, err = e.hybrid(ctx, query, index, size)
		if err != nil {
			return nil, err
		}
	}

	results := make([]api.SearchResult, 0, len(hits))
	for _, hit := range hits {
		doc, err := e.store.Get(hit.ID)
		if err != nil {
			if IsNotFound(err) {
				slog.Warn("indexed document missing from store", "id", hit.ID)
				continue
			}
			return nil, err
		}
		results = append(results, api.SearchResult{
			Title:       doc.Title,
			Description: util.Truncate(doc.Content, snippetLength),
			URL:         doc.URL,
			Score:       hit.Score,
			Origin:      doc.Origin,
			Metadata:    doc.Metadata,
		})
	}
	return results, nil
}

func (e *Engine) hybrid(ctx context.Context, query, index string, size int) ([]scored, error) {
	semantic, err := e.vectors.Search(ctx, index, query, size)
	if err != nil {
		return nil, err
	}
	lexical := e.lexical.Search(query, index, size)

	fused := make(map[string]float64, len(semantic)+len(lexical))
	for _, hit := range semantic {
		fused[hit.ID] += semanticWeight * hit.Score
	}
	for _, hit := range lexical {
		fused[hit.ID] += lexicalWeight * hit.Score
	}

	best := newBestResults(size)
	for id, score := range fused {
		best.Add(scored{ID: id, Score: score})
	}
	return best.Get(), nil
}
