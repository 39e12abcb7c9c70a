package search

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/pkg/errors"
	chromem "github.com/philippgille/chromem-go"
)

// VectorStore wraps chromem-go with one collection per document index and
// disk persistence.
type VectorStore struct {
	mu      sync.RWMutex
	db      *chromem.DB
	embedFn chromem.EmbeddingFunc
}

// NewVectorStore opens (or creates) the persistent vector store at dir.
// embedFn computes document and query embeddings.
func NewVectorStore(dir string, embedFn chromem.EmbeddingFunc) (*VectorStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errors.Wrap(err, "create vectorstore dir")
	}
	db, err := chromem.NewPersistentDB(dir, false)
	if err != nil {
		return nil, errors.Wrap(err, "open vectorstore")
	}
	return &VectorStore{db: db, embedFn: embedFn}, nil
}

func collectionName(index string) string {
	return fmt.Sprintf("hackmate_%s", index)
}

// getOrCreateCollection returns the per-index collection. Caller holds the lock.
func (v *VectorStore) getOrCreateCollection(index string) (*chromem.Collection, error) {
	name := collectionName(index)
	col := v.db.GetCollection(name, v.embedFn)
	if col == nil {
		var err error
		col, err = v.db.CreateCollection(name, nil, v.embedFn)
		if err != nil {
			return nil, errors.Wrapf(err, "create collection %s", name)
		}
	}
	return col, nil
}

// Upsert indexes (or re-indexes) a document.
func (v *VectorStore) Upsert(ctx context.Context, doc Document) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	col, err := v.getOrCreateCollection(doc.Index)
	if err != nil {
		return err
	}

	return col.AddDocument(ctx, chromem.Document{
		ID:      doc.ID,
		Content: doc.Title + "\n" + doc.Content,
		Metadata: map[string]string{
			"title":  doc.Title,
			"url":    doc.URL,
			"origin": doc.Origin,
		},
	})
}

// Search returns the top-k documents most similar to the query.
func (v *VectorStore) Search(ctx context.Context, index, query string, k int) ([]scored, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	col, err := v.getOrCreateCollection(index)
	if err != nil {
		return nil, err
	}

	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	var results []chromem.Result
	// chromem-go sometimes rejects k despite the Count check. Step down
	// until a query succeeds.
	for attemptK := k; attemptK > 0; attemptK-- {
		results, err = col.Query(ctx, query, attemptK, nil, nil)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "query collection %s", collectionName(index))
	}

	out := make([]scored, 0, len(results))
	for _, r := range results {
		out = append(out, scored{ID: r.ID, Score: float64(r.Similarity)})
	}
	return out, nil
}
