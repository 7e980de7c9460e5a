package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/ragdex/internal/db"
	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/batch"
)

// store is the consumer interface for documents (ISP).
type store interface {
	JSONSetMulti(ctx context.Context, items []db.JSONSetItem) ([]error, error)
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, key string) error
	Search(ctx context.Context, q *db.Query) (*db.SearchResult, error)
}

// Repo stores prepared documents as JSON keyed by their id.
type Repo struct {
	store store
	ks    domain.Keyspace
}

// New creates a document repository.
func New(s store, ks domain.Keyspace) *Repo {
	return &Repo{store: s, ks: ks}
}

// UpsertBatch writes every document at its id-derived key in one pipeline.
// Re-uploading an id overwrites the stored document. Per-document rejections
// come back as results; the error is reserved for a failure of the whole batch.
func (r *Repo) UpsertBatch(ctx context.Context, docs []domain.Document) ([]batch.Result, error) {
	results := make([]batch.Result, len(docs))
	items := make([]db.JSONSetItem, 0, len(docs))
	slots := make([]int, 0, len(docs))

	for i, doc := range docs {
		id := doc.ID()
		if id == "" {
			results[i] = batch.NewError(id, fmt.Errorf("%w: document has no id", domain.ErrInvalidInput))
			continue
		}
		data, err := json.Marshal(doc)
		if err != nil {
			results[i] = batch.NewError(id, fmt.Errorf("marshal document: %w", err))
			continue
		}
		items = append(items, db.JSONSetItem{Key: r.ks.DocKey(id), Path: "$", Data: data})
		slots = append(slots, i)
	}

	if len(items) == 0 {
		return results, nil
	}

	errs, err := r.store.JSONSetMulti(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("json.set batch of %d: %w", len(items), err)
	}

	for j, slot := range slots {
		id := docs[slot].ID()
		if j < len(errs) && errs[j] != nil {
			results[slot] = batch.NewError(id, errs[j])
			continue
		}
		results[slot] = batch.NewOK(id)
	}
	return results, nil
}

// Get returns a stored document by id.
func (r *Repo) Get(ctx context.Context, id string) (domain.Document, error) {
	key := r.ks.DocKey(id)
	raw, err := r.store.JSONGet(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("json.get %s: %w", key, err)
	}
	var doc domain.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return doc, nil
}

// Exists reports whether a document is stored under id.
func (r *Repo) Exists(ctx context.Context, id string) (bool, error) {
	key := r.ks.DocKey(id)
	ok, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", key, err)
	}
	return ok, nil
}

// Delete removes the document stored under id. The index drops it on its own.
func (r *Repo) Delete(ctx context.Context, id string) error {
	ok, err := r.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	key := r.ks.DocKey(id)
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// CountByID returns how many indexed documents carry the given id.
func (r *Repo) CountByID(ctx context.Context, id string) (int, error) {
	res, err := r.store.Search(ctx, &db.Query{
		IndexName: r.ks.IndexName(),
		Query:     db.TagFilter(domain.FieldID, id),
	})
	if err != nil {
		return 0, fmt.Errorf("count id %s: %w", id, err)
	}
	return res.Total, nil
}
