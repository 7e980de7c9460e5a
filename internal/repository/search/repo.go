package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/ragdex/internal/db"
	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/query"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	Search(ctx context.Context, q *db.Query) (*db.SearchResult, error)
}

// Repo implements usecase/query.Repository over an FT index.
type Repo struct {
	store store
	ks    domain.Keyspace
}

// New creates a search repository.
func New(s store, ks domain.Keyspace) *Repo {
	return &Repo{store: s, ks: ks}
}

// Query runs one FT.SEARCH and maps hits to documents.
// Without a projection whole documents are returned, minus the vector.
func (r *Repo) Query(ctx context.Context, req query.Request) (*query.Result, error) {
	q := &db.Query{
		IndexName:    r.ks.IndexName(),
		Query:        ComposeQuery(req.Text, req.Filter),
		Limit:        req.TopK,
		ReturnFields: req.Select,
		SortBy:       req.OrderBy,
		SortDesc:     req.Desc,
	}

	sr, err := r.store.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", q.IndexName, err)
	}

	docs := make([]domain.Document, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		doc, err := r.toDocument(entry, len(req.Select) > 0)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	total := sr.Total
	if total < len(docs) {
		total = len(docs)
	}
	return &query.Result{Documents: docs, TotalCount: total}, nil
}

// ComposeQuery combines free text and an opaque filter expression into one query string.
// "*" (or empty) text with no filter matches everything.
func ComposeQuery(text, filter string) string {
	filter = strings.TrimSpace(filter)
	if filter == query.MatchAll {
		filter = ""
	}
	text = strings.TrimSpace(text)
	hasText := text != "" && text != query.MatchAll

	switch {
	case filter == "" && !hasText:
		return query.MatchAll
	case filter == "":
		return db.EscapeText(text)
	case !hasText:
		return filter
	default:
		return "(" + filter + ") (" + db.EscapeText(text) + ")"
	}
}

func (r *Repo) toDocument(entry db.SearchEntry, projected bool) (domain.Document, error) {
	if projected {
		doc := make(domain.Document, len(entry.Fields))
		for k, v := range entry.Fields {
			doc[k] = v
		}
		return doc, nil
	}

	raw, ok := entry.Fields[db.JSONRootField]
	if !ok {
		return domain.Document{domain.FieldID: r.ks.DocID(entry.Key)}, nil
	}
	doc, err := decodeDocument([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", entry.Key, err)
	}
	delete(doc, domain.FieldVector)
	if _, ok := doc[domain.FieldID]; !ok {
		doc[domain.FieldID] = r.ks.DocID(entry.Key)
	}
	return doc, nil
}

// decodeDocument keeps numbers as json.Number so integers survive round trips untouched.
func decodeDocument(raw []byte) (domain.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc domain.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = domain.Document{}
	}
	return doc, nil
}
