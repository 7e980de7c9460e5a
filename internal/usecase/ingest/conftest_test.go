package ingest

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/batch"
	"github.com/kailas-cloud/ragdex/internal/domain/query"
)

type mockEmbedder struct {
	dim   int
	fail  map[string]bool
	texts []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.texts = append(m.texts, text)
	if m.fail[text] {
		return domain.EmbeddingResult{}, errors.New("provider down")
	}
	vec := make([]float32, m.dim)
	for i := range vec {
		vec[i] = 0.5
	}
	return domain.EmbeddingResult{Embedding: vec}, nil
}

// mockWriter records submitted batches. failBatch (1-based) fails a whole submission;
// reject lists ids the store rejects individually.
type mockWriter struct {
	batches   [][]domain.Document
	failBatch map[int]bool
	reject    map[string]bool
}

func (m *mockWriter) UpsertBatch(_ context.Context, docs []domain.Document) ([]batch.Result, error) {
	m.batches = append(m.batches, docs)
	if m.failBatch[len(m.batches)] {
		return nil, errors.New("connection reset")
	}
	results := make([]batch.Result, len(docs))
	for i, d := range docs {
		if m.reject[d.ID()] {
			results[i] = batch.NewError(d.ID(), errors.New("invalid document"))
			continue
		}
		results[i] = batch.NewOK(d.ID())
	}
	return results, nil
}

type mockProvisioner struct {
	created bool
	err     error
	calls   int
}

func (m *mockProvisioner) Ensure(context.Context) (bool, error) {
	m.calls++
	return m.created, m.err
}

type mockSource struct {
	records []domain.Record
	err     error
	path    string
}

func (m *mockSource) Read(_ context.Context, path string) ([]domain.Record, error) {
	m.path = path
	return m.records, m.err
}

type mockQuerier struct {
	result  *query.Result
	err     error
	lastReq query.Request
}

func (m *mockQuerier) Execute(_ context.Context, req query.Request) (*query.Result, error) {
	m.lastReq = req
	return m.result, m.err
}

func makeDocs(n int) []domain.Document {
	docs := make([]domain.Document, n)
	for i := range docs {
		id := strconv.Itoa(i)
		docs[i] = domain.Document{domain.FieldID: id, domain.FieldContent: "claim " + id}
	}
	return docs
}

// stepClock advances by step on every call.
func stepClock(step time.Duration) func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now := t
		t = t.Add(step)
		return now
	}
}
