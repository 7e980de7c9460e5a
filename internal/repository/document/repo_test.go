package document

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/kailas-cloud/ragdex/internal/db"
	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/batch"
)

func TestUpsertBatch_KeysAndPayload(t *testing.T) {
	repo, ms := newTestRepo(t)

	var got []db.JSONSetItem
	ms.jsonSetMultiFn = func(_ context.Context, items []db.JSONSetItem) ([]error, error) {
		got = items
		return make([]error, len(items)), nil
	}

	results, err := repo.UpsertBatch(context.Background(), []domain.Document{
		{"id": "1", "content": "a", "vector": []float32{0.5}},
		{"id": "2", "claimAmount": 10.5},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Key != "ragdex:claims:1" || got[1].Key != "ragdex:claims:2" {
		t.Fatalf("unexpected items: %+v", got)
	}
	if got[0].Path != "$" {
		t.Errorf("path = %q, want $", got[0].Path)
	}
	var payload map[string]any
	if err := json.Unmarshal(got[0].Data, &payload); err != nil {
		t.Fatal(err)
	}
	if payload["content"] != "a" {
		t.Errorf("unexpected payload: %v", payload)
	}
	for _, r := range results {
		if r.Status() != batch.StatusOK {
			t.Errorf("doc %s: status %s", r.ID(), r.Status())
		}
	}
}

func TestUpsertBatch_PerItemFailures(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.jsonSetMultiFn = func(_ context.Context, items []db.JSONSetItem) ([]error, error) {
		if len(items) != 2 {
			t.Fatalf("doc without id must not reach the store, got %d items", len(items))
		}
		return []error{nil, errors.New("OOM command not allowed")}, nil
	}

	results, err := repo.UpsertBatch(context.Background(), []domain.Document{
		{"id": "1"},
		{"content": "orphan"},
		{"id": "3"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Status() != batch.StatusOK {
		t.Errorf("doc 1 should succeed")
	}
	if results[1].Status() != batch.StatusError || !errors.Is(results[1].Err(), domain.ErrInvalidInput) {
		t.Errorf("doc without id should fail validation, got %v", results[1].Err())
	}
	if results[2].Status() != batch.StatusError || results[2].ID() != "3" {
		t.Errorf("doc 3 should carry the store rejection, got %+v", results[2])
	}
}

func TestUpsertBatch_WholeBatchFailure(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.jsonSetMultiFn = func(context.Context, []db.JSONSetItem) ([]error, error) {
		return nil, errors.New("connection reset")
	}

	if _, err := repo.UpsertBatch(context.Background(), []domain.Document{{"id": "1"}}); err == nil {
		t.Fatal("expected batch error")
	}
}

func TestGet(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.jsonGetFn = func(_ context.Context, key string, _ ...string) ([]byte, error) {
		if key != "ragdex:claims:5" {
			return nil, db.ErrKeyNotFound
		}
		return []byte(`{"id":"5","patientState":"TX"}`), nil
	}

	doc, err := repo.Get(context.Background(), "5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc["patientState"] != "TX" {
		t.Errorf("unexpected doc: %v", doc)
	}

	if _, err := repo.Get(context.Background(), "6"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCountByID(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchFn = func(_ context.Context, q *db.Query) (*db.SearchResult, error) {
		if q.Query != `@id:{17}` || q.Limit != 0 {
			t.Errorf("unexpected query %q limit %d", q.Query, q.Limit)
		}
		return &db.SearchResult{Total: 1}, nil
	}

	n, err := repo.CountByID(context.Background(), "17")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestExists(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.existsFn = func(_ context.Context, key string) (bool, error) {
		return key == "ragdex:claims:5", nil
	}

	if ok, err := repo.Exists(context.Background(), "5"); err != nil || !ok {
		t.Errorf("Exists(5) = %v, %v", ok, err)
	}
	if ok, err := repo.Exists(context.Background(), "6"); err != nil || ok {
		t.Errorf("Exists(6) = %v, %v", ok, err)
	}

	boom := errors.New("boom")
	ms.existsFn = func(context.Context, string) (bool, error) { return false, boom }
	if _, err := repo.Exists(context.Background(), "5"); !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, ms := newTestRepo(t)
	var deleted []string
	ms.existsFn = func(_ context.Context, key string) (bool, error) {
		return key == "ragdex:claims:5", nil
	}
	ms.delFn = func(_ context.Context, key string) error {
		deleted = append(deleted, key)
		return nil
	}

	if err := repo.Delete(context.Background(), "5"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deleted) != 1 || deleted[0] != "ragdex:claims:5" {
		t.Errorf("deleted %v", deleted)
	}

	if err := repo.Delete(context.Background(), "6"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if len(deleted) != 1 {
		t.Errorf("missing document must not be deleted, got %v", deleted)
	}

	ms.delFn = func(context.Context, string) error { return errors.New("conn reset") }
	if err := repo.Delete(context.Background(), "5"); err == nil {
		t.Fatal("expected del error")
	}
}
