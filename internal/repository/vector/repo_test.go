package vector

import (
	"context"
	"errors"
	"testing"

	"github.com/raglab/morgana/internal/db"
	"github.com/raglab/morgana/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetMultiFn   func(ctx context.Context, items []db.HashSetItem) error
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	dropIndexFn   func(ctx context.Context, name string) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	searchKNNFn   func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) DropIndex(ctx context.Context, name string) error {
	if m.dropIndexFn != nil {
		return m.dropIndexFn(ctx, name)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func testConfig() Config {
	return Config{
		KeyPrefix:  "morgana:",
		Collection: "chunks",
		Dimensions: 3,
		Metric:     "IP",
	}
}

func TestReset_DropsExistingIndex(t *testing.T) {
	dropped := false
	created := false
	store := &mockStore{
		indexExistsFn: func(_ context.Context, name string) (bool, error) {
			if name != "morgana:chunks:idx" {
				t.Errorf("unexpected index name %q", name)
			}
			return true, nil
		},
		dropIndexFn: func(_ context.Context, _ string) error {
			dropped = true
			return nil
		},
		createIndexFn: func(_ context.Context, def *db.IndexDefinition) error {
			created = true
			if len(def.Prefixes) != 1 || def.Prefixes[0] != "morgana:chunks:" {
				t.Errorf("unexpected prefixes %v", def.Prefixes)
			}
			var hasVector bool
			for _, f := range def.Fields {
				if f.Type == db.IndexFieldVector {
					hasVector = true
					if f.Dimensions != 3 {
						t.Errorf("vector field dimensions = %d, want 3", f.Dimensions)
					}
					// SearchKNN addresses @vector, so the schema must
					// expose the blob field under that alias.
					if f.Alias != "vector" {
						t.Errorf("vector field alias = %q, want %q", f.Alias, "vector")
					}
				}
			}
			if !hasVector {
				t.Error("index schema must include a vector field")
			}
			return nil
		},
	}

	r := New(store, testConfig())
	if err := r.Reset(context.Background()); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if !dropped || !created {
		t.Errorf("expected drop+create, got dropped=%v created=%v", dropped, created)
	}
}

func TestUpsertChunks_DimensionMismatch(t *testing.T) {
	r := New(&mockStore{}, testConfig())

	err := r.UpsertChunks(context.Background(), []domain.Chunk{
		{ID: "c1", Text: "text", Vector: []float32{0.1, 0.2}},
	})
	if err == nil {
		t.Fatal("expected error for dimension mismatch")
	}
}

func TestUpsertChunks_WritesHashes(t *testing.T) {
	var got []db.HashSetItem
	store := &mockStore{
		hsetMultiFn: func(_ context.Context, items []db.HashSetItem) error {
			got = items
			return nil
		},
	}

	r := New(store, testConfig())
	err := r.UpsertChunks(context.Background(), []domain.Chunk{
		{ID: "c1", Title: "T", Text: "body", Vector: []float32{0.1, 0.2, 0.3}},
	})
	if err != nil {
		t.Fatalf("UpsertChunks failed: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected 1 hash, got %d", len(got))
	}
	if got[0].Key != "morgana:chunks:c1" {
		t.Errorf("unexpected key %q", got[0].Key)
	}
	if got[0].Fields["__content"] != "body" || got[0].Fields["doc_id"] != "c1" {
		t.Errorf("unexpected fields %v", got[0].Fields)
	}
	if len(got[0].Fields["__vector"]) != 12 {
		t.Errorf("vector blob should be 12 bytes, got %d", len(got[0].Fields["__vector"]))
	}
}

func TestSearch_ParsesEntries(t *testing.T) {
	store := &mockStore{
		searchKNNFn: func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
			if q.K != 2 {
				t.Errorf("expected k=2, got %d", q.K)
			}
			return &db.SearchResult{
				Total: 2,
				Entries: []db.SearchEntry{
					{Key: "morgana:chunks:c1", Fields: map[string]string{
						"__content": "first", "title": "A", "doc_id": "c1", "__vector_score": "0.12",
					}},
					{Key: "morgana:chunks:c2", Fields: map[string]string{
						"__content": "second", "doc_id": "c2", "__vector_score": "0.48",
					}},
				},
			}, nil
		},
	}

	r := New(store, testConfig())
	results, err := r.Search(context.Background(), []float32{0.1, 0.2, 0.3}, 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].DocID != "c1" || results[0].Text != "first" || results[0].Distance != 0.12 {
		t.Errorf("unexpected first result %+v", results[0])
	}
	if results[1].DocID != "c2" || results[1].Distance != 0.48 {
		t.Errorf("unexpected second result %+v", results[1])
	}
}

func TestSearch_StoreError(t *testing.T) {
	boom := errors.New("connection refused")
	store := &mockStore{
		searchKNNFn: func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
			return nil, boom
		},
	}

	r := New(store, testConfig())
	_, err := r.Search(context.Background(), []float32{0.1, 0.2, 0.3}, 1)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
