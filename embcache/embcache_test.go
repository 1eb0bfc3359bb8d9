package embcache

import (
	"context"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/feldrik/tabd/dbopen"
	"github.com/feldrik/tabd/tabembed"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := Open(Config{DB: dbopen.OpenMemory(t)})
	if err != nil {
		t.Fatal(err)
	}
	return cache
}

func TestCache_PutGet(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	vec := []float32{0.1, -0.2, 0.3}
	if err := cache.Put(ctx, "e5", "cookie recipe", vec); err != nil {
		t.Fatal(err)
	}

	got, ok, err := cache.Get(ctx, "e5", "cookie recipe")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected hit")
	}
	for i := range vec {
		if got[i] != vec[i] {
			t.Fatalf("vector[%d] = %f, want %f", i, got[i], vec[i])
		}
	}
}

func TestCache_MissOnDifferentModel(t *testing.T) {
	// WHAT: The same text under a different model is a miss.
	// WHY: A model switch must never serve vectors from the old model.
	cache := openTestCache(t)
	ctx := context.Background()

	if err := cache.Put(ctx, "e5", "hello", []float32{1}); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := cache.Get(ctx, "minilm", "hello"); ok {
		t.Fatal("expected miss for different model")
	}
}

func TestCache_PutBatch(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	texts := []string{"a", "b", "c"}
	vecs := [][]float32{{1}, {2}, {3}}
	if err := cache.PutBatch(ctx, "e5", texts, vecs); err != nil {
		t.Fatal(err)
	}

	n, err := cache.Len(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("len = %d, want 3", n)
	}
}

func TestCache_PutBatchMismatch(t *testing.T) {
	cache := openTestCache(t)
	if err := cache.PutBatch(context.Background(), "e5", []string{"a"}, nil); err == nil {
		t.Fatal("expected error on length mismatch")
	}
}

func TestCache_Prune(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	if err := cache.Put(ctx, "e5", "old", []float32{1}); err != nil {
		t.Fatal(err)
	}
	// Backdate the entry past the prune cutoff.
	if _, err := cache.db.Exec(
		`UPDATE embedding_cache SET created_at = ?`,
		time.Now().Add(-48*time.Hour).UnixMilli()); err != nil {
		t.Fatal(err)
	}
	if err := cache.Put(ctx, "e5", "fresh", []float32{2}); err != nil {
		t.Fatal(err)
	}

	deleted, err := cache.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}
	if _, ok, _ := cache.Get(ctx, "e5", "fresh"); !ok {
		t.Fatal("fresh entry must survive prune")
	}
}

func TestKeyDistinct(t *testing.T) {
	// Model/text boundary must matter: ("ab","c") != ("a","bc").
	if Key("ab", "c") == Key("a", "bc") {
		t.Fatal("keys collide across the model/text boundary")
	}
}

// countingEmbedder counts backend calls to verify read-through behavior.
type countingEmbedder struct {
	tabembed.Embedder
	batchCalls int
	embedded   int
}

func newCountingEmbedder() *countingEmbedder {
	return &countingEmbedder{Embedder: tabembed.New(tabembed.Config{Dimension: 4, Model: "stub"})}
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.batchCalls++
	c.embedded += len(texts)
	return c.Embedder.EmbedBatch(ctx, texts)
}

func TestCachedEmbedder_ReadThrough(t *testing.T) {
	cache := openTestCache(t)
	backend := newCountingEmbedder()
	emb := Wrap(backend, cache)
	ctx := context.Background()

	// First batch: all misses hit the backend.
	if _, err := emb.EmbedBatch(ctx, []string{"a", "b", "c"}); err != nil {
		t.Fatal(err)
	}
	if backend.embedded != 3 {
		t.Fatalf("backend embedded %d texts, want 3", backend.embedded)
	}

	// Second batch: one new text, two hits.
	if _, err := emb.EmbedBatch(ctx, []string{"a", "d", "c"}); err != nil {
		t.Fatal(err)
	}
	if backend.embedded != 4 {
		t.Fatalf("backend embedded %d texts total, want 4", backend.embedded)
	}

	// Fully cached batch never touches the backend.
	calls := backend.batchCalls
	if _, err := emb.EmbedBatch(ctx, []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	if backend.batchCalls != calls {
		t.Fatal("fully cached batch must not call the backend")
	}
}

func TestWrap_NilCache(t *testing.T) {
	backend := tabembed.New(tabembed.Config{Dimension: 2})
	if Wrap(backend, nil) != backend {
		t.Fatal("nil cache must return the backend unchanged")
	}
}
