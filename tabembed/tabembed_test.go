package tabembed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNoopEmbedder(t *testing.T) {
	emb := New(Config{Dimension: 768, Model: "test-noop"})

	vec, err := emb.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatal(err)
	}
	if len(vec) != 768 {
		t.Fatalf("expected 768 dims, got %d", len(vec))
	}
	if emb.Dimension() != 768 || emb.Model() != "test-noop" {
		t.Fatalf("unexpected noop metadata: dim=%d model=%q", emb.Dimension(), emb.Model())
	}
}

func TestOpenAIClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.Error(w, "not found", 404)
			return
		}

		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}

		data := make([]struct {
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		}, len(req.Input))
		for i := range data {
			vec := make([]float32, 4)
			for j := range vec {
				vec[j] = float32(i+1) * 0.1 * float32(j+1)
			}
			data[i].Embedding = vec
			data[i].Index = i
		}

		json.NewEncoder(w).Encode(map[string]any{
			"data":  data,
			"model": req.Model,
		})
	}))
	defer srv.Close()

	emb := New(Config{
		Endpoint:  srv.URL,
		Model:     "test-model",
		BatchSize: 2,
	})

	vec, err := emb.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatal(err)
	}
	if len(vec) != 4 {
		t.Fatalf("expected 4 dims, got %d", len(vec))
	}
	if emb.Dimension() != 4 {
		t.Fatalf("expected auto-detected dim 4, got %d", emb.Dimension())
	}

	// batchSize=2 with 3 texts forces a split across two HTTP calls.
	vecs, err := emb.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vecs))
	}
}

func TestOpenAIClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	emb := New(Config{Endpoint: srv.URL, Model: "m"})
	if _, err := emb.Embed(context.Background(), "x"); err == nil {
		t.Fatal("expected error from 503 response")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	original := []float32{1.0, -2.5, 3.14, 0, -0.001}
	restored := DeserializeVector(SerializeVector(original))
	if len(restored) != len(original) {
		t.Fatalf("length mismatch: %d vs %d", len(restored), len(original))
	}
	for i := range original {
		if restored[i] != original[i] {
			t.Fatalf("mismatch at %d: %f vs %f", i, restored[i], original[i])
		}
	}
}

func TestTabText(t *testing.T) {
	cases := []struct {
		title, url, want string
	}{
		{"Cookie recipe", "https://x.com", "Cookie recipe"},
		{"  padded  ", "https://x.com", "padded"},
		{"", "https://x.com/page", "https://x.com/page"},
		{"   ", "", ""},
	}
	for _, c := range cases {
		if got := TabText(c.title, c.url); got != c.want {
			t.Errorf("TabText(%q, %q) = %q, want %q", c.title, c.url, got, c.want)
		}
	}
}
