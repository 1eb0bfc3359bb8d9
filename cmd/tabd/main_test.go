package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/feldrik/tabd/cluster"
	"github.com/feldrik/tabd/dbopen"
	"github.com/feldrik/tabd/grouping"
	"github.com/feldrik/tabd/observability"
	"github.com/feldrik/tabd/tabembed"
)

func testRouter(t *testing.T, authHash []byte) http.Handler {
	t.Helper()
	db := dbopen.OpenMemory(t)
	if err := observability.Init(db); err != nil {
		t.Fatalf("observability init: %v", err)
	}
	runs := observability.NewRunLogger(db)
	emb := tabembed.New(tabembed.Config{}) // no endpoint: deterministic zero vectors
	svc := grouping.New(grouping.Config{}, emb, runs)
	return newRouter(svc, nil, runs, authHash)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	// WHAT: /health answers ok without auth.
	// WHY: Load balancers probe it before any credentials exist.
	h := testRouter(t, nil)
	w := do(t, h, "GET", "/health", "")
	if w.Code != 200 {
		t.Fatalf("health: got %d, want 200", w.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status: got %q, want ok", resp["status"])
	}
}

func TestRouter_ClusterDomain(t *testing.T) {
	// WHAT: Domain-mode clustering over HTTP returns the bucket shape.
	// WHY: Clients of the domain strategy consume {name: [ids]}, not groups.
	h := testRouter(t, nil)
	body := `{
		"strategy": "domain",
		"tabs": [
			{"id": 1, "title": "repo a", "url": "https://github.com/a", "open_time": 1000},
			{"id": 2, "title": "repo b", "url": "https://github.com/b", "open_time": 2000},
			{"id": 3, "title": "Go", "url": "https://en.wikipedia.org/wiki/Go", "open_time": 3000}
		]
	}`
	w := do(t, h, "POST", "/api/cluster", body)
	if w.Code != 200 {
		t.Fatalf("cluster: got %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	var resp struct {
		Strategy string           `json:"strategy"`
		Buckets  map[string][]int `json:"buckets"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Strategy != "domain" {
		t.Errorf("strategy: got %q", resp.Strategy)
	}
	if got := resp.Buckets["Github"]; len(got) != 2 {
		t.Errorf("Github bucket: got %v, want 2 members", got)
	}
	if got := resp.Buckets["Wikipedia"]; len(got) != 1 {
		t.Errorf("Wikipedia bucket: got %v, want 1 member", got)
	}
}

func TestRouter_ClusterInputMismatch(t *testing.T) {
	// WHAT: Semantic clustering with a tab/embedding count mismatch yields 422.
	// WHY: The engine refuses partial results; the API must surface that, not 500.
	h := testRouter(t, nil)
	body := `{
		"strategy": "semantic",
		"tabs": [
			{"id": 1, "title": "a", "url": "https://a.test", "open_time": 1000},
			{"id": 2, "title": "b", "url": "https://b.test", "open_time": 2000}
		],
		"embeddings": [[1, 0]]
	}`
	w := do(t, h, "POST", "/api/cluster", body)
	if w.Code != 422 {
		t.Fatalf("cluster: got %d, want 422 (body %s)", w.Code, w.Body.String())
	}
	var resp struct {
		Groups    []cluster.Group `json:"groups"`
		Ungrouped []int           `json:"ungrouped"`
		Error     string          `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Groups) != 0 {
		t.Errorf("groups: got %v, want none", resp.Groups)
	}
	if len(resp.Ungrouped) != 2 {
		t.Errorf("ungrouped: got %v, want both tabs", resp.Ungrouped)
	}
	if resp.Error == "" {
		t.Error("error field missing")
	}
}

func TestRouter_GroupDomain(t *testing.T) {
	// WHAT: The full pipeline route honors the domain strategy.
	// WHY: Domain requests must not touch the embedding backend at all.
	h := testRouter(t, nil)
	body := `{
		"strategy": "domain",
		"tabs": [
			{"id": 1, "title": "repo a", "url": "https://github.com/a", "open_time": 1000},
			{"id": 2, "title": "repo b", "url": "https://github.com/b", "open_time": 2000}
		]
	}`
	w := do(t, h, "POST", "/api/group", body)
	if w.Code != 200 {
		t.Fatalf("group: got %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	var resp struct {
		Buckets map[string][]int `json:"buckets"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := resp.Buckets["Github"]; len(got) != 2 {
		t.Errorf("Github bucket: got %v, want 2 members", got)
	}
}

func TestRouter_RunsRecorded(t *testing.T) {
	// WHAT: Grouping requests land in the run log, readable via /api/runs.
	h := testRouter(t, nil)
	body := `{"strategy": "domain", "tabs": [{"id": 1, "title": "a", "url": "https://github.com/a", "open_time": 1000}]}`
	if w := do(t, h, "POST", "/api/group", body); w.Code != 200 {
		t.Fatalf("group: got %d", w.Code)
	}

	w := do(t, h, "GET", "/api/runs", "")
	if w.Code != 200 {
		t.Fatalf("runs: got %d, want 200", w.Code)
	}
	var entries []observability.Run
	if err := json.NewDecoder(w.Body).Decode(&entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("runs: got %d entries, want 1", len(entries))
	}
	if entries[0].Strategy != "domain" || entries[0].TabCount != 1 {
		t.Errorf("run: got %+v", entries[0])
	}
}

func TestRouter_BrowserRoutesUnavailable(t *testing.T) {
	// WHAT: Snapshot/apply routes return 503 when no browser is configured.
	h := testRouter(t, nil)
	if w := do(t, h, "GET", "/api/tabs", ""); w.Code != 503 {
		t.Errorf("tabs: got %d, want 503", w.Code)
	}
	if w := do(t, h, "POST", "/api/apply", `{"groups":[],"ungrouped":[]}`); w.Code != 503 {
		t.Errorf("apply: got %d, want 503", w.Code)
	}
}

func TestRouter_BasicAuth(t *testing.T) {
	// WHAT: With a password configured, API routes demand valid basic auth;
	// /health stays open.
	hash, err := bcrypt.GenerateFromPassword([]byte("sesame"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	h := testRouter(t, hash)

	if w := do(t, h, "GET", "/health", ""); w.Code != 200 {
		t.Errorf("health: got %d, want 200", w.Code)
	}

	w := do(t, h, "GET", "/api/runs", "")
	if w.Code != 401 {
		t.Errorf("no creds: got %d, want 401", w.Code)
	}
	if got := w.Header().Get("WWW-Authenticate"); got == "" {
		t.Error("WWW-Authenticate header missing")
	}

	req := httptest.NewRequest("GET", "/api/runs", nil)
	req.SetBasicAuth("tabd", "wrong")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != 401 {
		t.Errorf("wrong password: got %d, want 401", rec.Code)
	}

	req = httptest.NewRequest("GET", "/api/runs", nil)
	req.SetBasicAuth("tabd", "sesame")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Errorf("valid password: got %d, want 200", rec.Code)
	}
}

func TestRouter_SecurityHeaders(t *testing.T) {
	// WHAT: Responses carry the shield headers and a trace id.
	h := testRouter(t, nil)
	w := do(t, h, "GET", "/health", "")
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options: got %q", got)
	}
	if got := w.Header().Get("X-Trace-ID"); len(got) != 8 {
		t.Errorf("X-Trace-ID: got %q, want 8 hex chars", got)
	}
}
