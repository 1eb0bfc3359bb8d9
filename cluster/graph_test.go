package cluster

import (
	"math"
	"testing"
)

// unitPair returns two unit vectors whose cosine similarity is exactly sim.
func unitPair(sim float64) (Vector, Vector) {
	a := Vector{1, 0}
	b := Vector{float32(sim), float32(math.Sqrt(1 - sim*sim))}
	return a, b
}

func allIdx(n int) session {
	s := session{}
	for i := 0; i < n; i++ {
		s.idx = append(s.idx, i)
	}
	return s
}

func TestCosine_ZeroMagnitude(t *testing.T) {
	// WHAT: A zero vector scores 0, never NaN.
	// WHY: Degenerate numeric cases are defined, not exceptional.
	got := Cosine(Vector{0, 0, 0}, Vector{1, 2, 3})
	if got != 0 {
		t.Fatalf("expected 0, got %f", got)
	}
	if math.IsNaN(got) {
		t.Fatal("got NaN")
	}
}

func TestCosine_LengthMismatch(t *testing.T) {
	// WHAT: Mismatched vector lengths score 0.
	if got := Cosine(Vector{1, 0}, Vector{1, 0, 0}); got != 0 {
		t.Fatalf("expected 0, got %f", got)
	}
}

func TestBuildEdges_RawPrune(t *testing.T) {
	// WHAT: Pairs under 0.3 raw cosine are never scored.
	a, b := unitPair(0.2)
	tabs := []Tab{{ID: 0, Title: "a"}, {ID: 1, Title: "b"}}
	edges := buildEdges(tabs, []Vector{a, b}, []ContentType{ContentGeneral, ContentGeneral}, allIdx(2), 0.1)
	if len(edges) != 0 {
		t.Fatalf("expected no edges, got %d", len(edges))
	}
}

func TestBuildEdges_WorkflowBonus(t *testing.T) {
	// WHAT: Cross-typed exploration/reference pairs above 0.55 raw gain +0.10.
	// WHY: Search-then-read workflows belong together even at moderate similarity.
	a, b := unitPair(0.60)
	tabs := []Tab{
		{ID: 0, Title: "rust search results", URL: "https://search.example.com"},
		{ID: 1, Title: "rust documentation", URL: "https://docs.example.org"},
	}
	types := []ContentType{Classify(tabs[0].Title, tabs[0].URL), Classify(tabs[1].Title, tabs[1].URL)}
	edges := buildEdges(tabs, []Vector{a, b}, types, allIdx(2), 0.65)
	if len(edges) != 1 {
		t.Fatalf("expected workflow bonus to create the edge, got %d edges", len(edges))
	}
	if math.Abs(edges[0].weight-0.70) > 1e-6 {
		t.Fatalf("expected weight 0.70, got %f", edges[0].weight)
	}
}

func TestBuildEdges_NoBonusAtOrBelowFloor(t *testing.T) {
	// WHAT: The workflow bonus needs raw similarity strictly above 0.55.
	a, b := unitPair(0.50)
	tabs := []Tab{
		{ID: 0, Title: "search things", URL: "https://search.example.com"},
		{ID: 1, Title: "api reference", URL: "https://docs.example.org"},
	}
	types := []ContentType{ContentExploration, ContentReference}
	edges := buildEdges(tabs, []Vector{a, b}, types, allIdx(2), 0.60)
	if len(edges) != 0 {
		t.Fatalf("expected no edge at the bonus floor, got %d", len(edges))
	}
}

func TestBuildEdges_DedupPenalty(t *testing.T) {
	// WHAT: Byte-identical titles more than 30 minutes apart lose the edge
	// even at perfect similarity.
	// WHY: Two stale "New Tab" duplicates are not a semantic group.
	tabs := []Tab{
		{ID: 0, Title: "New Tab", OpenTime: 0},
		{ID: 1, Title: "New Tab", OpenTime: 40 * minute},
	}
	vecs := []Vector{{1, 0}, {1, 0}} // cosine 1.0
	types := []ContentType{ContentGeneral, ContentGeneral}
	edges := buildEdges(tabs, vecs, types, allIdx(2), 0.65)
	if len(edges) != 0 {
		t.Fatalf("expected dedup penalty to kill the edge, got %d edges", len(edges))
	}
}

func TestBuildEdges_DedupWindowNotExceeded(t *testing.T) {
	// WHAT: Identical titles within 30 minutes keep their edge.
	tabs := []Tab{
		{ID: 0, Title: "Same Article", OpenTime: 0},
		{ID: 1, Title: "Same Article", OpenTime: 5 * minute},
	}
	vecs := []Vector{{1, 0}, {1, 0}}
	types := []ContentType{ContentGeneral, ContentGeneral}
	edges := buildEdges(tabs, vecs, types, allIdx(2), 0.65)
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}
}

func TestBuildEdges_DomainDiscount(t *testing.T) {
	// WHAT: Same-hostname pairs are multiplied by 0.95.
	// WHY: Favors cross-site semantic bridges over trivial same-site links.
	a, b := unitPair(0.68)
	tabs := []Tab{
		{ID: 0, Title: "first", URL: "https://www.example.com/a"},
		{ID: 1, Title: "second", URL: "https://example.com/b"},
	}
	types := []ContentType{ContentGeneral, ContentGeneral}

	// 0.68 × 0.95 = 0.646 < 0.65 → discount removes the edge.
	edges := buildEdges(tabs, []Vector{a, b}, types, allIdx(2), 0.65)
	if len(edges) != 0 {
		t.Fatalf("expected domain discount to drop the edge, got %d", len(edges))
	}

	// Different hosts keep the raw 0.68 edge.
	tabs[1].URL = "https://other.org/b"
	edges = buildEdges(tabs, []Vector{a, b}, types, allIdx(2), 0.65)
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge without discount, got %d", len(edges))
	}
}
