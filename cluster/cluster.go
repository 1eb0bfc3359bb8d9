// CLAUDE:SUMMARY Engine entry point: validates input, dispatches to domain/semantic/hybrid pipelines.
// Package cluster is a deterministic tab-grouping engine. Given a batch of
// browser-tab descriptors and optional precomputed text embeddings, it
// partitions tabs into named groups with confidence scores.
//
// The engine is a stateless, synchronous pure function of its inputs and
// config: it performs no I/O, persists nothing, and shares no mutable state
// between invocations. Tab metadata, embeddings, and the layer applying the
// returned groups are all external collaborators.
//
// Usage:
//
//	res, err := cluster.Cluster(cluster.Request{
//	    Tabs:       tabs,
//	    Embeddings: vecs,
//	    Strategy:   cluster.StrategySemantic,
//	})
//	// res.Groups are named groups; res.Ungrouped lists leftover tab ids.
//
// A failed invocation never returns a partial result: the Result lists every
// input tab as ungrouped and the error carries the structured cause.
package cluster

import (
	"fmt"
	"strconv"
)

// Cluster runs one clustering invocation. On validation failure the returned
// Result reports all input tabs as ungrouped alongside the typed error.
func Cluster(req Request) (*Result, error) {
	cfg := req.Config
	cfg.defaults()

	strategy := req.Strategy
	if strategy == "" {
		strategy = StrategySemantic
	}

	if strategy == StrategyDomain {
		return runDomain(req.Tabs), nil
	}

	if err := validateVectors(req, strategy); err != nil {
		return failResult(strategy, req.Tabs), err
	}

	switch strategy {
	case StrategySemantic:
		return runSemantic(req.Tabs, req.Embeddings, cfg), nil
	case StrategyHybrid:
		return runHybrid(req.Tabs, req.Embeddings, req.Anchors, cfg), nil
	default:
		return failResult(strategy, req.Tabs), fmt.Errorf("cluster: unknown strategy %q", strategy)
	}
}

// validateVectors fails fast on count or dimension mismatches so the caller
// never sees a partial result built on misaligned inputs.
func validateVectors(req Request, strategy Strategy) error {
	if len(req.Embeddings) != len(req.Tabs) {
		return fmt.Errorf("%w: %d tabs, %d embeddings", ErrInputMismatch, len(req.Tabs), len(req.Embeddings))
	}

	dim := -1
	for i, v := range req.Embeddings {
		if dim == -1 {
			dim = len(v)
			continue
		}
		if len(v) != dim {
			return fmt.Errorf("%w: embedding %d has %d dims, expected %d", ErrInvalidVector, i, len(v), dim)
		}
	}

	if strategy == StrategyHybrid {
		for i, a := range req.Anchors {
			if dim >= 0 && len(a.Vector) != dim {
				return fmt.Errorf("%w: anchor %d has %d dims, expected %d", ErrInvalidVector, i, len(a.Vector), dim)
			}
		}
	}
	return nil
}

func failResult(strategy Strategy, tabs []Tab) *Result {
	res := &Result{Strategy: strategy, Ungrouped: make([]int, len(tabs))}
	for i, t := range tabs {
		res.Ungrouped[i] = t.ID
	}
	return res
}

func groupID(n int) string {
	return "g" + strconv.Itoa(n+1)
}

// runSemantic is the full pipeline: session segmentation, per-session
// similarity graph, connected components, validation, naming. Accepted
// groups across all sessions merge into one result; no group ever spans a
// session boundary.
func runSemantic(tabs []Tab, embeddings []Vector, cfg Config) *Result {
	res := &Result{Strategy: StrategySemantic, Ungrouped: []int{}}

	types := make([]ContentType, len(tabs))
	for i, t := range tabs {
		types[i] = Classify(t.Title, t.URL)
	}

	assigned := make([]bool, len(tabs))
	used := make(map[string]bool)

	for _, s := range segmentSessions(tabs, cfg.SessionGap) {
		edges := buildEdges(tabs, embeddings, types, s, cfg.MinSimilarity)
		for _, comp := range connectedComponents(s.idx, edges) {
			metrics, ok := validateComponent(tabs, embeddings, types, comp, cfg)
			if !ok {
				continue
			}

			members := make([]int, len(comp))
			for i, idx := range comp {
				members[i] = tabs[idx].ID
				assigned[idx] = true
			}
			res.Groups = append(res.Groups, Group{
				ID:         groupID(len(res.Groups)),
				Title:      disambiguate(used, nameGroup(tabs, comp), ""),
				Members:    members,
				Confidence: metrics.confidence,
				Type:       GroupSemantic,
				Debug: &GroupDebug{
					AvgSim:      metrics.avgSim,
					SpanMinutes: metrics.spanMinutes,
				},
			})
		}
	}

	for i, t := range tabs {
		if !assigned[i] {
			res.Ungrouped = append(res.Ungrouped, t.ID)
		}
	}
	return res
}
