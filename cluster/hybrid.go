// CLAUDE:SUMMARY Hybrid strategy: anchor phase, semantic-residual phase, domain-fallback phase.
package cluster

// runHybrid runs three ordered phases, each consuming only tabs left
// unassigned by the previous one. A tab ends up in exactly one group, or
// none.
func runHybrid(tabs []Tab, embeddings []Vector, anchors []Anchor, cfg Config) *Result {
	res := &Result{Strategy: StrategyHybrid, Ungrouped: []int{}}
	used := make(map[string]bool)

	remaining := make([]int, len(tabs))
	for i := range remaining {
		remaining[i] = i
	}

	remaining = anchorPhase(res, used, tabs, embeddings, anchors, remaining, cfg)
	remaining = residualPhase(res, used, tabs, embeddings, remaining, cfg)
	remaining = fallbackPhase(res, used, tabs, remaining)

	for _, i := range remaining {
		res.Ungrouped = append(res.Ungrouped, tabs[i].ID)
	}
	return res
}

// anchorPhase assigns each tab to its single best-scoring anchor when that
// score clears the anchor threshold. Exact-equal best scores break toward
// the lowest anchor index. No size or confidence gate.
func anchorPhase(res *Result, used map[string]bool, tabs []Tab, embeddings []Vector, anchors []Anchor, remaining []int, cfg Config) []int {
	if len(anchors) == 0 {
		return remaining
	}

	byAnchor := make([][]int, len(anchors))
	var leftover []int

	for _, i := range remaining {
		best, bestScore := -1, 0.0
		for a := range anchors {
			if score := Cosine(embeddings[i], anchors[a].Vector); score > bestScore {
				best, bestScore = a, score
			}
		}
		if best >= 0 && bestScore > cfg.AnchorThreshold {
			byAnchor[best] = append(byAnchor[best], i)
		} else {
			leftover = append(leftover, i)
		}
	}

	for a, members := range byAnchor {
		if len(members) == 0 {
			continue
		}
		ids := make([]int, len(members))
		for i, idx := range members {
			ids[i] = tabs[idx].ID
		}
		res.Groups = append(res.Groups, Group{
			ID:      groupID(len(res.Groups)),
			Title:   disambiguate(used, anchors[a].Label, ""),
			Members: ids,
			Type:    GroupAnchor,
		})
	}
	return leftover
}

// residualPhase clusters the remaining tabs by connected components over
// plain cosine edges at the semantic threshold — no session split, no score
// adjustments. Components below the size floor are released back.
func residualPhase(res *Result, used map[string]bool, tabs []Tab, embeddings []Vector, remaining []int, cfg Config) []int {
	var edges []edge
	for i := 0; i < len(remaining); i++ {
		for j := i + 1; j < len(remaining); j++ {
			a, b := remaining[i], remaining[j]
			if score := Cosine(embeddings[a], embeddings[b]); score >= cfg.SemanticThreshold {
				edges = append(edges, edge{a: a, b: b, weight: score})
			}
		}
	}

	var leftover []int
	for _, comp := range connectedComponents(remaining, edges) {
		if len(comp) < cfg.MinGroupSize {
			leftover = append(leftover, comp...)
			continue
		}
		ids := make([]int, len(comp))
		for i, idx := range comp {
			ids[i] = tabs[idx].ID
		}
		res.Groups = append(res.Groups, Group{
			ID:      groupID(len(res.Groups)),
			Title:   disambiguate(used, nameGroup(tabs, comp), " (Ext)"),
			Members: ids,
			Type:    GroupSemantic,
		})
	}
	return leftover
}

// fallbackPhase buckets the rest by hostname; singleton buckets are
// discarded back to ungrouped.
func fallbackPhase(res *Result, used map[string]bool, tabs []Tab, remaining []int) []int {
	idByIdx := make(map[int]int, len(tabs))
	for i, t := range tabs {
		idByIdx[t.ID] = i
	}

	var leftover []int
	for _, b := range groupByDomain(tabs, remaining) {
		if len(b.members) < 2 {
			for _, id := range b.members {
				leftover = append(leftover, idByIdx[id])
			}
			continue
		}
		res.Groups = append(res.Groups, Group{
			ID:      groupID(len(res.Groups)),
			Title:   disambiguate(used, b.name, " (Web)"),
			Members: b.members,
			Type:    GroupDomain,
		})
	}
	return leftover
}
