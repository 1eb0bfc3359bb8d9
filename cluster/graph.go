// CLAUDE:SUMMARY Pairwise similarity graph per session: workflow bonus, dedup penalty, domain discount.
package cluster

// edge connects two tab indexes with an adjusted similarity weight.
type edge struct {
	a, b   int
	weight float64
}

// buildEdges scores every unordered pair in the session and keeps edges whose
// adjusted score clears minSimilarity. The adjustment starts from raw cosine:
// cross-typed exploration/reference pairs above the workflow floor gain a
// bonus, byte-identical titles far apart in time pay the dedup penalty, and
// same-host pairs are discounted to favor cross-site semantic bridges.
func buildEdges(tabs []Tab, embeddings []Vector, types []ContentType, s session, minSimilarity float64) []edge {
	var edges []edge
	for i := 0; i < len(s.idx); i++ {
		for j := i + 1; j < len(s.idx); j++ {
			a, b := s.idx[i], s.idx[j]

			raw := Cosine(embeddings[a], embeddings[b])
			if raw < rawPrune {
				continue
			}

			score := raw
			if crossTyped(types[a], types[b]) && raw > workflowRawFloor {
				score += workflowBonus
			}
			if tabs[a].Title == tabs[b].Title && absInt64(tabs[a].OpenTime-tabs[b].OpenTime) > dedupWindowMs {
				score -= dedupPenalty
			}
			if ha, hb := hostOf(tabs[a].URL), hostOf(tabs[b].URL); ha != "" && ha == hb {
				score *= domainDiscount
			}

			if score >= minSimilarity {
				edges = append(edges, edge{a: a, b: b, weight: score})
			}
		}
	}
	return edges
}

func crossTyped(a, b ContentType) bool {
	return (a == ContentExploration && b == ContentReference) ||
		(a == ContentReference && b == ContentExploration)
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
