// CLAUDE:SUMMARY Group validation: size floor, mean pairwise similarity, time coherence, confidence gate.
package cluster

// groupMetrics is the validator's verdict on one component.
type groupMetrics struct {
	avgSim      float64
	spanMinutes float64
	confidence  float64
}

// validateComponent scores a component and reports whether it survives the
// size and confidence gates. members hold tab indexes.
func validateComponent(tabs []Tab, embeddings []Vector, types []ContentType, members []int, cfg Config) (groupMetrics, bool) {
	var m groupMetrics
	if len(members) < cfg.MinGroupSize {
		return m, false
	}

	var simSum float64
	pairs := 0
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			simSum += Cosine(embeddings[members[i]], embeddings[members[j]])
			pairs++
		}
	}
	if pairs > 0 {
		m.avgSim = simSum / float64(pairs)
	}

	minT, maxT := tabs[members[0]].OpenTime, tabs[members[0]].OpenTime
	for _, i := range members[1:] {
		if t := tabs[i].OpenTime; t < minT {
			minT = t
		} else if t > maxT {
			maxT = t
		}
	}
	m.spanMinutes = float64(maxT-minT) / 60_000

	timeCoherence := 1 - m.spanMinutes/120
	if timeCoherence < 0.5 {
		timeCoherence = 0.5
	}

	m.confidence = cfg.SimWeight*m.avgSim + cfg.TimeWeight*timeCoherence
	if hasWorkflowMix(types, members) {
		m.confidence += workflowConfidenceBonus
	}

	return m, m.confidence >= cfg.MinConfidence
}

// hasWorkflowMix reports whether members contain at least one reference and
// one exploration tab.
func hasWorkflowMix(types []ContentType, members []int) bool {
	var ref, exp bool
	for _, i := range members {
		switch types[i] {
		case ContentReference:
			ref = true
		case ContentExploration:
			exp = true
		}
	}
	return ref && exp
}
