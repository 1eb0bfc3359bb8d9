// CLAUDE:SUMMARY Engine thresholds and weights with defaults applied via defaults().
package cluster

// Config holds the thresholds and weights of the engine. The zero value is
// usable: defaults() fills every field before a run.
type Config struct {
	// SessionGap is the maximum open-time gap (ms) inside one session.
	SessionGap int64 `json:"session_gap" yaml:"session_gap"`

	// MinSimilarity is the adjusted-score floor for a graph edge.
	MinSimilarity float64 `json:"min_similarity" yaml:"min_similarity"`

	// MinGroupSize rejects smaller components in semantic validation.
	MinGroupSize int `json:"min_group_size" yaml:"min_group_size"`

	// MinConfidence rejects lower-scoring groups in semantic validation.
	MinConfidence float64 `json:"min_confidence" yaml:"min_confidence"`

	// SimWeight and TimeWeight blend avgSim and timeCoherence into confidence.
	SimWeight  float64 `json:"sim_weight" yaml:"sim_weight"`
	TimeWeight float64 `json:"time_weight" yaml:"time_weight"`

	// AnchorThreshold is the minimum anchor score in the hybrid anchor phase.
	AnchorThreshold float64 `json:"anchor_threshold" yaml:"anchor_threshold"`

	// SemanticThreshold is the edge floor in the hybrid semantic-residual phase.
	SemanticThreshold float64 `json:"semantic_threshold" yaml:"semantic_threshold"`
}

const (
	// rawPrune is the cheap cosine floor below which pairs are never scored.
	rawPrune = 0.3

	// workflowBonus is added for cross-typed exploration/reference pairs
	// above workflowRawFloor raw similarity.
	workflowBonus    = 0.10
	workflowRawFloor = 0.55

	// dedupPenalty is subtracted for byte-identical titles more than
	// dedupWindowMs apart. Keys on title only, by product decision. Sized so
	// even a perfect cosine pair falls below the default edge floor.
	dedupPenalty  = 0.40
	dedupWindowMs = 30 * 60 * 1000

	// domainDiscount favors cross-site semantic bridges over same-host pairs.
	domainDiscount = 0.95

	// workflowConfidenceBonus is added to groups mixing reference and
	// exploration members.
	workflowConfidenceBonus = 0.05
)

func (c *Config) defaults() {
	if c.SessionGap <= 0 {
		c.SessionGap = 2_700_000 // 45 min
	}
	if c.MinSimilarity <= 0 {
		c.MinSimilarity = 0.65
	}
	if c.MinGroupSize <= 0 {
		c.MinGroupSize = 2
	}
	if c.MinConfidence <= 0 {
		c.MinConfidence = 0.60
	}
	if c.SimWeight <= 0 {
		c.SimWeight = 0.7
	}
	if c.TimeWeight <= 0 {
		c.TimeWeight = 0.3
	}
	if c.AnchorThreshold <= 0 {
		c.AnchorThreshold = 0.45
	}
	if c.SemanticThreshold <= 0 {
		c.SemanticThreshold = 0.55
	}
}
