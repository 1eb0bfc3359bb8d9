// CLAUDE:SUMMARY Defines Tab, Vector, ContentType, Anchor, Group, and Result types for the clustering engine.
package cluster

// Tab describes one browser tab as supplied by the inventory provider.
// It is immutable input: the engine never mutates descriptors.
type Tab struct {
	// ID is unique within one invocation.
	ID int `json:"id"`

	Title string `json:"title"`
	URL   string `json:"url"`

	// OpenTime is epoch milliseconds. 0 means unknown.
	OpenTime int64 `json:"open_time"`
}

// Vector is a fixed-dimension embedding. All vectors in one invocation
// share the same dimension.
type Vector []float32

// ContentType is the rule-derived intent of a tab.
type ContentType string

const (
	ContentExploration ContentType = "exploration"
	ContentReference   ContentType = "reference"
	ContentGeneral     ContentType = "general"
)

// Strategy selects one of the three clustering pipelines.
type Strategy string

const (
	StrategyDomain   Strategy = "domain"
	StrategySemantic Strategy = "semantic"
	StrategyHybrid   Strategy = "hybrid"
)

// GroupType tags how a group was formed.
type GroupType string

const (
	GroupSemantic GroupType = "semantic"
	GroupAnchor   GroupType = "anchor"
	GroupDomain   GroupType = "domain"
)

// Anchor is a fixed named topic embedding used by the hybrid strategy.
type Anchor struct {
	Label  string `json:"label"`
	Vector Vector `json:"vector"`
}

// GroupDebug carries the metrics the validator computed for a group.
type GroupDebug struct {
	AvgSim      float64 `json:"avg_sim"`
	SpanMinutes float64 `json:"span_minutes"`
}

// Group is one named cluster of tabs.
type Group struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Members []int  `json:"members"`

	// Confidence is set only for semantic-mode groups (Debug is non-nil then).
	Confidence float64 `json:"confidence,omitempty"`

	Type  GroupType   `json:"type"`
	Debug *GroupDebug `json:"debug,omitempty"`
}

// Request is one clustering invocation.
type Request struct {
	Tabs []Tab `json:"tabs"`

	// Embeddings are required for semantic and hybrid, same order and count
	// as Tabs. Ignored by the domain strategy.
	Embeddings []Vector `json:"embeddings,omitempty"`

	// Anchors are required for hybrid only.
	Anchors []Anchor `json:"anchors,omitempty"`

	Strategy Strategy `json:"strategy"`
	Config   Config   `json:"config"`
}

// Result is the outcome of one invocation. On a failed invocation every
// input tab is listed in Ungrouped and Groups is empty.
type Result struct {
	Strategy  Strategy `json:"strategy"`
	Groups    []Group  `json:"groups"`
	Ungrouped []int    `json:"ungrouped"`
}

// Buckets returns the domain-mode output shape: group title → member ids.
// Only meaningful when Strategy is StrategyDomain (every tab is in exactly
// one bucket and Ungrouped is empty).
func (r *Result) Buckets() map[string][]int {
	m := make(map[string][]int, len(r.Groups))
	for _, g := range r.Groups {
		m[g.Title] = g.Members
	}
	return m
}
