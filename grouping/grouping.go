// CLAUDE:SUMMARY Grouping service: embeds tab titles (cached), invokes the engine, degrades to domain mode.
// Package grouping composes the embedding backend, the embedding cache, and
// the clustering engine into one service call.
//
// The engine itself is a pure function; everything stateful — embedding
// HTTP calls, the vector cache, run logging — lives here. When the
// embedding backend is unavailable the service degrades to domain
// clustering instead of failing the request.
package grouping

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/feldrik/tabd/cluster"
	"github.com/feldrik/tabd/observability"
	"github.com/feldrik/tabd/tabembed"
)

// Config configures the grouping service.
type Config struct {
	// Strategy applies when a request names none. Default: semantic.
	Strategy cluster.Strategy `json:"strategy" yaml:"strategy"`

	// AnchorLabels are the hybrid-mode topic anchors. Their embeddings are
	// computed once, on the first hybrid request.
	AnchorLabels []string `json:"anchor_labels" yaml:"anchor_labels"`

	// Engine holds the engine thresholds; zero values take engine defaults.
	Engine cluster.Config `json:"engine" yaml:"engine"`

	// Logger defaults to slog.Default().
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.Strategy == "" {
		c.Strategy = cluster.StrategySemantic
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Service runs grouping requests. Safe for concurrent use.
type Service struct {
	cfg  Config
	emb  tabembed.Embedder
	runs *observability.RunLogger // optional

	mu      sync.Mutex // guards anchors
	anchors []cluster.Anchor
}

// New creates a Service. runs may be nil to disable run logging.
func New(cfg Config, emb tabembed.Embedder, runs *observability.RunLogger) *Service {
	cfg.defaults()
	return &Service{cfg: cfg, emb: emb, runs: runs}
}

// GroupTabs clusters tabs under the given strategy ("" takes the configured
// default). On embedding failure the request degrades to domain mode; the
// returned result's Strategy field reports what actually ran.
func (s *Service) GroupTabs(ctx context.Context, tabs []cluster.Tab, strategy cluster.Strategy) (*cluster.Result, error) {
	if strategy == "" {
		strategy = s.cfg.Strategy
	}
	start := time.Now()

	if strategy == cluster.StrategyDomain {
		res, err := cluster.Cluster(cluster.Request{
			Tabs:     tabs,
			Strategy: cluster.StrategyDomain,
			Config:   s.cfg.Engine,
		})
		s.record(ctx, res, err, false, start)
		return res, err
	}

	vecs, embErr := s.embedTabs(ctx, tabs)
	var anchors []cluster.Anchor
	if embErr == nil && strategy == cluster.StrategyHybrid {
		anchors, embErr = s.anchorVectors(ctx)
	}
	if embErr != nil {
		s.cfg.Logger.Warn("embedding unavailable, degrading to domain clustering",
			"error", embErr, "strategy", strategy, "tabs", len(tabs))
		res, err := cluster.Cluster(cluster.Request{
			Tabs:     tabs,
			Strategy: cluster.StrategyDomain,
			Config:   s.cfg.Engine,
		})
		s.record(ctx, res, err, true, start)
		return res, err
	}

	res, err := cluster.Cluster(cluster.Request{
		Tabs:       tabs,
		Embeddings: vecs,
		Anchors:    anchors,
		Strategy:   strategy,
		Config:     s.cfg.Engine,
	})
	s.record(ctx, res, err, false, start)
	return res, err
}

func (s *Service) embedTabs(ctx context.Context, tabs []cluster.Tab) ([]cluster.Vector, error) {
	texts := make([]string, len(tabs))
	for i, t := range tabs {
		texts[i] = tabembed.TabText(t.Title, t.URL)
	}
	raw, err := s.emb.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cluster.ErrEmbeddingUnavailable, err)
	}
	vecs := make([]cluster.Vector, len(raw))
	for i, v := range raw {
		vecs[i] = v
	}
	return vecs, nil
}

// anchorVectors embeds the configured anchor labels on first use. A failed
// attempt is not cached so a transient backend outage can recover.
func (s *Service) anchorVectors(ctx context.Context) ([]cluster.Anchor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.anchors != nil || len(s.cfg.AnchorLabels) == 0 {
		return s.anchors, nil
	}
	raw, err := s.emb.EmbedBatch(ctx, s.cfg.AnchorLabels)
	if err != nil {
		return nil, fmt.Errorf("%w: anchors: %v", cluster.ErrEmbeddingUnavailable, err)
	}
	anchors := make([]cluster.Anchor, len(raw))
	for i, v := range raw {
		anchors[i] = cluster.Anchor{Label: s.cfg.AnchorLabels[i], Vector: v}
	}
	s.anchors = anchors
	return s.anchors, nil
}

func (s *Service) record(ctx context.Context, res *cluster.Result, err error, degraded bool, start time.Time) {
	if s.runs == nil || res == nil {
		return
	}
	run := observability.Run{
		Strategy:       string(res.Strategy),
		GroupCount:     len(res.Groups),
		UngroupedCount: len(res.Ungrouped),
		Degraded:       degraded,
		DurationMs:     time.Since(start).Milliseconds(),
	}
	for _, g := range res.Groups {
		run.TabCount += len(g.Members)
	}
	run.TabCount += len(res.Ungrouped)
	if err != nil {
		run.Strategy = string(res.Strategy) + ":error"
	}
	s.runs.Record(ctx, run)
}
