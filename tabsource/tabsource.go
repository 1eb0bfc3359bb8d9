// CLAUDE:SUMMARY Chrome tab inventory over go-rod CDP: connect, snapshot tabs, apply groups.
// Package tabsource turns a running Chrome into the engine's tab inventory.
//
// CDP does not expose when a tab was opened, so open times are first-seen
// timestamps: a tab's OpenTime is the moment this process first observed
// its target. Tab IDs are small integers stable across snapshots for as
// long as the target lives.
package tabsource

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/feldrik/tabd/cluster"
)

// Config configures the tab source.
type Config struct {
	// RemoteURL is the DevTools WebSocket URL of a running Chrome.
	// Empty = launch a local headless Chrome.
	RemoteURL string `json:"remote_url" yaml:"remote_url"`

	// SnapshotTimeout bounds one Snapshot call. Default: 10s.
	SnapshotTimeout time.Duration `json:"snapshot_timeout" yaml:"snapshot_timeout"`

	// Logger defaults to slog.Default().
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.SnapshotTimeout <= 0 {
		c.SnapshotTimeout = 10 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Source is a connected Chrome instance. Safe for concurrent use.
type Source struct {
	cfg Config

	mu        sync.Mutex
	browser   *rod.Browser
	lnch      *launcher.Launcher
	firstSeen map[proto.TargetTargetID]int64
	ids       map[proto.TargetTargetID]int
	targets   map[int]proto.TargetTargetID
	nextID    int
}

// New creates a Source. Call Connect before Snapshot or Apply.
func New(cfg Config) *Source {
	cfg.defaults()
	return &Source{
		cfg:       cfg,
		firstSeen: make(map[proto.TargetTargetID]int64),
		ids:       make(map[proto.TargetTargetID]int),
		targets:   make(map[int]proto.TargetTargetID),
		nextID:    1,
	}
}

// Connect attaches to the configured Chrome, launching one when no remote
// URL is set.
func (s *Source) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser != nil {
		return nil
	}

	wsURL := s.cfg.RemoteURL
	if wsURL == "" {
		l := launcher.New().Headless(true)
		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("tabsource: launch: %w", err)
		}
		s.lnch = l
		wsURL = u
		s.cfg.Logger.Info("launched local chrome", "url", wsURL)
	} else {
		s.cfg.Logger.Info("connecting to remote chrome", "url", wsURL)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return fmt.Errorf("tabsource: connect: %w", err)
	}
	s.browser = b
	return nil
}

// Close disconnects from Chrome and cleans up a launched instance.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser != nil {
		s.browser.Close()
		s.browser = nil
	}
	if s.lnch != nil {
		s.lnch.Cleanup()
		s.lnch = nil
	}
	return nil
}

// Snapshot enumerates open tabs as engine descriptors, in page order.
func (s *Source) Snapshot(ctx context.Context) ([]cluster.Tab, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser == nil {
		return nil, fmt.Errorf("tabsource: not connected")
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.SnapshotTimeout)
	defer cancel()

	pages, err := s.browser.Context(ctx).Pages()
	if err != nil {
		return nil, fmt.Errorf("tabsource: list pages: %w", err)
	}

	now := time.Now().UnixMilli()
	alive := make(map[proto.TargetTargetID]bool, len(pages))
	tabs := make([]cluster.Tab, 0, len(pages))

	for _, p := range pages {
		info, err := p.Context(ctx).Info()
		if err != nil {
			s.cfg.Logger.Warn("tab info failed", "error", err)
			continue
		}
		alive[p.TargetID] = true

		if _, ok := s.firstSeen[p.TargetID]; !ok {
			s.firstSeen[p.TargetID] = now
			s.ids[p.TargetID] = s.nextID
			s.targets[s.nextID] = p.TargetID
			s.nextID++
		}
		tabs = append(tabs, cluster.Tab{
			ID:       s.ids[p.TargetID],
			Title:    info.Title,
			URL:      info.URL,
			OpenTime: s.firstSeen[p.TargetID],
		})
	}

	// Forget closed targets so the maps do not grow without bound.
	for target := range s.firstSeen {
		if !alive[target] {
			delete(s.targets, s.ids[target])
			delete(s.ids, target)
			delete(s.firstSeen, target)
		}
	}
	return tabs, nil
}

// Apply activates tabs group-by-group so window tab order follows the
// grouping result. Missing tabs (closed since the snapshot) are skipped.
func (s *Source) Apply(ctx context.Context, res *cluster.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser == nil {
		return fmt.Errorf("tabsource: not connected")
	}

	pages, err := s.browser.Context(ctx).Pages()
	if err != nil {
		return fmt.Errorf("tabsource: list pages: %w", err)
	}
	byTarget := make(map[proto.TargetTargetID]*rod.Page, len(pages))
	for _, p := range pages {
		byTarget[p.TargetID] = p
	}

	for _, g := range res.Groups {
		for _, id := range g.Members {
			target, ok := s.targets[id]
			if !ok {
				s.cfg.Logger.Warn("apply: unknown tab id", "id", id, "group", g.Title)
				continue
			}
			page, ok := byTarget[target]
			if !ok {
				s.cfg.Logger.Warn("apply: tab closed since snapshot", "id", id, "group", g.Title)
				continue
			}
			if _, err := page.Context(ctx).Activate(); err != nil {
				return fmt.Errorf("tabsource: activate tab %d: %w", id, err)
			}
		}
	}
	return nil
}
