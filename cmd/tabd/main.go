// CLAUDE:SUMMARY tabd entrypoint: wires embedder, cache, grouping service, browser source, HTTP API and MCP stdio.
// Command tabd serves the tab-grouping engine over HTTP and, optionally,
// MCP stdio. The engine itself needs no state; the binary adds the
// embedding backend, the on-disk embedding cache, the run log, and an
// optional live browser connection for snapshotting and applying groups.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/feldrik/tabd/cluster"
	"github.com/feldrik/tabd/dbopen"
	"github.com/feldrik/tabd/embcache"
	"github.com/feldrik/tabd/grouping"
	"github.com/feldrik/tabd/observability"
	"github.com/feldrik/tabd/shield"
	"github.com/feldrik/tabd/tabembed"
	"github.com/feldrik/tabd/tabsource"
)

func main() {
	_ = godotenv.Load()

	cfg, err := loadConfig(env("CONFIG", ""))
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	port := env("PORT", cfg.Server.Port)
	mcpTransport := env("MCP_TRANSPORT", "")
	logLevel := env("LOG_LEVEL", "info")

	// Logging. With MCP on stdio the protocol stream owns stdout, so logs
	// move to stderr.
	var lvl slog.Level
	switch logLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logOut := io.Writer(os.Stdout)
	if mcpTransport == "stdio" {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Run log DB.
	runsDB, err := dbopen.Open(env("RUNS_DB", cfg.Runs.Path), dbopen.WithMkdirAll())
	if err != nil {
		slog.Error("runs db", "error", err)
		os.Exit(1)
	}
	defer runsDB.Close()
	if err := observability.Init(runsDB); err != nil {
		slog.Error("runs init", "error", err)
		os.Exit(1)
	}
	runs := observability.NewRunLogger(runsDB)
	if n, err := observability.Cleanup(ctx, runsDB, cfg.Runs.RetentionDays); err != nil {
		slog.Warn("runs cleanup", "error", err)
	} else if n > 0 {
		slog.Info("runs cleanup", "deleted", n)
	}

	// Embedding backend, wrapped in the SQLite cache when one is configured.
	dim := cfg.Embed.Dimension
	if v := os.Getenv("EMBED_DIM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			dim = n
		}
	}
	emb := tabembed.New(tabembed.Config{
		Endpoint:  env("EMBED_ENDPOINT", cfg.Embed.Endpoint),
		Model:     env("EMBED_MODEL", cfg.Embed.Model),
		Dimension: dim,
		Logger:    logger,
	})
	if cachePath := env("CACHE_DB", cfg.Cache.Path); cachePath != "" {
		cache, err := embcache.Open(embcache.Config{Path: cachePath, Logger: logger})
		if err != nil {
			slog.Error("embedding cache", "error", err)
			os.Exit(1)
		}
		defer cache.Close()
		emb = embcache.Wrap(emb, cache)
	}

	// Grouping service.
	svc := grouping.New(grouping.Config{
		Strategy:     cluster.Strategy(env("STRATEGY", cfg.Grouping.Strategy)),
		AnchorLabels: cfg.Grouping.AnchorLabels,
		Engine:       cfg.Grouping.Engine,
		Logger:       logger,
	}, emb, runs)

	// Browser source — attach to a running browser or launch one. Both are
	// optional; without a browser the snapshot/apply routes return 503.
	var src *tabsource.Source
	remote := env("BROWSER_URL", cfg.Browser.Remote)
	if remote != "" || cfg.Browser.Launch || os.Getenv("BROWSER_LAUNCH") == "1" {
		src = tabsource.New(tabsource.Config{RemoteURL: remote, Logger: logger})
		if err := src.Connect(); err != nil {
			slog.Error("browser connect", "error", err)
			os.Exit(1)
		}
		defer src.Close()
	}

	// Optional MCP stdio.
	if mcpTransport == "stdio" {
		mcpSrv := mcp.NewServer(&mcp.Implementation{
			Name:    "tabd",
			Version: "1.0.0",
		}, nil)
		cluster.RegisterMCP(mcpSrv)
		tabembed.RegisterMCP(mcpSrv, emb)
		grouping.RegisterMCP(mcpSrv, svc)
		go func() {
			slog.Info("MCP stdio starting")
			if err := mcpSrv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
				slog.Error("MCP stdio", "error", err)
			}
		}()
	}

	// Basic auth is enabled only when a password is configured.
	var authHash []byte
	if password := env("AUTH_PASSWORD", cfg.Server.AuthPassword); password != "" {
		authHash, err = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			slog.Error("auth hash", "error", err)
			os.Exit(1)
		}
	}

	r := newRouter(svc, src, runs, authHash)

	// HTTP server.
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

// newRouter builds the HTTP API. src may be nil (no browser configured) and
// authHash may be nil (auth disabled).
func newRouter(svc *grouping.Service, src *tabsource.Source, runs *observability.RunLogger, authHash []byte) http.Handler {
	r := chi.NewRouter()
	for _, mw := range shield.DefaultStack() {
		r.Use(mw)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		if authHash != nil {
			r.Use(basicAuth(authHash))
		}

		// Raw engine: caller supplies tabs and embeddings.
		r.Post("/api/cluster", func(w http.ResponseWriter, r *http.Request) {
			var req cluster.Request
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, 400, err)
				return
			}
			res, err := cluster.Cluster(req)
			if err != nil {
				writeJSON(w, 422, map[string]any{
					"groups":    []cluster.Group{},
					"ungrouped": res.Ungrouped,
					"error":     err.Error(),
				})
				return
			}
			writeResult(w, res)
		})

		// Full pipeline: embeds tab titles server-side.
		r.Post("/api/group", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Tabs     []cluster.Tab    `json:"tabs"`
				Strategy cluster.Strategy `json:"strategy"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, 400, err)
				return
			}
			res, err := svc.GroupTabs(r.Context(), req.Tabs, req.Strategy)
			if err != nil {
				writeError(w, 422, err)
				return
			}
			writeResult(w, res)
		})

		r.Get("/api/runs", func(w http.ResponseWriter, r *http.Request) {
			entries, err := runs.Recent(r.Context(), queryInt(r, "limit", 20))
			if err != nil {
				writeError(w, 500, err)
				return
			}
			if entries == nil {
				entries = []observability.Run{}
			}
			writeJSON(w, 200, entries)
		})

		r.Get("/api/tabs", func(w http.ResponseWriter, r *http.Request) {
			if src == nil {
				writeError(w, 503, errBrowserUnavailable)
				return
			}
			tabs, err := src.Snapshot(r.Context())
			if err != nil {
				writeError(w, 500, err)
				return
			}
			if tabs == nil {
				tabs = []cluster.Tab{}
			}
			writeJSON(w, 200, tabs)
		})

		r.Get("/api/tabs/{id}/text", func(w http.ResponseWriter, r *http.Request) {
			if src == nil {
				writeError(w, 503, errBrowserUnavailable)
				return
			}
			id, err := strconv.Atoi(chi.URLParam(r, "id"))
			if err != nil {
				writeError(w, 400, err)
				return
			}
			text, err := src.PageText(r.Context(), id, queryInt(r, "max", 4000))
			if err != nil {
				writeError(w, 404, err)
				return
			}
			writeJSON(w, 200, map[string]any{"id": id, "text": text})
		})

		r.Post("/api/apply", func(w http.ResponseWriter, r *http.Request) {
			if src == nil {
				writeError(w, 503, errBrowserUnavailable)
				return
			}
			var res cluster.Result
			if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
				writeError(w, 400, err)
				return
			}
			if err := src.Apply(r.Context(), &res); err != nil {
				writeError(w, 500, err)
				return
			}
			writeJSON(w, 200, map[string]any{"status": "ok", "groups": len(res.Groups)})
		})
	})

	return r
}

// writeResult renders an engine result. Domain mode keeps its bucket shape.
func writeResult(w http.ResponseWriter, res *cluster.Result) {
	if res.Strategy == cluster.StrategyDomain {
		writeJSON(w, 200, map[string]any{
			"strategy": res.Strategy,
			"buckets":  res.Buckets(),
		})
		return
	}
	writeJSON(w, 200, res)
}

var errBrowserUnavailable = errors.New("no browser source configured")

// --- Auth middleware ---

func basicAuth(hash []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, pass, ok := r.BasicAuth()
			if !ok || bcrypt.CompareHashAndPassword(hash, []byte(pass)) != nil {
				w.Header().Set("WWW-Authenticate", `Basic realm="tabd"`)
				writeJSON(w, 401, map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// --- Helpers ---

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func queryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
