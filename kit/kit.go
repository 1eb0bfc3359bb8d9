// CLAUDE:SUMMARY Transport-agnostic Endpoint/Middleware primitives shared by HTTP and MCP surfaces.
// Package kit provides the small transport-agnostic primitives tabd services
// are built from: a generic Endpoint signature, composable Middleware, and
// an MCP tool adapter.
package kit

import (
	"context"
	"log/slog"
	"time"
)

// Endpoint is a transport-agnostic service call: typed request in, typed
// response out. HTTP handlers and MCP tools both decode into an Endpoint.
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware wraps an Endpoint with cross-cutting behavior.
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares so the first argument is outermost.
func Chain(mws ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}

// Logging returns a Middleware that logs each call's duration and outcome
// under the given operation name.
func Logging(logger *slog.Logger, op string) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, req any) (any, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			if err != nil {
				logger.Error("endpoint failed", "op", op, "duration", time.Since(start), "error", err)
				return resp, err
			}
			logger.Debug("endpoint ok", "op", op, "duration", time.Since(start))
			return resp, nil
		}
	}
}
