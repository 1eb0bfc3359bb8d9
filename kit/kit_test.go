package kit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

func TestChain_Order(t *testing.T) {
	var order []string

	mw := func(name string) Middleware {
		return func(next Endpoint) Endpoint {
			return func(ctx context.Context, req any) (any, error) {
				order = append(order, name+"_before")
				resp, err := next(ctx, req)
				order = append(order, name+"_after")
				return resp, err
			}
		}
	}

	base := func(_ context.Context, _ any) (any, error) {
		order = append(order, "endpoint")
		return "ok", nil
	}

	chained := Chain(mw("a"), mw("b"), mw("c"))(base)
	resp, err := chained(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp != "ok" {
		t.Fatalf("response: got %v", resp)
	}

	expected := []string{"a_before", "b_before", "c_before", "endpoint", "c_after", "b_after", "a_after"}
	if len(order) != len(expected) {
		t.Fatalf("order length: got %d, want %d", len(order), len(expected))
	}
	for i := range expected {
		if order[i] != expected[i] {
			t.Fatalf("order[%d]: got %q, want %q", i, order[i], expected[i])
		}
	}
}

func TestChain_ErrorPropagates(t *testing.T) {
	sentinel := errors.New("boom")
	passthrough := func(next Endpoint) Endpoint { return next }

	base := func(_ context.Context, _ any) (any, error) {
		return nil, sentinel
	}

	_, err := Chain(passthrough)(base)(context.Background(), nil)
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
}

func TestContext_RoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = WithTraceID(ctx, "abc123")
	ctx = WithRequestID(ctx, "req_1")
	ctx = WithTransport(ctx, "mcp")

	if got := GetTraceID(ctx); got != "abc123" {
		t.Fatalf("trace id: got %q", got)
	}
	if got := GetRequestID(ctx); got != "req_1" {
		t.Fatalf("request id: got %q", got)
	}
	if got := GetTransport(ctx); got != "mcp" {
		t.Fatalf("transport: got %q", got)
	}
	if got := GetTransport(context.Background()); got != "http" {
		t.Fatalf("default transport: got %q", got)
	}
}

func TestLogging_PassesThrough(t *testing.T) {
	// WHAT: The logging middleware forwards responses and errors unchanged.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ok := func(_ context.Context, _ any) (any, error) { return "resp", nil }
	resp, err := Logging(logger, "op")(ok)(context.Background(), nil)
	if err != nil || resp != "resp" {
		t.Fatalf("got (%v, %v), want (resp, nil)", resp, err)
	}

	boom := errors.New("boom")
	fail := func(_ context.Context, _ any) (any, error) { return nil, boom }
	if _, err := Logging(logger, "op")(fail)(context.Background(), nil); !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}
}
