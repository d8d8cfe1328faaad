package grpcserver

import (
	"context"
	"testing"

	"github.com/gofrs/uuid/v5"
)

func TestWithClientID_And_ClientIDFromCtx(t *testing.T) {
	t.Parallel()

	if id, ok := ClientIDFromCtx(context.Background()); ok || id != uuid.Nil {
		t.Fatalf("expected no client id in empty ctx")
	}

	want := uuid.Must(uuid.NewV4())
	ctx := WithClientID(context.Background(), want)

	got, ok := ClientIDFromCtx(ctx)
	if !ok {
		t.Fatalf("expected client id in ctx")
	}
	if got != want {
		t.Fatalf("mismatch: got %s, want %s", got, want)
	}

	bad := context.WithValue(context.Background(), clientIDKey, "not-uuid")
	if id, ok := ClientIDFromCtx(bad); ok || id != uuid.Nil {
		t.Fatalf("expected miss on wrong typed value")
	}
}

func TestWithRequestID(t *testing.T) {
	t.Parallel()

	if _, ok := RequestIDFromCtx(context.Background()); ok {
		t.Fatalf("expected no request id in empty ctx")
	}
	ctx := WithRequestID(context.Background(), "r-1")
	if got, ok := RequestIDFromCtx(ctx); !ok || got != "r-1" {
		t.Fatalf("got %q, %v", got, ok)
	}
}
