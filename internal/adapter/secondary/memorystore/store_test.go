package memorystore

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/ruudy-sib/hooktrap/internal/adapter/secondary/storetest"
	"github.com/ruudy-sib/hooktrap/internal/port/secondary"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) secondary.WebhookStore {
		store := New(zap.NewNop())
		t.Cleanup(func() { _ = store.Close() })
		return store
	})
}

func TestStore_ListReturnsCopies(t *testing.T) {
	store := New(zap.NewNop())
	ctx := context.Background()

	rec := storetest.Record("s1", 0, "original")
	if err := store.Insert(ctx, rec); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Mutating the caller's record or a listed copy must not alter stored data.
	*rec.Body = "mutated by caller"
	listed, _ := store.ListBySession(ctx, "s1")
	listed[0].Headers["content-type"] = "text/plain"

	again, _ := store.ListBySession(ctx, "s1")
	if *again[0].Body != "original" {
		t.Fatalf("body = %q, want original", *again[0].Body)
	}
	if again[0].Headers["content-type"] != "application/json" {
		t.Fatalf("header = %q, want application/json", again[0].Headers["content-type"])
	}
}
