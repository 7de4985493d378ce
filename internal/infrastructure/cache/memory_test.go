package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreSetGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, "key1", "value1", time.Minute); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	got, found, err := store.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !found {
		t.Fatal("expected key1 to be found")
	}
	if got != "value1" {
		t.Errorf("expected value1, got %q", got)
	}
}

func TestMemoryStoreMissingKey(t *testing.T) {
	store := NewMemoryStore()

	_, found, err := store.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if found {
		t.Error("expected missing key to not be found")
	}
}

func TestMemoryStoreExpiration(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, "short", "gone soon", 10*time.Millisecond); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	_, found, _ := store.Get(ctx, "short")
	if found {
		t.Error("expected expired key to not be found")
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Set(ctx, "key1", "value1", time.Minute)
	if err := store.Delete(ctx, "key1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	_, found, _ := store.Get(ctx, "key1")
	if found {
		t.Error("expected deleted key to not be found")
	}
}
