package cache

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestSetGetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "versions.json")
	c, err := New[[]string](path, time.Hour)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Set("node", []string{"20.1.0", "20.2.0"})

	got, ok := c.Get("node")
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if len(got) != 2 || got[0] != "20.1.0" {
		t.Errorf("got %v", got)
	}
}

func TestEntryExpiresAfterTTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "versions.json")
	c, err := New[string](path, time.Millisecond)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Set("node", "20.1.0")
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("node"); ok {
		t.Error("expected entry to be stale past TTL")
	}
}

func TestFlushAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "versions.json")
	c, err := New[string](path, time.Hour)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Set("node", "20.1.0")
	if err := c.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	reloaded, err := New[string](path, time.Hour)
	if err != nil {
		t.Fatalf("New (reload): %v", err)
	}
	v, ok := reloaded.Get("node")
	if !ok || v != "20.1.0" {
		t.Errorf("reloaded cache missing entry: %v, %v", v, ok)
	}
}

func TestGetOrFetchCachesResultNotError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "versions.json")
	c, err := New[string](path, time.Hour)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	calls := 0
	failing := func() (string, error) {
		calls++
		return "", errors.New("network down")
	}
	if _, err := c.GetOrFetch("node", failing); err == nil {
		t.Fatal("expected error to propagate")
	}
	if _, err := c.GetOrFetch("node", failing); err == nil {
		t.Fatal("expected second error to propagate (errors must not be cached)")
	}
	if calls != 2 {
		t.Errorf("expected fetch called twice for uncached errors, got %d", calls)
	}

	succeeding := func() (string, error) { calls++; return "20.1.0", nil }
	v, err := c.GetOrFetch("node", succeeding)
	if err != nil || v != "20.1.0" {
		t.Fatalf("GetOrFetch = %v, %v", v, err)
	}
	if _, err := c.GetOrFetch("node", failing); err != nil {
		t.Errorf("expected cached hit to avoid calling fetch: %v", err)
	}
}
