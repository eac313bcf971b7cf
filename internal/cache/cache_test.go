package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGetOrFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("caches present results", func(t *testing.T) {
		c, err := New[string](100)
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		calls := 0
		fetch := func(context.Context) (string, bool, error) {
			calls++
			return "https://api.example.com", true, nil
		}

		v, ok, err := c.GetOrFetch(ctx, "k", time.Hour, time.Minute, fetch)
		if err != nil || !ok || v != "https://api.example.com" {
			t.Fatalf("GetOrFetch = (%q, %v, %v)", v, ok, err)
		}
		c.Wait()

		v, ok, err = c.GetOrFetch(ctx, "k", time.Hour, time.Minute, fetch)
		if err != nil || !ok || v != "https://api.example.com" {
			t.Fatalf("second GetOrFetch = (%q, %v, %v)", v, ok, err)
		}
		if calls != 1 {
			t.Errorf("fetch calls = %d, want 1", calls)
		}
	})

	t.Run("caches absent results", func(t *testing.T) {
		c, err := New[string](100)
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		calls := 0
		fetch := func(context.Context) (string, bool, error) {
			calls++
			return "", false, nil
		}

		if _, ok, _ := c.GetOrFetch(ctx, "missing", time.Hour, time.Minute, fetch); ok {
			t.Error("ok = true, want false")
		}
		c.Wait()
		if _, ok, _ := c.GetOrFetch(ctx, "missing", time.Hour, time.Minute, fetch); ok {
			t.Error("ok = true, want false")
		}
		if calls != 1 {
			t.Errorf("fetch calls = %d, want 1 (absent result should be cached)", calls)
		}
	})

	t.Run("errors are not cached", func(t *testing.T) {
		c, err := New[string](100)
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		calls := 0
		fetch := func(context.Context) (string, bool, error) {
			calls++
			return "", false, errors.New("db down")
		}

		if _, _, err := c.GetOrFetch(ctx, "k", time.Hour, time.Minute, fetch); err == nil {
			t.Fatal("expected error")
		}
		c.Wait()
		if _, _, err := c.GetOrFetch(ctx, "k", time.Hour, time.Minute, fetch); err == nil {
			t.Fatal("expected error on second call")
		}
		if calls != 2 {
			t.Errorf("fetch calls = %d, want 2 (errors must not be cached)", calls)
		}
	})

	t.Run("expired absent entries are refetched", func(t *testing.T) {
		c, err := New[string](100)
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		calls := 0
		fetch := func(context.Context) (string, bool, error) {
			calls++
			return "", false, nil
		}

		c.GetOrFetch(ctx, "k", time.Hour, time.Millisecond, fetch)
		c.Wait()
		time.Sleep(20 * time.Millisecond)

		c.GetOrFetch(ctx, "k", time.Hour, time.Millisecond, fetch)
		if calls != 2 {
			t.Errorf("fetch calls = %d, want 2 after absent TTL expiry", calls)
		}
	})
}
