package memcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samirrijal/geonotes/internal/core/ports"
)

func TestCache_SetGetDelete(t *testing.T) {
	c := New(4)
	ctx := context.Background()

	if _, err := c.Get(ctx, "k"); !errors.Is(err, ports.ErrCacheMiss) {
		t.Fatalf("expected miss, got %v", err)
	}

	_ = c.Set(ctx, "k", []byte("v"), 60)
	got, err := c.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("expected v, got %q (%v)", got, err)
	}

	_ = c.Delete(ctx, "k")
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ports.ErrCacheMiss) {
		t.Errorf("expected miss after delete, got %v", err)
	}
}

func TestCache_Expiry(t *testing.T) {
	c := New(4)
	ctx := context.Background()
	now := time.Now()
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "k", []byte("v"), 10)
	now = now.Add(9 * time.Second)
	if _, err := c.Get(ctx, "k"); err != nil {
		t.Errorf("expected hit before expiry, got %v", err)
	}
	now = now.Add(time.Second)
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ports.ErrCacheMiss) {
		t.Errorf("expected miss at expiry, got %v", err)
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New(2)
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	_, _ = c.Get(ctx, "a")
	_ = c.Set(ctx, "c", []byte("3"), 0)

	if _, err := c.Get(ctx, "b"); !errors.Is(err, ports.ErrCacheMiss) {
		t.Errorf("expected b evicted, got %v", err)
	}
	if _, err := c.Get(ctx, "a"); err != nil {
		t.Errorf("expected a kept, got %v", err)
	}
}

func TestCache_CopiesValue(t *testing.T) {
	c := New(2)
	ctx := context.Background()
	buf := []byte("abc")
	_ = c.Set(ctx, "k", buf, 0)
	buf[0] = 'z'

	got, _ := c.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value aliased caller buffer: %q", got)
	}
}
