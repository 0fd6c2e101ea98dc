package cache

import (
	"context"
	"testing"
	"time"

	"github.com/splitsmart/splitsmart/internal/money"
)

func TestInMemoryCacheSetGet(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(time.Minute)

	if _, ok := c.Get(ctx, "g1"); ok {
		t.Error("expected miss on empty cache")
	}

	c.Set(ctx, "g1", map[string]money.Cents{"alice": 500, "bob": -500})

	got, ok := c.Get(ctx, "g1")
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if got["alice"] != 500 || got["bob"] != -500 {
		t.Errorf("balances = %v", got)
	}

	c.Invalidate(ctx, "g1")
	if _, ok := c.Get(ctx, "g1"); ok {
		t.Error("expected miss after Invalidate")
	}
}

func TestInMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(10 * time.Millisecond)

	c.Set(ctx, "g1", map[string]money.Cents{"alice": 100})
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get(ctx, "g1"); ok {
		t.Error("expected miss after TTL expiry")
	}
}

func TestInMemoryCacheReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(time.Minute)

	original := map[string]money.Cents{"alice": 100}
	c.Set(ctx, "g1", original)
	original["alice"] = 999

	got, ok := c.Get(ctx, "g1")
	if !ok {
		t.Fatal("expected hit")
	}
	if got["alice"] != 100 {
		t.Errorf("stored balance mutated through caller map: %v", got["alice"])
	}

	got["alice"] = 777
	again, _ := c.Get(ctx, "g1")
	if again["alice"] != 100 {
		t.Errorf("stored balance mutated through returned map: %v", again["alice"])
	}
}
