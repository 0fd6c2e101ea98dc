package cache

import (
	"context"
	"sync"
	"time"

	"github.com/splitsmart/splitsmart/internal/money"
)

type entry struct {
	balances  map[string]money.Cents
	expiresAt time.Time
}

// InMemoryCache implements BalanceCache with a mutex-guarded map.
// Suitable for single-process deployments and tests.
type InMemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
}

// NewInMemoryCache creates an in-memory cache with the given entry TTL.
func NewInMemoryCache(ttl time.Duration) *InMemoryCache {
	return &InMemoryCache{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

// Get returns the cached balances for a group, or false on a miss.
func (c *InMemoryCache) Get(_ context.Context, groupID string) (map[string]money.Cents, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[groupID]
	if !ok || time.Now().After(e.expiresAt) {
		delete(c.entries, groupID)
		return nil, false
	}

	balances := make(map[string]money.Cents, len(e.balances))
	for name, bal := range e.balances {
		balances[name] = bal
	}
	return balances, true
}

// Set stores the balances for a group.
func (c *InMemoryCache) Set(_ context.Context, groupID string, balances map[string]money.Cents) {
	copied := make(map[string]money.Cents, len(balances))
	for name, bal := range balances {
		copied[name] = bal
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[groupID] = entry{balances: copied, expiresAt: time.Now().Add(c.ttl)}
}

// Invalidate drops the cached entry for a group.
func (c *InMemoryCache) Invalidate(_ context.Context, groupID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, groupID)
}
