// Package cache provides caching for computed group balance snapshots.
//
// The cache is read-through at the API layer and invalidated by the
// services whenever an expense or settlement changes a group. Entries
// carry a TTL so stale data cannot outlive a missed invalidation for
// long.
package cache

import (
	"context"

	"github.com/splitsmart/splitsmart/internal/money"
)

// BalanceCache is the interface for caching a group's balance map.
type BalanceCache interface {
	// Get returns the cached balances for a group, or false on a miss.
	Get(ctx context.Context, groupID string) (map[string]money.Cents, bool)

	// Set stores the balances for a group.
	Set(ctx context.Context, groupID string, balances map[string]money.Cents)

	// Invalidate drops the cached entry for a group.
	Invalidate(ctx context.Context, groupID string)
}
