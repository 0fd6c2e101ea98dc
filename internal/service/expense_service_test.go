package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/splitsmart/splitsmart/internal/cache"
	"github.com/splitsmart/splitsmart/internal/ledger"
	"github.com/splitsmart/splitsmart/internal/models"
	"github.com/splitsmart/splitsmart/internal/storage"
	"github.com/splitsmart/splitsmart/internal/storage/sqlite"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitsmart-service-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func createTestGroup(t *testing.T, store storage.Store, members ...string) *models.Group {
	t.Helper()
	group := &models.Group{Name: "Test Group", Members: members}
	if err := store.CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return group
}

func TestExpenseServiceAddExpense(t *testing.T) {
	store := newTestStore(t)
	balanceCache := cache.NewInMemoryCache(time.Minute)
	svc := NewExpenseService(store, balanceCache, 3, 5*time.Second)
	ctx := context.Background()

	group := createTestGroup(t, store, "alice", "bob")

	updated, err := svc.AddExpense(ctx, AddExpenseCommand{
		GroupID:     group.ID,
		Description: "Dinner",
		Amount:      10000,
		PaidBy:      "alice",
		SplitWith:   []string{"alice", "bob"},
		Weights:     []float64{50, 50},
	})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	if updated.Balances["alice"] != 5000 || updated.Balances["bob"] != -5000 {
		t.Errorf("balances = %v", updated.Balances)
	}

	// The update is persisted, not just in memory.
	fetched, err := store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if fetched.Balances["alice"] != 5000 || fetched.Balances["bob"] != -5000 {
		t.Errorf("persisted balances = %v", fetched.Balances)
	}
	if len(fetched.Expenses) != 1 {
		t.Errorf("persisted expense count = %d, want 1", len(fetched.Expenses))
	}
}

func TestExpenseServiceValidationLeavesGroupUnchanged(t *testing.T) {
	store := newTestStore(t)
	svc := NewExpenseService(store, cache.NewInMemoryCache(time.Minute), 3, 5*time.Second)
	ctx := context.Background()

	group := createTestGroup(t, store, "alice", "bob")

	_, err := svc.AddExpense(ctx, AddExpenseCommand{
		GroupID:     group.ID,
		Description: "Broken",
		Amount:      10000,
		PaidBy:      "alice",
		SplitWith:   []string{"alice", "bob"},
		Weights:     []float64{1}, // mismatched
	})
	if !errors.Is(err, ledger.ErrSplitMismatch) {
		t.Fatalf("error = %v, want ErrSplitMismatch", err)
	}

	fetched, err := store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if fetched.Version != 0 || len(fetched.Expenses) != 0 {
		t.Errorf("group changed by rejected expense: version=%d expenses=%d",
			fetched.Version, len(fetched.Expenses))
	}
	for name, bal := range fetched.Balances {
		if bal != 0 {
			t.Errorf("%s balance = %d, want 0", name, bal)
		}
	}
}

func TestExpenseServiceUnknownGroup(t *testing.T) {
	store := newTestStore(t)
	svc := NewExpenseService(store, cache.NewInMemoryCache(time.Minute), 3, 5*time.Second)

	_, err := svc.AddExpense(context.Background(), AddExpenseCommand{
		GroupID:   "nonexistent-id",
		Amount:    100,
		PaidBy:    "alice",
		SplitWith: []string{"alice"},
		Weights:   []float64{1},
	})
	if !errors.Is(err, storage.ErrGroupNotFound) {
		t.Errorf("error = %v, want ErrGroupNotFound", err)
	}
}

// conflictStore wraps a Store and forces the first n saves to conflict,
// exercising the retry path without real concurrent writers.
type conflictStore struct {
	storage.Store
	conflicts int
	saves     int
}

func (s *conflictStore) SaveGroup(ctx context.Context, group *models.Group) error {
	s.saves++
	if s.saves <= s.conflicts {
		return storage.ErrVersionConflict
	}
	return s.Store.SaveGroup(ctx, group)
}

func TestExpenseServiceRetriesOnConflict(t *testing.T) {
	inner := newTestStore(t)
	group := createTestGroup(t, inner, "alice", "bob")

	store := &conflictStore{Store: inner, conflicts: 2}
	svc := NewExpenseService(store, cache.NewInMemoryCache(time.Minute), 3, 5*time.Second)

	updated, err := svc.AddExpense(context.Background(), AddExpenseCommand{
		GroupID:     group.ID,
		Description: "Retried",
		Amount:      2000,
		PaidBy:      "alice",
		SplitWith:   []string{"bob"},
		Weights:     []float64{1},
	})
	if err != nil {
		t.Fatalf("AddExpense failed after conflicts: %v", err)
	}
	if store.saves != 3 {
		t.Errorf("saves = %d, want 3", store.saves)
	}
	if updated.Balances["bob"] != -2000 {
		t.Errorf("bob balance = %d, want -2000", updated.Balances["bob"])
	}
}

func TestExpenseServiceGivesUpAfterRetryBudget(t *testing.T) {
	inner := newTestStore(t)
	group := createTestGroup(t, inner, "alice", "bob")

	store := &conflictStore{Store: inner, conflicts: 100}
	svc := NewExpenseService(store, cache.NewInMemoryCache(time.Minute), 2, 5*time.Second)

	_, err := svc.AddExpense(context.Background(), AddExpenseCommand{
		GroupID:   group.ID,
		Amount:    2000,
		PaidBy:    "alice",
		SplitWith: []string{"bob"},
		Weights:   []float64{1},
	})
	if !errors.Is(err, ErrTooManyConflicts) {
		t.Errorf("error = %v, want ErrTooManyConflicts", err)
	}
	if store.saves != 3 {
		t.Errorf("saves = %d, want 3 (initial attempt plus two retries)", store.saves)
	}
}
