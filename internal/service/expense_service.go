package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/splitsmart/splitsmart/internal/cache"
	"github.com/splitsmart/splitsmart/internal/ledger"
	"github.com/splitsmart/splitsmart/internal/models"
	"github.com/splitsmart/splitsmart/internal/money"
	"github.com/splitsmart/splitsmart/internal/storage"
)

// ErrTooManyConflicts means a group update kept losing the
// optimistic-concurrency race and the retry budget ran out. The state is
// unchanged and the request can be retried.
var ErrTooManyConflicts = errors.New("group is being updated concurrently, try again")

// AddExpenseCommand is a fully parsed and typed expense submission.
// Raw form input is converted to this shape at the API boundary; the
// core never sees untyped input.
type AddExpenseCommand struct {
	GroupID     string
	Description string
	Amount      money.Cents
	PaidBy      string
	SplitWith   []string
	Weights     []float64
}

// ExpenseService applies expense submissions to stored groups.
//
// Each application is a read-modify-write: fetch the group, run the
// ledger computation on the in-memory value, save with the version
// check. A concurrent writer on the same group triggers
// storage.ErrVersionConflict and the whole cycle retries from a fresh
// read, bounded by the retry budget. Requests touching different groups
// proceed independently.
type ExpenseService struct {
	store        storage.Store
	balanceCache cache.BalanceCache
	retries      int
	storeTimeout time.Duration
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(store storage.Store, balanceCache cache.BalanceCache, retries int, storeTimeout time.Duration) *ExpenseService {
	return &ExpenseService{
		store:        store,
		balanceCache: balanceCache,
		retries:      retries,
		storeTimeout: storeTimeout,
	}
}

// AddExpense validates and applies an expense to the group, returning
// the updated group. Validation failures leave the group untouched.
func (s *ExpenseService) AddExpense(ctx context.Context, cmd AddExpenseCommand) (*models.Group, error) {
	for attempt := 0; attempt <= s.retries; attempt++ {
		opCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		group, err := s.store.GetGroup(opCtx, cmd.GroupID)
		if err != nil {
			cancel()
			return nil, err
		}

		updated, err := ledger.ApplyExpense(group, cmd.Description, cmd.Amount, cmd.PaidBy, cmd.SplitWith, cmd.Weights)
		if err != nil {
			cancel()
			if errors.Is(err, ledger.ErrInvariantViolation) {
				slog.Error("Expense application violated zero-sum invariant",
					"group_id", cmd.GroupID,
					"paid_by", cmd.PaidBy,
					"amount", cmd.Amount,
				)
			}
			return nil, err
		}

		err = s.store.SaveGroup(opCtx, updated)
		cancel()
		if errors.Is(err, storage.ErrVersionConflict) {
			slog.Warn("Expense save conflicted, retrying",
				"group_id", cmd.GroupID,
				"attempt", attempt+1,
			)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to save group: %w", err)
		}

		s.balanceCache.Invalidate(ctx, cmd.GroupID)
		slog.Info("Expense added",
			"group_id", cmd.GroupID,
			"paid_by", cmd.PaidBy,
			"amount", cmd.Amount.String(),
			"participants", len(cmd.SplitWith),
		)
		return updated, nil
	}

	return nil, ErrTooManyConflicts
}
