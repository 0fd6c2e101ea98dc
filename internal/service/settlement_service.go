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

// SettlePaymentCommand is a fully parsed and typed settlement
// submission. The payer is always the authenticated member.
type SettlePaymentCommand struct {
	GroupID string
	Payer   string
	Amount  money.Cents
}

// SettlementService applies settlement payments to stored groups, with
// the same read-modify-write retry cycle as ExpenseService.
type SettlementService struct {
	store        storage.Store
	balanceCache cache.BalanceCache
	retries      int
	storeTimeout time.Duration
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(store storage.Store, balanceCache cache.BalanceCache, retries int, storeTimeout time.Duration) *SettlementService {
	return &SettlementService{
		store:        store,
		balanceCache: balanceCache,
		retries:      retries,
		storeTimeout: storeTimeout,
	}
}

// SettlePayment applies a payment from the payer against their
// outstanding debt, returning the updated group. Paying more than owed
// clears the debt to zero; partial payments succeed and leave the
// remainder outstanding.
func (s *SettlementService) SettlePayment(ctx context.Context, cmd SettlePaymentCommand) (*models.Group, error) {
	for attempt := 0; attempt <= s.retries; attempt++ {
		opCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		group, err := s.store.GetGroup(opCtx, cmd.GroupID)
		if err != nil {
			cancel()
			return nil, err
		}

		updated, err := ledger.ApplySettlement(group, cmd.Payer, cmd.Amount)
		if err != nil {
			cancel()
			if errors.Is(err, ledger.ErrInvariantViolation) {
				slog.Error("Settlement application violated zero-sum invariant",
					"group_id", cmd.GroupID,
					"payer", cmd.Payer,
					"amount", cmd.Amount,
				)
			}
			return nil, err
		}

		err = s.store.SaveGroup(opCtx, updated)
		cancel()
		if errors.Is(err, storage.ErrVersionConflict) {
			slog.Warn("Settlement save conflicted, retrying",
				"group_id", cmd.GroupID,
				"attempt", attempt+1,
			)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to save group: %w", err)
		}

		s.balanceCache.Invalidate(ctx, cmd.GroupID)
		slog.Info("Payment settled",
			"group_id", cmd.GroupID,
			"payer", cmd.Payer,
			"amount", cmd.Amount.String(),
			"remaining", updated.Balances[cmd.Payer].String(),
		)
		return updated, nil
	}

	return nil, ErrTooManyConflicts
}
