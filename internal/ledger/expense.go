package ledger

import (
	"math"
	"time"

	"github.com/splitsmart/splitsmart/internal/models"
	"github.com/splitsmart/splitsmart/internal/money"
)

// ApplyExpense validates an expense submission, splits the amount across
// the participants in proportion to their weights, and returns a copy of
// the group with balances updated and the expense appended.
//
// Weights are proportional shares, not strict percentages: they only
// need to sum to a positive value. Each participant's share is
// amount * weight / sum(weights), rounded to cents; the penny remainder
// goes to the payer's share so the shares sum to exactly the amount.
//
// Balance effect: the payer's balance increases by the full amount (they
// are owed back), each participant's balance decreases by their share.
// The payer may also be a participant, in which case their net change is
// amount minus their own share.
//
// Validation order, first failing check wins: amount positive, payer is
// a member, participants non-empty, participant and weight counts match,
// every participant is a member, weights finite/non-negative with a
// positive sum.
func ApplyExpense(g *models.Group, description string, amount money.Cents, payer string, participants []string, weights []float64) (*models.Group, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !g.HasMember(payer) {
		return nil, ErrUnknownPayer
	}
	if len(participants) == 0 {
		return nil, ErrNoSplitMembers
	}
	if len(participants) != len(weights) {
		return nil, ErrSplitMismatch
	}
	for _, p := range participants {
		if !g.HasMember(p) {
			return nil, ErrUnknownParticipant
		}
	}
	var weightSum float64
	for _, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return nil, ErrInvalidWeights
		}
		weightSum += w
	}
	if weightSum <= 0 {
		return nil, ErrInvalidWeights
	}

	shares := splitByWeights(amount, payer, participants, weights, weightSum)

	deltas := make(map[string]money.Cents, len(shares)+1)
	deltas[payer] += amount
	for name, share := range shares {
		deltas[name] -= share
	}

	updated, err := ApplyDelta(g, deltas)
	if err != nil {
		return nil, err
	}

	updated.Expenses = append(updated.Expenses, models.Expense{
		Description: description,
		Amount:      amount,
		PaidBy:      payer,
		SplitAmong:  shares,
		CreatedAt:   time.Now().Unix(),
	})

	return updated, nil
}

// splitByWeights computes per-participant shares that sum to exactly
// amount. Duplicate participant names accumulate into one share.
func splitByWeights(amount money.Cents, payer string, participants []string, weights []float64, weightSum float64) map[string]money.Cents {
	shares := make(map[string]money.Cents, len(participants))
	var allocated money.Cents
	for i, p := range participants {
		share := money.Cents(math.Round(float64(amount) * weights[i] / weightSum))
		shares[p] += share
		allocated += share
	}

	// Rounding remainder goes to the payer when they participate,
	// otherwise to the largest share, keeping the split exact.
	if remainder := amount - allocated; remainder != 0 {
		if _, ok := shares[payer]; ok {
			shares[payer] += remainder
		} else {
			largest := participants[0]
			for name, share := range shares {
				if share > shares[largest] || (share == shares[largest] && name < largest) {
					largest = name
				}
			}
			shares[largest] += remainder
		}
	}

	return shares
}
