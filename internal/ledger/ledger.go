// Package ledger implements the balance-accounting engine: converting
// expenses into per-member balance deltas and applying settlement
// payments against net debts.
//
// All operations take a group value, validate fully, and return an
// updated copy on success; the input group is never mutated, so a failed
// operation leaves the caller's state byte-for-byte unchanged. Every
// balance mutation flows through ApplyDelta, which is the single choke
// point enforcing the zero-sum invariant.
package ledger

import (
	"github.com/splitsmart/splitsmart/internal/models"
	"github.com/splitsmart/splitsmart/internal/money"
)

// ApplyDelta applies a set of signed balance changes to a group and
// returns the updated copy.
//
// Every key in deltas must be an existing member. After application the
// group's balances must sum to exactly zero; a non-zero sum means a
// caller computed an unbalanced delta and is reported as
// ErrInvariantViolation.
func ApplyDelta(g *models.Group, deltas map[string]money.Cents) (*models.Group, error) {
	for name := range deltas {
		if !g.HasMember(name) {
			return nil, ErrUnknownMember
		}
	}

	updated := g.Clone()
	for name, delta := range deltas {
		updated.Balances[name] += delta
	}

	var sum money.Cents
	for _, bal := range updated.Balances {
		sum += bal
	}
	if sum != 0 {
		return nil, ErrInvariantViolation
	}

	return updated, nil
}
