package ledger

import (
	"sort"

	"github.com/splitsmart/splitsmart/internal/models"
	"github.com/splitsmart/splitsmart/internal/money"
)

// ApplySettlement applies a payment from a member against their
// outstanding debt and returns a copy of the group with balances updated.
//
// The payer must hold a negative balance. The amount of debt cleared is
// capped at the outstanding debt: paying more than owed clears the debt
// to zero and the excess is ignored. A partial payment leaves the
// remaining debt in place and is still a success.
//
// The offsetting credit is removed from the members holding positive
// balances, proportionally when there is more than one creditor, so the
// zero-sum invariant holds after settlement. In the two-party case the
// single creditor's balance decreases by exactly the cleared amount.
func ApplySettlement(g *models.Group, payer string, amount money.Cents) (*models.Group, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !g.HasMember(payer) {
		return nil, ErrUnknownPayer
	}
	debt := g.Balances[payer]
	if debt >= 0 {
		return nil, ErrNoOutstandingBalance
	}

	cleared := amount
	if cleared > -debt {
		cleared = -debt
	}

	deltas := distributeToCreditors(g, payer, cleared)
	deltas[payer] += cleared

	return ApplyDelta(g, deltas)
}

// distributeToCreditors spreads -cleared across the members with
// positive balances in proportion to their credit, using largest
// remainders so the reductions sum to exactly cleared. Creditors are
// walked in name order for determinism.
func distributeToCreditors(g *models.Group, payer string, cleared money.Cents) map[string]money.Cents {
	var creditors []string
	var totalCredit money.Cents
	for _, name := range g.Members {
		if name != payer && g.Balances[name] > 0 {
			creditors = append(creditors, name)
			totalCredit += g.Balances[name]
		}
	}
	sort.Strings(creditors)

	deltas := make(map[string]money.Cents, len(creditors)+1)
	if len(creditors) == 1 {
		deltas[creditors[0]] = -cleared
		return deltas
	}

	// Integer largest-remainder apportionment: base share first, then one
	// extra cent to the largest remainders until cleared is covered.
	type portion struct {
		name      string
		remainder money.Cents
	}
	var allocated money.Cents
	portions := make([]portion, 0, len(creditors))
	for _, name := range creditors {
		exact := cleared * g.Balances[name] // scaled by totalCredit
		base := exact / totalCredit
		deltas[name] = -base
		allocated += base
		portions = append(portions, portion{name: name, remainder: exact % totalCredit})
	}
	sort.Slice(portions, func(i, j int) bool {
		if portions[i].remainder != portions[j].remainder {
			return portions[i].remainder > portions[j].remainder
		}
		return portions[i].name < portions[j].name
	})
	for i := 0; allocated < cleared; i++ {
		deltas[portions[i].name]--
		allocated++
	}

	return deltas
}
