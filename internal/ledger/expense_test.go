package ledger

import (
	"errors"
	"reflect"
	"testing"

	"github.com/splitsmart/splitsmart/internal/models"
	"github.com/splitsmart/splitsmart/internal/money"
)

func newTestGroup(members []string, balances map[string]money.Cents) *models.Group {
	g := &models.Group{
		ID:       "g1",
		Name:     "Test Group",
		Members:  members,
		Balances: make(map[string]money.Cents, len(members)),
	}
	for _, m := range members {
		g.Balances[m] = balances[m]
	}
	return g
}

func balanceSum(g *models.Group) money.Cents {
	var sum money.Cents
	for _, bal := range g.Balances {
		sum += bal
	}
	return sum
}

func TestApplyExpense(t *testing.T) {
	tests := []struct {
		name         string
		members      []string
		amount       money.Cents
		payer        string
		participants []string
		weights      []float64
		wantErr      error
		validateFunc func(t *testing.T, g *models.Group)
	}{
		{
			name:         "payer splitting with self only keeps balance at zero",
			members:      []string{"testuser"},
			amount:       10000,
			payer:        "testuser",
			participants: []string{"testuser"},
			weights:      []float64{1.0},
			validateFunc: func(t *testing.T, g *models.Group) {
				if got := g.Balances["testuser"]; got != 0 {
					t.Errorf("testuser balance = %d, want 0", got)
				}
				if len(g.Expenses) != 1 {
					t.Fatalf("expense count = %d, want 1", len(g.Expenses))
				}
				if got := g.Expenses[0].SplitAmong["testuser"]; got != 10000 {
					t.Errorf("testuser share = %d, want 10000", got)
				}
			},
		},
		{
			name:         "equal two-way split",
			members:      []string{"alice", "bob"},
			amount:       10000,
			payer:        "alice",
			participants: []string{"alice", "bob"},
			weights:      []float64{50, 50},
			validateFunc: func(t *testing.T, g *models.Group) {
				if got := g.Balances["alice"]; got != 5000 {
					t.Errorf("alice balance = %d, want 5000", got)
				}
				if got := g.Balances["bob"]; got != -5000 {
					t.Errorf("bob balance = %d, want -5000", got)
				}
			},
		},
		{
			name:         "weights are proportions, not strict percentages",
			members:      []string{"alice", "bob", "carol"},
			amount:       9000,
			payer:        "alice",
			participants: []string{"alice", "bob", "carol"},
			weights:      []float64{1, 1, 1},
			validateFunc: func(t *testing.T, g *models.Group) {
				for _, name := range []string{"bob", "carol"} {
					if got := g.Balances[name]; got != -3000 {
						t.Errorf("%s balance = %d, want -3000", name, got)
					}
				}
				if got := g.Balances["alice"]; got != 6000 {
					t.Errorf("alice balance = %d, want 6000", got)
				}
			},
		},
		{
			name:         "rounding remainder goes to the payer",
			members:      []string{"alice", "bob", "carol"},
			amount:       10000,
			payer:        "alice",
			participants: []string{"alice", "bob", "carol"},
			weights:      []float64{1, 1, 1},
			validateFunc: func(t *testing.T, g *models.Group) {
				e := g.Expenses[0]
				// 3333+3333+3333 leaves one cent; the payer carries it.
				if got := e.SplitAmong["alice"]; got != 3334 {
					t.Errorf("alice share = %d, want 3334", got)
				}
				var total money.Cents
				for _, share := range e.SplitAmong {
					total += share
				}
				if total != 10000 {
					t.Errorf("shares sum = %d, want 10000", total)
				}
			},
		},
		{
			name:         "remainder without payer participating goes to largest share",
			members:      []string{"alice", "bob", "carol", "dave"},
			amount:       10000,
			payer:        "dave",
			participants: []string{"alice", "bob", "carol"},
			weights:      []float64{1, 1, 1},
			validateFunc: func(t *testing.T, g *models.Group) {
				var total money.Cents
				for _, share := range g.Expenses[0].SplitAmong {
					total += share
				}
				if total != 10000 {
					t.Errorf("shares sum = %d, want 10000", total)
				}
				if got := g.Balances["dave"]; got != 10000 {
					t.Errorf("dave balance = %d, want 10000", got)
				}
			},
		},
		{
			name:         "zero amount rejected",
			members:      []string{"alice"},
			amount:       0,
			payer:        "alice",
			participants: []string{"alice"},
			weights:      []float64{1},
			wantErr:      ErrInvalidAmount,
		},
		{
			name:         "unknown payer rejected",
			members:      []string{"alice"},
			amount:       100,
			payer:        "mallory",
			participants: []string{"alice"},
			weights:      []float64{1},
			wantErr:      ErrUnknownPayer,
		},
		{
			name:         "empty participants rejected",
			members:      []string{"alice"},
			amount:       100,
			payer:        "alice",
			participants: nil,
			weights:      nil,
			wantErr:      ErrNoSplitMembers,
		},
		{
			name:         "missing percentages rejected as mismatch",
			members:      []string{"alice", "bob"},
			amount:       10000,
			payer:        "alice",
			participants: []string{"alice", "bob"},
			weights:      []float64{},
			wantErr:      ErrSplitMismatch,
		},
		{
			name:         "unknown participant rejected",
			members:      []string{"alice", "bob"},
			amount:       100,
			payer:        "alice",
			participants: []string{"alice", "mallory"},
			weights:      []float64{1, 1},
			wantErr:      ErrUnknownParticipant,
		},
		{
			name:         "negative weight rejected",
			members:      []string{"alice", "bob"},
			amount:       100,
			payer:        "alice",
			participants: []string{"alice", "bob"},
			weights:      []float64{2, -1},
			wantErr:      ErrInvalidWeights,
		},
		{
			name:         "all-zero weights rejected",
			members:      []string{"alice", "bob"},
			amount:       100,
			payer:        "alice",
			participants: []string{"alice", "bob"},
			weights:      []float64{0, 0},
			wantErr:      ErrInvalidWeights,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGroup(tt.members, nil)
			before := g.Clone()

			updated, err := ApplyExpense(g, "dinner", tt.amount, tt.payer, tt.participants, tt.weights)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ApplyExpense() error = %v, want %v", err, tt.wantErr)
				}
				if !reflect.DeepEqual(g, before) {
					t.Error("group was mutated by a failed expense")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyExpense() unexpected error: %v", err)
			}

			if !reflect.DeepEqual(g.Balances, before.Balances) {
				t.Error("input group balances were mutated")
			}
			if sum := balanceSum(updated); sum != 0 {
				t.Errorf("balance sum = %d, want 0", sum)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, updated)
			}
		})
	}
}

func TestApplyExpenseValidationOrder(t *testing.T) {
	g := newTestGroup([]string{"alice"}, nil)

	// Invalid amount wins over the unknown payer.
	_, err := ApplyExpense(g, "x", 0, "mallory", nil, nil)
	if !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("error = %v, want ErrInvalidAmount", err)
	}

	// Unknown payer wins over empty participants.
	_, err = ApplyExpense(g, "x", 100, "mallory", nil, nil)
	if !errors.Is(err, ErrUnknownPayer) {
		t.Errorf("error = %v, want ErrUnknownPayer", err)
	}

	// Count mismatch wins over unknown participant.
	_, err = ApplyExpense(g, "x", 100, "alice", []string{"mallory"}, []float64{1, 2})
	if !errors.Is(err, ErrSplitMismatch) {
		t.Errorf("error = %v, want ErrSplitMismatch", err)
	}
}

func TestApplyExpenseConservation(t *testing.T) {
	g := newTestGroup([]string{"alice", "bob", "carol"}, nil)

	updated, err := ApplyExpense(g, "groceries", 7001, "alice", []string{"bob", "carol"}, []float64{3, 7})
	if err != nil {
		t.Fatalf("ApplyExpense() unexpected error: %v", err)
	}

	// Payer gains the full amount, the participants' losses cover it.
	if got := updated.Balances["alice"]; got != 7001 {
		t.Errorf("alice balance = %d, want 7001", got)
	}
	var owed money.Cents
	for _, name := range []string{"bob", "carol"} {
		owed -= updated.Balances[name]
	}
	if owed != 7001 {
		t.Errorf("total owed = %d, want 7001", owed)
	}
	if sum := balanceSum(updated); sum != 0 {
		t.Errorf("balance sum = %d, want 0", sum)
	}
}

func TestApplyExpenseSequence(t *testing.T) {
	g := newTestGroup([]string{"alice", "bob"}, nil)

	first, err := ApplyExpense(g, "lunch", 3000, "alice", []string{"alice", "bob"}, []float64{1, 1})
	if err != nil {
		t.Fatalf("first expense: %v", err)
	}
	second, err := ApplyExpense(first, "taxi", 2000, "bob", []string{"alice", "bob"}, []float64{1, 1})
	if err != nil {
		t.Fatalf("second expense: %v", err)
	}

	if got := second.Balances["alice"]; got != 500 {
		t.Errorf("alice balance = %d, want 500", got)
	}
	if got := second.Balances["bob"]; got != -500 {
		t.Errorf("bob balance = %d, want -500", got)
	}
	if len(second.Expenses) != 2 {
		t.Errorf("expense count = %d, want 2", len(second.Expenses))
	}
}
