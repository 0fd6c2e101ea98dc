package models

import "github.com/splitsmart/splitsmart/internal/money"

// Group represents a set of members who share expenses.
//
// Balances is the group's net position per member: positive means the
// group owes the member money, negative means the member owes the group.
// The sum of all balances is zero at all times; the ledger package is the
// only code that mutates the map.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates").
	Name string

	// Members is the ordered list of member usernames. Names are unique
	// within a group.
	Members []string

	// Balances maps member name to their signed net balance in cents.
	// Every member has an entry; a new group starts all at zero.
	Balances map[string]money.Cents

	// Expenses is the append-only expense log, oldest first.
	Expenses []Expense

	// Version is the optimistic-concurrency token. The store rejects a
	// save whose Version does not match the stored row and increments it
	// on every successful save.
	Version int64

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether name is a member of the group.
func (g *Group) HasMember(name string) bool {
	for _, m := range g.Members {
		if m == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the group. Ledger operations work on a
// clone so a failed operation leaves the caller's value untouched.
func (g *Group) Clone() *Group {
	c := &Group{
		ID:        g.ID,
		Name:      g.Name,
		Members:   append([]string(nil), g.Members...),
		Balances:  make(map[string]money.Cents, len(g.Balances)),
		Expenses:  append([]Expense(nil), g.Expenses...),
		Version:   g.Version,
		CreatedAt: g.CreatedAt,
	}
	for name, bal := range g.Balances {
		c.Balances[name] = bal
	}
	return c
}
