package models

import "github.com/splitsmart/splitsmart/internal/money"

// Expense represents one logged expense within a group.
//
// An expense is immutable once appended to a group's log: settlements
// only adjust the balance map, never the expense history. SplitAmong
// always sums to exactly Amount; any rounding remainder from the weight
// normalization is carried by the payer's share.
type Expense struct {
	// Description is the payer-provided description of the expense.
	Description string

	// Amount is the total amount paid, in cents. Always positive.
	Amount money.Cents

	// PaidBy is the username of the member who paid. Always a group
	// member at the time the expense was logged.
	PaidBy string

	// SplitAmong maps participant name to the share they are responsible
	// for, in cents. Shares sum to exactly Amount.
	SplitAmong map[string]money.Cents

	// CreatedAt is the Unix timestamp when the expense was logged.
	CreatedAt int64
}
