package ledger

import "errors"

// Validation errors are caused by bad user input. They are recoverable,
// reported with a specific message per kind, and never mutate the group.
var (
	// ErrInvalidAmount means the amount is not a positive number.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrUnknownPayer means the payer is not a member of the group.
	ErrUnknownPayer = errors.New("payer is not a member of the group")

	// ErrNoSplitMembers means the expense has no participants.
	ErrNoSplitMembers = errors.New("at least one split member is required")

	// ErrSplitMismatch means the participant and weight lists have
	// different lengths.
	ErrSplitMismatch = errors.New("the number of split members and percentages do not match")

	// ErrUnknownParticipant means a split member is not in the group.
	ErrUnknownParticipant = errors.New("split member is not a member of the group")

	// ErrInvalidWeights means the split weights are negative, not finite,
	// or do not sum to a positive value.
	ErrInvalidWeights = errors.New("percentages must sum to a positive value")

	// ErrNoOutstandingBalance means a settlement was attempted by a
	// member whose balance is not negative.
	ErrNoOutstandingBalance = errors.New("no outstanding balance to settle")

	// ErrUnknownMember means a balance delta targets a name that is not
	// a group member.
	ErrUnknownMember = errors.New("unknown group member in balance delta")
)

// ErrInvariantViolation means the zero-sum check failed after applying a
// delta. It indicates a bug in a caller, not a user mistake: the update
// must be aborted, logged, and never presented as a validation failure.
var ErrInvariantViolation = errors.New("group balances do not sum to zero")
