// Package models defines the core domain models for SplitSmart.
//
// # Models
//
//   - User: a registered account, identified by a unique username
//   - Group: a set of members with a shared balance map and expense log
//   - Expense: one logged expense with its per-member split
//
// # Design Principles
//
//  1. **Exact arithmetic**: all monetary fields are money.Cents (integer
//     minor units), so the group zero-sum invariant is exact rather than
//     tolerance-based.
//  2. **Append-only history**: expenses are immutable once appended;
//     settlements adjust the balance map and never rewrite expense history.
//  3. **Optimistic concurrency**: Group carries a Version counter that the
//     store checks-and-increments on every save, so concurrent writers on
//     the same group cannot silently lose updates.
//  4. **Avoid circular references**: members are referenced by name
//     strings, not pointers.
package models
