// Package models defines the core domain models for Tally.
//
// # Models
//
//   - Friend: a counterparty the user shares expenses with, plus the
//     derived lent/borrowed totals maintained by the ledger engine
//   - Expense: a purchase, either personal or shared with one friend
//   - Settlement: a payment between the user and a friend that retires debt
//   - Summary: the global derived view across all friends
//   - User: a registered account; every user owns an independent ledger
//
// # Design Principles
//
//  1. **Amounts are decimals**: every monetary field is a
//     shopspring/decimal value. The ledger engine reverses and re-applies
//     entry effects in place, so amounts must round-trip exactly.
//  2. **Derived fields are never written by callers**: Friend.TotalLent,
//     Friend.TotalBorrowed and every Summary field are owned by the
//     ledger's aggregate index.
//  3. **Avoid circular references**: entries carry friend ids, not
//     pointers to Friend.
//
// Dates are int64 nanoseconds since the Unix epoch throughout, matching
// the transport representation.
package models
