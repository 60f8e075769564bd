package ledger

import "github.com/shopspring/decimal"

// FriendTotals is the read-only snapshot of one friend's accumulators.
type FriendTotals struct {
	Lent     decimal.Decimal
	Borrowed decimal.Decimal
}

// GlobalTotals is the read-only snapshot of the global accumulators.
type GlobalTotals struct {
	TotalLent        decimal.Decimal
	TotalBorrowed    decimal.Decimal
	TotalExpenses    decimal.Decimal
	PersonalExpenses decimal.Decimal
}

// AggregateIndex holds the current per-friend and global accumulators,
// keyed by friend id for O(1) access. It is maintained purely by applying
// and reversing entry effects; it never recomputes from stored entries.
//
// All accumulation uses decimals so that an apply followed by the matching
// reverse restores every accumulator to exactly its prior value. The index
// does no locking; the owning Ledger serializes access.
type AggregateIndex struct {
	friends map[int64]*FriendTotals
	global  GlobalTotals
}

// NewAggregateIndex returns an empty index.
func NewAggregateIndex() *AggregateIndex {
	return &AggregateIndex{friends: make(map[int64]*FriendTotals)}
}

// Apply adds the effect's deltas to the relevant accumulators. A friend id
// seen for the first time gets a zero-initialized row.
func (x *AggregateIndex) Apply(ef Effect) {
	if ef.FriendID != 0 {
		row := x.friends[ef.FriendID]
		if row == nil {
			row = &FriendTotals{Lent: decimal.Zero, Borrowed: decimal.Zero}
			x.friends[ef.FriendID] = row
		}
		row.Lent = row.Lent.Add(ef.Lent)
		row.Borrowed = row.Borrowed.Add(ef.Borrowed)
		x.global.TotalLent = x.global.TotalLent.Add(ef.Lent)
		x.global.TotalBorrowed = x.global.TotalBorrowed.Add(ef.Borrowed)
	}
	x.global.TotalExpenses = x.global.TotalExpenses.Add(ef.Expenses)
	x.global.PersonalExpenses = x.global.PersonalExpenses.Add(ef.Personal)
}

// Reverse subtracts the same deltas. It must be called with the exact
// effect previously applied; the caller recomputes that effect from the
// stored entry before mutating it.
func (x *AggregateIndex) Reverse(ef Effect) {
	x.Apply(ef.Negated())
}

// Snapshot returns the current totals for a friend. The second return is
// false when the index holds no row for the id; callers treat that as
// all-zero totals.
func (x *AggregateIndex) Snapshot(friendID int64) (FriendTotals, bool) {
	row, ok := x.friends[friendID]
	if !ok {
		return FriendTotals{Lent: decimal.Zero, Borrowed: decimal.Zero}, false
	}
	return *row, true
}

// GlobalSnapshot returns the current global totals.
func (x *AggregateIndex) GlobalSnapshot() GlobalTotals {
	return x.global
}

// Drop removes a friend's accumulator row. The caller must have reversed
// every entry referencing the friend first, so the row being dropped is
// zero-valued.
func (x *AggregateIndex) Drop(friendID int64) {
	delete(x.friends, friendID)
}
