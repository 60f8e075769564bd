// Package ledger implements the aggregation engine for a single user's
// shared-expense ledger: the entry collections, the posting rules mapping
// each entry to its signed effect on the running totals, the incrementally
// maintained aggregate index, and the operation surface tying them together.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/tally/internal/models"
)

// Effect is the signed delta a single entry contributes to one friend's
// accumulators and to the global totals. Applying an effect and then its
// negation is a no-op, which is what makes in-place edit and deletion of
// historical entries possible without recomputing from the full history.
type Effect struct {
	// FriendID is the friend whose accumulators the effect touches.
	// Zero means no friend is affected (personal expenses).
	FriendID int64

	// Lent is the delta to the friend's TotalLent.
	Lent decimal.Decimal

	// Borrowed is the delta to the friend's TotalBorrowed.
	Borrowed decimal.Decimal

	// Expenses is the delta to the global TotalExpenses.
	Expenses decimal.Decimal

	// Personal is the delta to the global PersonalExpenses.
	Personal decimal.Decimal
}

// Negated returns the exact reverse of the effect.
func (e Effect) Negated() Effect {
	return Effect{
		FriendID: e.FriendID,
		Lent:     e.Lent.Neg(),
		Borrowed: e.Borrowed.Neg(),
		Expenses: e.Expenses.Neg(),
		Personal: e.Personal.Neg(),
	}
}

// ExpenseEffect computes the posting for an expense.
//
// A shared expense the user paid counts as lent to the friend; one the
// friend paid counts as borrowed. Personal expenses (no friend reference)
// touch no friend accumulator but still count toward TotalExpenses and
// PersonalExpenses. Every expense adds its amount to TotalExpenses.
//
// The caller guarantees referential validity: if FriendID is set it must
// name an existing friend. ExpenseEffect does not re-validate.
func ExpenseEffect(e models.Expense) Effect {
	ef := Effect{Expenses: e.Amount}
	if e.FriendID == nil {
		ef.Personal = e.Amount
		return ef
	}
	ef.FriendID = *e.FriendID
	switch e.PaidBy {
	case models.PaidByMe:
		ef.Lent = e.Amount
	case models.PaidByFriend:
		ef.Borrowed = e.Amount
	}
	return ef
}

// SettlementEffect computes the posting for a settlement.
//
// A settlement posts like any other money transfer: cash received from a
// friend raises TotalBorrowed, cash handed to a friend raises TotalLent.
// Either way the friend's net balance moves toward zero while both gross
// accumulators stay non-negative. Settlements never touch TotalExpenses
// or PersonalExpenses.
func SettlementEffect(s models.Settlement) Effect {
	ef := Effect{FriendID: s.FriendID}
	switch s.Direction {
	case models.DirectionPaidToMe:
		ef.Borrowed = s.Amount
	case models.DirectionPaidByMe:
		ef.Lent = s.Amount
	}
	return ef
}
