package ledger

import (
	"testing"

	"github.com/mmynk/tally/internal/models"
)

func TestAggregateIndex_ApplyCreatesZeroInitializedRow(t *testing.T) {
	idx := NewAggregateIndex()

	if _, ok := idx.Snapshot(7); ok {
		t.Fatal("expected no row before first apply")
	}

	idx.Apply(Effect{FriendID: 7, Lent: dec("10")})

	totals, ok := idx.Snapshot(7)
	if !ok {
		t.Fatal("expected row after apply")
	}
	checkDec(t, "Lent", totals.Lent, "10")
	checkDec(t, "Borrowed", totals.Borrowed, "0")
}

func TestAggregateIndex_ApplyThenReverseRestoresExactValues(t *testing.T) {
	idx := NewAggregateIndex()
	idx.Apply(ExpenseEffect(models.Expense{Amount: dec("100.10"), PaidBy: models.PaidByMe, FriendID: idp(1)}))

	before, _ := idx.Snapshot(1)
	beforeGlobal := idx.GlobalSnapshot()

	// Fractional-cent amounts accumulate and reverse without drift.
	effects := []Effect{
		ExpenseEffect(models.Expense{Amount: dec("0.001"), PaidBy: models.PaidByMe, FriendID: idp(1)}),
		ExpenseEffect(models.Expense{Amount: dec("999999999.99"), PaidBy: models.PaidByFriend, FriendID: idp(1)}),
		SettlementEffect(models.Settlement{FriendID: 1, Amount: dec("33.333"), Direction: models.DirectionPaidToMe}),
		ExpenseEffect(models.Expense{Amount: dec("75"), PaidBy: models.PaidByMe}),
	}
	for _, ef := range effects {
		idx.Apply(ef)
	}
	for i := len(effects) - 1; i >= 0; i-- {
		idx.Reverse(effects[i])
	}

	after, _ := idx.Snapshot(1)
	if !after.Lent.Equal(before.Lent) || !after.Borrowed.Equal(before.Borrowed) {
		t.Errorf("friend totals drifted: before %+v, after %+v", before, after)
	}

	afterGlobal := idx.GlobalSnapshot()
	if !afterGlobal.TotalLent.Equal(beforeGlobal.TotalLent) ||
		!afterGlobal.TotalBorrowed.Equal(beforeGlobal.TotalBorrowed) ||
		!afterGlobal.TotalExpenses.Equal(beforeGlobal.TotalExpenses) ||
		!afterGlobal.PersonalExpenses.Equal(beforeGlobal.PersonalExpenses) {
		t.Errorf("global totals drifted: before %+v, after %+v", beforeGlobal, afterGlobal)
	}
}

func TestAggregateIndex_RepeatedCyclesDoNotDrift(t *testing.T) {
	idx := NewAggregateIndex()
	ef := ExpenseEffect(models.Expense{Amount: dec("0.1"), PaidBy: models.PaidByMe, FriendID: idp(1)})

	// 0.1 is not representable in binary floating point; a thousand
	// apply/reverse cycles must still land on exactly zero.
	for i := 0; i < 1000; i++ {
		idx.Apply(ef)
		idx.Reverse(ef)
	}

	totals, _ := idx.Snapshot(1)
	if !totals.Lent.IsZero() {
		t.Errorf("Lent = %s after balanced cycles, want exactly 0", totals.Lent)
	}
	if !idx.GlobalSnapshot().TotalExpenses.IsZero() {
		t.Errorf("TotalExpenses = %s after balanced cycles, want exactly 0", idx.GlobalSnapshot().TotalExpenses)
	}
}

func TestAggregateIndex_GlobalLentBorrowedSumOverFriends(t *testing.T) {
	idx := NewAggregateIndex()
	idx.Apply(Effect{FriendID: 1, Lent: dec("100")})
	idx.Apply(Effect{FriendID: 2, Lent: dec("50"), Borrowed: dec("20")})
	idx.Apply(Effect{FriendID: 3, Borrowed: dec("5.25")})

	g := idx.GlobalSnapshot()
	checkDec(t, "TotalLent", g.TotalLent, "150")
	checkDec(t, "TotalBorrowed", g.TotalBorrowed, "25.25")
}

func TestAggregateIndex_Drop(t *testing.T) {
	idx := NewAggregateIndex()
	ef := Effect{FriendID: 4, Lent: dec("12")}
	idx.Apply(ef)
	idx.Reverse(ef)
	idx.Drop(4)

	if _, ok := idx.Snapshot(4); ok {
		t.Error("expected no row after Drop")
	}
}
