package ledger

import (
	"errors"
	"testing"

	"github.com/mmynk/tally/internal/models"
)

// checkConsistent rebuilds the ledger from its stored entries and verifies
// the incremental aggregates match a from-scratch replay.
func checkConsistent(t *testing.T, l *Ledger) {
	t.Helper()

	rebuilt, err := Restore(l.Friends(), l.Expenses(), l.Settlements())
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	for _, f := range l.Friends() {
		r, err := rebuilt.GetFriend(f.ID)
		if err != nil {
			t.Fatalf("rebuilt ledger missing friend %d", f.ID)
		}
		if !f.TotalLent.Equal(r.TotalLent) || !f.TotalBorrowed.Equal(r.TotalBorrowed) {
			t.Errorf("friend %d drifted from replay: incremental (%s, %s), replay (%s, %s)",
				f.ID, f.TotalLent, f.TotalBorrowed, r.TotalLent, r.TotalBorrowed)
		}
		if f.TotalLent.IsNegative() || f.TotalBorrowed.IsNegative() {
			t.Errorf("friend %d has negative gross accumulator: (%s, %s)", f.ID, f.TotalLent, f.TotalBorrowed)
		}
	}

	got, want := l.Summary(), rebuilt.Summary()
	if !got.TotalLent.Equal(want.TotalLent) ||
		!got.TotalBorrowed.Equal(want.TotalBorrowed) ||
		!got.TotalExpenses.Equal(want.TotalExpenses) ||
		!got.PersonalExpenses.Equal(want.PersonalExpenses) {
		t.Errorf("summary drifted from replay: incremental %+v, replay %+v", got, want)
	}
}

func TestLedgerScenarios(t *testing.T) {
	l := New()
	f1 := l.AddFriend("Aditi")

	var expenseID, settlementID int64

	t.Run("add shared expense paid by me", func(t *testing.T) {
		var err error
		expenseID, err = l.AddExpense("Lunch", dec("200"), 1000, models.PaidByMe, &f1)
		if err != nil {
			t.Fatalf("AddExpense failed: %v", err)
		}

		f, _ := l.GetFriend(f1)
		checkDec(t, "TotalLent", f.TotalLent, "200")
		checkDec(t, "TotalExpenses", l.Summary().TotalExpenses, "200")
		checkConsistent(t, l)
	})

	t.Run("update expense amount", func(t *testing.T) {
		if err := l.UpdateExpense(expenseID, "Lunch", dec("150"), 1000, models.PaidByMe, &f1); err != nil {
			t.Fatalf("UpdateExpense failed: %v", err)
		}

		f, _ := l.GetFriend(f1)
		checkDec(t, "TotalLent", f.TotalLent, "150")
		checkDec(t, "TotalExpenses", l.Summary().TotalExpenses, "150")
		checkConsistent(t, l)
	})

	t.Run("add settlement friend paid me", func(t *testing.T) {
		var err error
		settlementID, err = l.AddSettlement(f1, dec("50"), 2000, models.DirectionPaidToMe)
		if err != nil {
			t.Fatalf("AddSettlement failed: %v", err)
		}

		f, _ := l.GetFriend(f1)
		checkDec(t, "TotalBorrowed", f.TotalBorrowed, "50")
		checkDec(t, "net balance", f.Balance(), "100")
		checkConsistent(t, l)
	})

	t.Run("delete expense leaves settlement intact", func(t *testing.T) {
		if err := l.DeleteExpense(expenseID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}

		f, _ := l.GetFriend(f1)
		checkDec(t, "TotalLent", f.TotalLent, "0")
		checkDec(t, "TotalBorrowed", f.TotalBorrowed, "50")
		checkDec(t, "TotalExpenses", l.Summary().TotalExpenses, "0")
		checkConsistent(t, l)
	})

	t.Run("personal expense touches only global totals", func(t *testing.T) {
		before, _ := l.GetFriend(f1)

		if _, err := l.AddExpense("Groceries", dec("75"), 3000, models.PaidByMe, nil); err != nil {
			t.Fatalf("AddExpense failed: %v", err)
		}

		s := l.Summary()
		checkDec(t, "PersonalExpenses", s.PersonalExpenses, "75")
		checkDec(t, "TotalExpenses", s.TotalExpenses, "75")

		after, _ := l.GetFriend(f1)
		if !after.TotalLent.Equal(before.TotalLent) || !after.TotalBorrowed.Equal(before.TotalBorrowed) {
			t.Error("personal expense changed a friend accumulator")
		}
		checkConsistent(t, l)
	})

	t.Run("delete friend cascades", func(t *testing.T) {
		if err := l.DeleteFriend(f1); err != nil {
			t.Fatalf("DeleteFriend failed: %v", err)
		}

		if _, err := l.GetFriend(f1); !errors.Is(err, ErrFriendNotFound) {
			t.Errorf("GetFriend after delete = %v, want ErrFriendNotFound", err)
		}
		if _, err := l.GetSettlement(settlementID); !errors.Is(err, ErrEntryNotFound) {
			t.Errorf("settlement survived friend deletion: %v", err)
		}
		for _, e := range l.Expenses() {
			if e.FriendID != nil && *e.FriendID == f1 {
				t.Error("expense referencing deleted friend survived")
			}
		}

		s := l.Summary()
		if len(s.FriendsSummary) != 0 {
			t.Errorf("FriendsSummary = %+v, want empty", s.FriendsSummary)
		}
		// The personal expense is unaffected by the cascade.
		checkDec(t, "PersonalExpenses", s.PersonalExpenses, "75")
		checkDec(t, "TotalExpenses", s.TotalExpenses, "75")
		checkDec(t, "TotalLent", s.TotalLent, "0")
		checkDec(t, "TotalBorrowed", s.TotalBorrowed, "0")
		checkConsistent(t, l)
	})
}

func TestLedger_FullLifecycleReturnsToZero(t *testing.T) {
	// Gross accumulators stay non-negative because postings only ever add
	// and reversals match what was applied; deleting everything lands on
	// exactly zero.
	l := New()
	f := l.AddFriend("Bo")

	id, err := l.AddExpense("Dinner", dec("100"), 1, models.PaidByMe, &f)
	if err != nil {
		t.Fatal(err)
	}
	sid, err := l.AddSettlement(f, dec("100"), 2, models.DirectionPaidToMe)
	if err != nil {
		t.Fatal(err)
	}

	fr, _ := l.GetFriend(f)
	checkDec(t, "TotalLent", fr.TotalLent, "100")
	checkDec(t, "TotalBorrowed", fr.TotalBorrowed, "100")
	checkDec(t, "net balance", fr.Balance(), "0")

	if err := l.DeleteSettlement(sid); err != nil {
		t.Fatal(err)
	}
	if err := l.DeleteExpense(id); err != nil {
		t.Fatal(err)
	}

	fr, _ = l.GetFriend(f)
	checkDec(t, "TotalLent", fr.TotalLent, "0")
	checkDec(t, "TotalBorrowed", fr.TotalBorrowed, "0")
}

func TestLedger_UpdateExpenseMovesTotalsBetweenFriends(t *testing.T) {
	l := New()
	f1 := l.AddFriend("Aditi")
	f2 := l.AddFriend("Bo")

	id, err := l.AddExpense("Cab", dec("80"), 1, models.PaidByMe, &f1)
	if err != nil {
		t.Fatal(err)
	}

	if err := l.UpdateExpense(id, "Cab", dec("80"), 1, models.PaidByMe, &f2); err != nil {
		t.Fatalf("UpdateExpense failed: %v", err)
	}

	a, _ := l.GetFriend(f1)
	b, _ := l.GetFriend(f2)
	checkDec(t, "old friend TotalLent", a.TotalLent, "0")
	checkDec(t, "new friend TotalLent", b.TotalLent, "80")
	checkConsistent(t, l)
}

func TestLedger_UpdateSettlementFlipsDirection(t *testing.T) {
	l := New()
	f := l.AddFriend("Aditi")

	id, err := l.AddSettlement(f, dec("40"), 1, models.DirectionPaidToMe)
	if err != nil {
		t.Fatal(err)
	}

	if err := l.UpdateSettlement(id, f, dec("40"), 1, models.DirectionPaidByMe); err != nil {
		t.Fatalf("UpdateSettlement failed: %v", err)
	}

	fr, _ := l.GetFriend(f)
	checkDec(t, "TotalBorrowed", fr.TotalBorrowed, "0")
	checkDec(t, "TotalLent", fr.TotalLent, "40")
	checkConsistent(t, l)
}

func TestLedger_ValidationErrors(t *testing.T) {
	l := New()
	f := l.AddFriend("Aditi")
	missing := int64(999)

	tests := []struct {
		name    string
		op      func() error
		wantErr error
	}{
		{
			name: "zero amount expense",
			op: func() error {
				_, err := l.AddExpense("x", dec("0"), 1, models.PaidByMe, nil)
				return err
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "negative amount settlement",
			op: func() error {
				_, err := l.AddSettlement(f, dec("-5"), 1, models.DirectionPaidToMe)
				return err
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "expense referencing unknown friend",
			op: func() error {
				_, err := l.AddExpense("x", dec("10"), 1, models.PaidByMe, &missing)
				return err
			},
			wantErr: ErrFriendNotFound,
		},
		{
			name: "friend-paid expense without friend",
			op: func() error {
				_, err := l.AddExpense("x", dec("10"), 1, models.PaidByFriend, nil)
				return err
			},
			wantErr: ErrMissingFriend,
		},
		{
			name: "settlement without friend",
			op: func() error {
				_, err := l.AddSettlement(0, dec("10"), 1, models.DirectionPaidToMe)
				return err
			},
			wantErr: ErrMissingFriend,
		},
		{
			name: "settlement with unknown direction",
			op: func() error {
				_, err := l.AddSettlement(f, dec("10"), 1, models.Direction("Sideways"))
				return err
			},
			wantErr: ErrInvalidDirection,
		},
		{
			name: "expense with unknown payer",
			op: func() error {
				_, err := l.AddExpense("x", dec("10"), 1, models.PaidBy("Them"), nil)
				return err
			},
			wantErr: ErrInvalidPayer,
		},
		{
			name:    "update missing expense",
			op:      func() error { return l.UpdateExpense(404, "x", dec("10"), 1, models.PaidByMe, nil) },
			wantErr: ErrEntryNotFound,
		},
		{
			name:    "delete missing settlement",
			op:      func() error { return l.DeleteSettlement(404) },
			wantErr: ErrEntryNotFound,
		},
		{
			name:    "rename missing friend",
			op:      func() error { return l.UpdateFriend(404, "Nobody") },
			wantErr: ErrFriendNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.op(); !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Failed validations must leave no trace in store or index.
	if got := len(l.Expenses()); got != 0 {
		t.Errorf("expenses stored after failed validations: %d", got)
	}
	if got := len(l.Settlements()); got != 0 {
		t.Errorf("settlements stored after failed validations: %d", got)
	}
	fr, _ := l.GetFriend(f)
	checkDec(t, "TotalLent", fr.TotalLent, "0")
	checkDec(t, "TotalBorrowed", fr.TotalBorrowed, "0")
}

func TestLedger_FailedUpdateLeavesEntryPosted(t *testing.T) {
	l := New()
	f := l.AddFriend("Aditi")

	id, err := l.AddExpense("Lunch", dec("60"), 1, models.PaidByMe, &f)
	if err != nil {
		t.Fatal(err)
	}

	// Validation failure after the entry exists must not half-reverse it.
	if err := l.UpdateExpense(id, "Lunch", dec("-1"), 1, models.PaidByMe, &f); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("got %v, want ErrInvalidAmount", err)
	}

	fr, _ := l.GetFriend(f)
	checkDec(t, "TotalLent", fr.TotalLent, "60")
	e, _ := l.GetExpense(id)
	checkDec(t, "Amount", e.Amount, "60")
	checkConsistent(t, l)
}

func TestLedger_RandomizedMutationSequenceStaysConsistent(t *testing.T) {
	l := New()
	f1 := l.AddFriend("Aditi")
	f2 := l.AddFriend("Bo")

	amounts := []string{"12.34", "0.01", "500", "99.999", "3.50"}
	var expenseIDs, settlementIDs []int64

	for i, a := range amounts {
		friend := &f1
		paidBy := models.PaidByMe
		if i%2 == 1 {
			friend = &f2
			paidBy = models.PaidByFriend
		}
		id, err := l.AddExpense("e", dec(a), int64(i), paidBy, friend)
		if err != nil {
			t.Fatal(err)
		}
		expenseIDs = append(expenseIDs, id)

		sid, err := l.AddSettlement(*friend, dec(a), int64(i), models.DirectionPaidToMe)
		if err != nil {
			t.Fatal(err)
		}
		settlementIDs = append(settlementIDs, sid)
	}
	checkConsistent(t, l)

	// Mutate historical entries, not just the most recent.
	if err := l.UpdateExpense(expenseIDs[0], "e", dec("1.11"), 0, models.PaidByFriend, &f2); err != nil {
		t.Fatal(err)
	}
	if err := l.DeleteExpense(expenseIDs[2]); err != nil {
		t.Fatal(err)
	}
	if err := l.UpdateSettlement(settlementIDs[1], f1, dec("7.77"), 0, models.DirectionPaidByMe); err != nil {
		t.Fatal(err)
	}
	if err := l.DeleteSettlement(settlementIDs[3]); err != nil {
		t.Fatal(err)
	}
	checkConsistent(t, l)

	if err := l.DeleteFriend(f2); err != nil {
		t.Fatal(err)
	}
	checkConsistent(t, l)
}

func TestRestore_PreservesIDsAndRejectsDanglingReferences(t *testing.T) {
	l := New()
	f := l.AddFriend("Aditi")
	eid, _ := l.AddExpense("Lunch", dec("20"), 1, models.PaidByMe, &f)

	restored, err := Restore(l.Friends(), l.Expenses(), l.Settlements())
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if _, err := restored.GetExpense(eid); err != nil {
		t.Errorf("restored ledger missing expense %d: %v", eid, err)
	}

	// New entries continue after the highest restored id.
	nextID, err := restored.AddExpense("Coffee", dec("5"), 2, models.PaidByMe, nil)
	if err != nil {
		t.Fatal(err)
	}
	if nextID <= eid {
		t.Errorf("new id %d not beyond restored id %d", nextID, eid)
	}

	dangling := int64(42)
	_, err = Restore(nil, []models.Expense{
		{ID: 1, Item: "x", Amount: dec("5"), PaidBy: models.PaidByMe, FriendID: &dangling},
	}, nil)
	if !errors.Is(err, ErrFriendNotFound) {
		t.Errorf("Restore with dangling reference = %v, want ErrFriendNotFound", err)
	}
}
