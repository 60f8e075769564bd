package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tally/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func idp(id int64) *int64 {
	return &id
}

func TestExpenseEffect(t *testing.T) {
	tests := []struct {
		name         string
		expense      models.Expense
		wantFriend   int64
		wantLent     string
		wantBorrowed string
		wantExpenses string
		wantPersonal string
	}{
		{
			name:         "user paid for friend counts as lent",
			expense:      models.Expense{Amount: dec("200"), PaidBy: models.PaidByMe, FriendID: idp(1)},
			wantFriend:   1,
			wantLent:     "200",
			wantBorrowed: "0",
			wantExpenses: "200",
			wantPersonal: "0",
		},
		{
			name:         "friend paid counts as borrowed",
			expense:      models.Expense{Amount: dec("75.50"), PaidBy: models.PaidByFriend, FriendID: idp(2)},
			wantFriend:   2,
			wantLent:     "0",
			wantBorrowed: "75.50",
			wantExpenses: "75.50",
			wantPersonal: "0",
		},
		{
			name:         "personal expense touches no friend",
			expense:      models.Expense{Amount: dec("42.99"), PaidBy: models.PaidByMe},
			wantFriend:   0,
			wantLent:     "0",
			wantBorrowed: "0",
			wantExpenses: "42.99",
			wantPersonal: "42.99",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ef := ExpenseEffect(tt.expense)
			if ef.FriendID != tt.wantFriend {
				t.Errorf("FriendID = %d, want %d", ef.FriendID, tt.wantFriend)
			}
			checkDec(t, "Lent", ef.Lent, tt.wantLent)
			checkDec(t, "Borrowed", ef.Borrowed, tt.wantBorrowed)
			checkDec(t, "Expenses", ef.Expenses, tt.wantExpenses)
			checkDec(t, "Personal", ef.Personal, tt.wantPersonal)
		})
	}
}

func TestSettlementEffect(t *testing.T) {
	tests := []struct {
		name         string
		settlement   models.Settlement
		wantLent     string
		wantBorrowed string
	}{
		{
			name:         "friend paid user raises borrowed",
			settlement:   models.Settlement{FriendID: 1, Amount: dec("50"), Direction: models.DirectionPaidToMe},
			wantLent:     "0",
			wantBorrowed: "50",
		},
		{
			name:         "user paid friend raises lent",
			settlement:   models.Settlement{FriendID: 1, Amount: dec("30.25"), Direction: models.DirectionPaidByMe},
			wantLent:     "30.25",
			wantBorrowed: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ef := SettlementEffect(tt.settlement)
			if ef.FriendID != tt.settlement.FriendID {
				t.Errorf("FriendID = %d, want %d", ef.FriendID, tt.settlement.FriendID)
			}
			checkDec(t, "Lent", ef.Lent, tt.wantLent)
			checkDec(t, "Borrowed", ef.Borrowed, tt.wantBorrowed)
			// Settlements never touch expense totals.
			checkDec(t, "Expenses", ef.Expenses, "0")
			checkDec(t, "Personal", ef.Personal, "0")
		})
	}
}

func TestEffectNegatedIsExactInverse(t *testing.T) {
	effects := []Effect{
		ExpenseEffect(models.Expense{Amount: dec("0.01"), PaidBy: models.PaidByMe, FriendID: idp(1)}),
		ExpenseEffect(models.Expense{Amount: dec("123456789.99"), PaidBy: models.PaidByFriend, FriendID: idp(1)}),
		SettlementEffect(models.Settlement{FriendID: 1, Amount: dec("33.33"), Direction: models.DirectionPaidToMe}),
	}

	for _, ef := range effects {
		neg := ef.Negated()
		if !ef.Lent.Add(neg.Lent).IsZero() ||
			!ef.Borrowed.Add(neg.Borrowed).IsZero() ||
			!ef.Expenses.Add(neg.Expenses).IsZero() ||
			!ef.Personal.Add(neg.Personal).IsZero() {
			t.Errorf("effect + negation is not zero: %+v", ef)
		}
	}
}

func checkDec(t *testing.T, field string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", field, got, want)
	}
}
