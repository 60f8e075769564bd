package models

import "github.com/shopspring/decimal"

func init() {
	// Amounts travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// PaidBy identifies who paid for an expense.
type PaidBy string

const (
	// PaidByMe means the user paid. If the expense references a friend,
	// the friend owes their share and the amount counts as lent.
	PaidByMe PaidBy = "Me"

	// PaidByFriend means the referenced friend paid, so the amount counts
	// as borrowed by the user.
	PaidByFriend PaidBy = "Friend"
)

// Valid reports whether p is one of the known payer values.
func (p PaidBy) Valid() bool {
	return p == PaidByMe || p == PaidByFriend
}

// Direction identifies which way a settlement payment flowed.
type Direction string

const (
	// DirectionPaidToMe means the friend paid the user, reducing what
	// the friend has borrowed.
	DirectionPaidToMe Direction = "PaidToMe"

	// DirectionPaidByMe means the user paid the friend, reducing what
	// the user has lent.
	DirectionPaidByMe Direction = "PaidByMe"
)

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool {
	return d == DirectionPaidToMe || d == DirectionPaidByMe
}

// Expense represents a purchase, either personal or shared with one friend.
type Expense struct {
	// ID is the unique identifier for the expense, assigned by the entry
	// store and immutable afterwards.
	ID int64 `json:"id"`

	// Item is a free-text description of what was bought.
	Item string `json:"item"`

	// Amount is the expense amount. Always > 0.
	Amount decimal.Decimal `json:"amount"`

	// Date is nanoseconds since the Unix epoch.
	Date int64 `json:"date"`

	// PaidBy says whether the user or the referenced friend paid.
	PaidBy PaidBy `json:"paidBy"`

	// FriendID references the friend sharing this expense. Nil means a
	// personal expense with no ledger effect on any friend.
	FriendID *int64 `json:"friendId,omitempty"`
}

// Settlement represents a payment between the user and a friend that
// retires existing debt. Settlements always reference a friend.
type Settlement struct {
	// ID is the unique identifier for the settlement, assigned by the
	// entry store and immutable afterwards.
	ID int64 `json:"id"`

	// FriendID is the friend involved in the payment. Required.
	FriendID int64 `json:"friendId"`

	// Amount is the payment amount. Always > 0.
	Amount decimal.Decimal `json:"amount"`

	// Date is nanoseconds since the Unix epoch.
	Date int64 `json:"date"`

	// Direction says which way the payment flowed.
	Direction Direction `json:"direction"`
}
