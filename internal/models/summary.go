package models

import "github.com/shopspring/decimal"

// FriendBalance is one row of Summary.FriendsSummary: a friend id and its
// net balance (lent minus borrowed).
type FriendBalance struct {
	FriendID int64           `json:"friendId"`
	Balance  decimal.Decimal `json:"balance"`
}

// Summary is the global derived view across the whole ledger. Every field
// is owned by the aggregate index; callers only ever read it.
type Summary struct {
	// TotalLent is the sum of TotalLent over all friends.
	TotalLent decimal.Decimal `json:"totalLent"`

	// TotalBorrowed is the sum of TotalBorrowed over all friends.
	TotalBorrowed decimal.Decimal `json:"totalBorrowed"`

	// TotalExpenses is the sum of all expense amounts, personal and shared.
	TotalExpenses decimal.Decimal `json:"totalExpenses"`

	// PersonalExpenses is the sum of expenses with no friend reference.
	PersonalExpenses decimal.Decimal `json:"personalExpenses"`

	// FriendsSummary lists each friend's net balance in friend-listing
	// order.
	FriendsSummary []FriendBalance `json:"friendsSummary"`
}
