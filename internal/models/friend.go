package models

import "github.com/shopspring/decimal"

// Friend represents a counterparty the user shares expenses with.
//
// TotalLent and TotalBorrowed are gross accumulators, not a single net
// balance: a friend can have both at once. They are derived fields owned
// by the ledger's aggregate index and must never be written directly.
type Friend struct {
	// ID is the unique identifier for the friend, immutable after creation.
	ID int64 `json:"id"`

	// Name is the display name of the friend.
	Name string `json:"name"`

	// TotalLent is the gross amount the user has lent to this friend.
	// Never negative.
	TotalLent decimal.Decimal `json:"totalLent"`

	// TotalBorrowed is the gross amount the user has borrowed from this
	// friend. Never negative.
	TotalBorrowed decimal.Decimal `json:"totalBorrowed"`
}

// Balance returns the net balance for the friend. Positive means the
// friend owes the user.
func (f Friend) Balance() decimal.Decimal {
	return f.TotalLent.Sub(f.TotalBorrowed)
}
