package ledger

import "errors"

var (
	// ErrInvalidAmount is returned when an entry amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrFriendNotFound is returned when a referenced friend id does not
	// exist in the ledger.
	ErrFriendNotFound = errors.New("friend not found")

	// ErrEntryNotFound is returned when an update or delete targets an
	// expense or settlement id that does not exist.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrMissingFriend is returned when an operation requires a friend
	// reference and none was given (settlements, friend-paid expenses).
	ErrMissingFriend = errors.New("friend reference required")

	// ErrInvalidDirection is returned for an unknown settlement direction.
	ErrInvalidDirection = errors.New("invalid settlement direction")

	// ErrInvalidPayer is returned for an unknown expense payer value.
	ErrInvalidPayer = errors.New("invalid payer")
)
