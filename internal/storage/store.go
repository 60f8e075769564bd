// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/tally/internal/models"
)

// LedgerData is everything persisted for one user's ledger, in id order,
// ready to be replayed into the in-memory engine.
type LedgerData struct {
	Friends     []models.Friend
	Expenses    []models.Expense
	Settlements []models.Settlement
}

// Store defines the interface for durable ledger and account storage.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// The store is a write-through mirror of the in-memory ledgers: it holds
// entry rows and friend identities, never derived aggregates.
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Returns (nil, nil) when
	// no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by id. Returns (nil, nil) when no such
	// user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// UpdateUserProfile changes a user's display name.
	UpdateUserProfile(ctx context.Context, id, displayName string) error

	// LoadLedger retrieves every persisted row of a user's ledger.
	LoadLedger(ctx context.Context, userID string) (*LedgerData, error)

	// PutFriend inserts or renames a friend row.
	PutFriend(ctx context.Context, userID string, id int64, name string) error

	// DeleteFriend removes a friend row together with every expense and
	// settlement referencing it, in one transaction.
	DeleteFriend(ctx context.Context, userID string, id int64) error

	// PutExpense inserts or replaces an expense row.
	PutExpense(ctx context.Context, userID string, e models.Expense) error

	// DeleteExpense removes an expense row.
	DeleteExpense(ctx context.Context, userID string, id int64) error

	// PutSettlement inserts or replaces a settlement row.
	PutSettlement(ctx context.Context, userID string, s models.Settlement) error

	// DeleteSettlement removes a settlement row.
	DeleteSettlement(ctx context.Context, userID string, id int64) error

	// Close releases any resources held by the store.
	Close() error
}
