// Package service implements the HTTP surface of the ledger: gin handlers
// for friends, expenses, settlements, summary, auth and profile, backed by
// the in-memory ledger engine with a write-through SQLite mirror.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/mmynk/tally/internal/ledger"
	"github.com/mmynk/tally/internal/storage"
)

// Manager hands out one ledger engine per user, loading it lazily from
// storage on first access. The database is the source of truth; a cached
// engine is dropped whenever a write-through fails, so the next access
// replays a consistent state.
type Manager struct {
	mu      sync.Mutex
	store   storage.Store
	ledgers map[string]*ledger.Ledger
	writeMu map[string]*sync.Mutex
}

// NewManager creates a manager backed by the given store.
func NewManager(store storage.Store) *Manager {
	return &Manager{
		store:   store,
		ledgers: make(map[string]*ledger.Ledger),
		writeMu: make(map[string]*sync.Mutex),
	}
}

// LockUser serializes a whole mutation for one user: engine apply plus the
// write-through to storage. Without it two requests could commit to storage
// in the opposite order of their engine application and leave rows the
// replay path rejects. Returns the unlock func.
func (m *Manager) LockUser(userID string) func() {
	m.mu.Lock()
	l, ok := m.writeMu[userID]
	if !ok {
		l = &sync.Mutex{}
		m.writeMu[userID] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Ledger returns the user's ledger, replaying persisted entries on first
// access.
func (m *Manager) Ledger(ctx context.Context, userID string) (*ledger.Ledger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if l, ok := m.ledgers[userID]; ok {
		return l, nil
	}

	data, err := m.store.LoadLedger(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	l, err := ledger.Restore(data.Friends, data.Expenses, data.Settlements)
	if err != nil {
		return nil, fmt.Errorf("failed to restore ledger: %w", err)
	}

	m.ledgers[userID] = l
	return l, nil
}

// Forget drops the cached engine for a user. Called after a failed
// write-through so the engine cannot drift from the database.
func (m *Manager) Forget(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ledgers, userID)
}
