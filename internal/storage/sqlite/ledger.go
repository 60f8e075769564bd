package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tally/internal/models"
	"github.com/mmynk/tally/internal/storage"
)

// LoadLedger retrieves every persisted row of a user's ledger, in id
// order so the engine replays them in their original insertion order.
func (s *SQLiteStore) LoadLedger(ctx context.Context, userID string) (*storage.LedgerData, error) {
	data := &storage.LedgerData{}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name FROM friends WHERE user_id = ? ORDER BY id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load friends: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var f models.Friend
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		data.Friends = append(data.Friends, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friends: %w", err)
	}

	expenseRows, err := s.db.QueryContext(ctx,
		"SELECT id, item, amount, date, paid_by, friend_id FROM expenses WHERE user_id = ? ORDER BY id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	defer expenseRows.Close()

	for expenseRows.Next() {
		var (
			e        models.Expense
			amount   string
			paidBy   string
			friendID sql.NullInt64
		)
		if err := expenseRows.Scan(&e.ID, &e.Item, &amount, &e.Date, &paidBy, &friendID); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("bad expense amount %q: %w", amount, err)
		}
		e.PaidBy = models.PaidBy(paidBy)
		if friendID.Valid {
			id := friendID.Int64
			e.FriendID = &id
		}
		data.Expenses = append(data.Expenses, e)
	}
	if err := expenseRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	settlementRows, err := s.db.QueryContext(ctx,
		"SELECT id, friend_id, amount, date, direction FROM settlements WHERE user_id = ? ORDER BY id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load settlements: %w", err)
	}
	defer settlementRows.Close()

	for settlementRows.Next() {
		var (
			st        models.Settlement
			amount    string
			direction string
		)
		if err := settlementRows.Scan(&st.ID, &st.FriendID, &amount, &st.Date, &direction); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		if st.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("bad settlement amount %q: %w", amount, err)
		}
		st.Direction = models.Direction(direction)
		data.Settlements = append(data.Settlements, st)
	}
	if err := settlementRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return data, nil
}

// PutFriend inserts or renames a friend row. An upsert rather than
// INSERT OR REPLACE: REPLACE would delete and reinsert the row, which the
// entry tables' foreign keys reject while the friend has entries.
func (s *SQLiteStore) PutFriend(ctx context.Context, userID string, id int64, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO friends (user_id, id, name) VALUES (?, ?, ?)
		 ON CONFLICT(user_id, id) DO UPDATE SET name = excluded.name`,
		userID, id, name,
	)
	if err != nil {
		return fmt.Errorf("failed to put friend: %w", err)
	}
	return nil
}

// DeleteFriend removes a friend row together with every expense and
// settlement referencing it, in one transaction, mirroring the engine's
// atomic cascade.
func (s *SQLiteStore) DeleteFriend(ctx context.Context, userID string, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM expenses WHERE user_id = ? AND friend_id = ?", userID, id,
	); err != nil {
		return fmt.Errorf("failed to cascade expenses: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM settlements WHERE user_id = ? AND friend_id = ?", userID, id,
	); err != nil {
		return fmt.Errorf("failed to cascade settlements: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM friends WHERE user_id = ? AND id = ?", userID, id,
	); err != nil {
		return fmt.Errorf("failed to delete friend: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// PutExpense inserts or replaces an expense row.
func (s *SQLiteStore) PutExpense(ctx context.Context, userID string, e models.Expense) error {
	var friendID interface{}
	if e.FriendID != nil {
		friendID = *e.FriendID
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO expenses (user_id, id, item, amount, date, paid_by, friend_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, e.ID, e.Item, e.Amount.String(), e.Date, string(e.PaidBy), friendID,
	)
	if err != nil {
		return fmt.Errorf("failed to put expense: %w", err)
	}
	return nil
}

// DeleteExpense removes an expense row.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, userID string, id int64) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE user_id = ? AND id = ?", userID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

// PutSettlement inserts or replaces a settlement row.
func (s *SQLiteStore) PutSettlement(ctx context.Context, userID string, st models.Settlement) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO settlements (user_id, id, friend_id, amount, date, direction)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		userID, st.ID, st.FriendID, st.Amount.String(), st.Date, string(st.Direction),
	)
	if err != nil {
		return fmt.Errorf("failed to put settlement: %w", err)
	}
	return nil
}

// DeleteSettlement removes a settlement row.
func (s *SQLiteStore) DeleteSettlement(ctx context.Context, userID string, id int64) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM settlements WHERE user_id = ? AND id = ?", userID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}
	return nil
}
