package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
//
// Ledger rows are scoped by user: every user owns an independent set of
// friends, expenses and settlements, with ids generated by the in-memory
// engine per user. Amounts are stored as decimal text so they round-trip
// exactly. Aggregates are never stored; they are replayed on load.
//
// Entry rows reference their friend through a composite foreign key so a
// write that arrives after the friend's cascade commit is rejected instead
// of leaving an orphan the replay path cannot validate.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS friends (
    user_id TEXT NOT NULL,
    id INTEGER NOT NULL,
    name TEXT NOT NULL,
    PRIMARY KEY (user_id, id),
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS expenses (
    user_id TEXT NOT NULL,
    id INTEGER NOT NULL,
    item TEXT NOT NULL,
    amount TEXT NOT NULL,
    date INTEGER NOT NULL,
    paid_by TEXT NOT NULL,
    friend_id INTEGER,
    PRIMARY KEY (user_id, id),
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
    FOREIGN KEY (user_id, friend_id) REFERENCES friends(user_id, id)
);

CREATE TABLE IF NOT EXISTS settlements (
    user_id TEXT NOT NULL,
    id INTEGER NOT NULL,
    friend_id INTEGER NOT NULL,
    amount TEXT NOT NULL,
    date INTEGER NOT NULL,
    direction TEXT NOT NULL,
    PRIMARY KEY (user_id, id),
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
    FOREIGN KEY (user_id, friend_id) REFERENCES friends(user_id, id)
);

CREATE INDEX IF NOT EXISTS idx_friends_user_id ON friends(user_id);
CREATE INDEX IF NOT EXISTS idx_expenses_user_id ON expenses(user_id);
CREATE INDEX IF NOT EXISTS idx_expenses_friend_id ON expenses(user_id, friend_id);
CREATE INDEX IF NOT EXISTS idx_settlements_user_id ON settlements(user_id);
CREATE INDEX IF NOT EXISTS idx_settlements_friend_id ON settlements(user_id, friend_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
