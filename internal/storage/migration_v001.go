package storage

import "database/sql"

// migrateV001 creates the seen_messages table. The primary key enforces that
// an ID is stored at most once.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS seen_messages (
			id      TEXT PRIMARY KEY,
			seen_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_seen_messages_seen_at ON seen_messages(seen_at)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
