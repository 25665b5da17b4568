package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"tmpmail/pkg/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS viewed_messages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    address TEXT NOT NULL,
    message_id INTEGER NOT NULL,
    subject TEXT,
    viewed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(address, message_id)
);

CREATE INDEX IF NOT EXISTS idx_viewed_address ON viewed_messages(address);
`

// DB records which messages have been viewed for each address. It is
// a convenience layer: every caller treats failures here as
// non-fatal.
type DB struct {
	*sqlx.DB
}

// Open opens (creating if needed) the history database
func Open(path string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	return &DB{db}, nil
}

// Migrate runs database migrations
func (db *DB) Migrate(ctx context.Context) error {
	_, err := db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// MarkViewed records a successful view. Recording the same view twice
// is a no-op.
func (db *DB) MarkViewed(ctx context.Context, addr models.EmailAddress, messageID int, subject string) error {
	query := `INSERT OR IGNORE INTO viewed_messages (address, message_id, subject) VALUES (?, ?, ?)`
	_, err := db.ExecContext(ctx, query, addr.String(), messageID, subject)
	if err != nil {
		return fmt.Errorf("failed to record view: %w", err)
	}
	return nil
}

// Seen reports which of the given ids have been viewed before for
// this address.
func (db *DB) Seen(ctx context.Context, addr models.EmailAddress, ids []int) (map[int]bool, error) {
	seen := make(map[int]bool, len(ids))
	if len(ids) == 0 {
		return seen, nil
	}

	query, args, err := sqlx.In(`SELECT message_id FROM viewed_messages WHERE address = ? AND message_id IN (?)`, addr.String(), ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var viewed []int
	if err := db.SelectContext(ctx, &viewed, db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to query view history: %w", err)
	}

	for _, id := range viewed {
		seen[id] = true
	}
	return seen, nil
}
