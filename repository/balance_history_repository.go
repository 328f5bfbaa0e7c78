package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"cantina/models"
)

// BalanceHistoryRepository implements the append-only balance audit log on an
// embedded SQLite database kept next to the JSON documents in the data
// directory. The JSON documents stay the system of record; this table exists
// so balance changes can be explained after the fact.
type BalanceHistoryRepository struct {
	db *sql.DB
}

// NewBalanceHistoryRepository opens (or creates) the audit database at path.
func NewBalanceHistoryRepository(path string) (*BalanceHistoryRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// A single writer avoids SQLITE_BUSY under concurrent command handlers.
	db.SetMaxOpenConns(1)

	const schema = `
		CREATE TABLE IF NOT EXISTS balance_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			balance_before INTEGER NOT NULL,
			balance_after INTEGER NOT NULL,
			change_amount INTEGER NOT NULL,
			transaction_type TEXT NOT NULL,
			transaction_metadata TEXT NOT NULL DEFAULT '{}',
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_balance_history_user
			ON balance_history(user_id, id);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}
	return &BalanceHistoryRepository{db: db}, nil
}

// Close releases the underlying database.
func (r *BalanceHistoryRepository) Close() error {
	return r.db.Close()
}

// Record creates a new balance history entry.
func (r *BalanceHistoryRepository) Record(ctx context.Context, history *models.BalanceHistory) error {
	metadata := history.TransactionMetadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to encode transaction metadata: %w", err)
	}

	if history.CreatedAt.IsZero() {
		history.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO balance_history
			(user_id, balance_before, balance_after, change_amount, transaction_type, transaction_metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		history.UserID,
		history.BalanceBefore,
		history.BalanceAfter,
		history.ChangeAmount,
		string(history.TransactionType),
		string(metadataJSON),
		history.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert balance history: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		history.ID = id
	}
	return nil
}

// GetByUser returns the most recent balance history for a specific user,
// newest first.
func (r *BalanceHistoryRepository) GetByUser(ctx context.Context, userID string, limit int) ([]*models.BalanceHistory, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, balance_before, balance_after, change_amount, transaction_type, transaction_metadata, created_at
		FROM balance_history
		WHERE user_id = ?
		ORDER BY id DESC
		LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query balance history: %w", err)
	}
	defer rows.Close()

	var entries []*models.BalanceHistory
	for rows.Next() {
		var entry models.BalanceHistory
		var metadataJSON, createdAt string
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.BalanceBefore,
			&entry.BalanceAfter,
			&entry.ChangeAmount,
			&entry.TransactionType,
			&metadataJSON,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan balance history row: %w", err)
		}
		if err := json.Unmarshal([]byte(metadataJSON), &entry.TransactionMetadata); err != nil {
			entry.TransactionMetadata = map[string]any{}
		}
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			entry.CreatedAt = t
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
