package database

import (
	"context"
	"database/sql"
	"fmt"
)

const createNotificationsTable = `CREATE TABLE IF NOT EXISTS homework_notifications (
    id            BIGSERIAL PRIMARY KEY,
    homework_name TEXT        NOT NULL,
    status        VARCHAR(32) NOT NULL,
    message       TEXT        NOT NULL,
    sent_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const createNotificationsIndex = `CREATE INDEX IF NOT EXISTS homework_notifications_sent_at_idx
    ON homework_notifications (sent_at DESC)`

// EnsureSchema creates the history table and its index when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range []string{createNotificationsTable, createNotificationsIndex} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
