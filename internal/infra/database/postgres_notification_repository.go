// internal/infra/database/postgres_notification_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"homework_status_bot/internal/domain/homework"

	"github.com/lib/pq" // For pq.Array and driver registration
)

// ErrInvalidLimit is returned when a list limit is not positive.
var ErrInvalidLimit = fmt.Errorf("list limit must be positive")

type PostgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) Save(ctx context.Context, n *homework.Notification) error {
	query := `INSERT INTO homework_notifications (homework_name, status, message, sent_at)
               VALUES ($1, $2, $3, $4)
               RETURNING id`
	err := r.db.QueryRowContext(ctx, query, n.HomeworkName, n.Status, n.Message, n.SentAt).Scan(&n.ID)
	if err != nil {
		return fmt.Errorf("error saving homework notification: %w", err)
	}
	return nil
}

func (r *PostgresNotificationRepository) ListRecent(ctx context.Context, limit int) ([]*homework.Notification, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	query := `SELECT id, homework_name, status, message, sent_at
               FROM homework_notifications
               ORDER BY sent_at DESC, id DESC
               LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying recent notifications: %w", err)
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func (r *PostgresNotificationRepository) ListByStatuses(ctx context.Context, statuses []homework.Status, limit int) ([]*homework.Notification, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if len(statuses) == 0 {
		return r.ListRecent(ctx, limit)
	}

	statusesAsStrings := make([]string, len(statuses))
	for i, s := range statuses {
		statusesAsStrings[i] = string(s)
	}

	query := `SELECT id, homework_name, status, message, sent_at
               FROM homework_notifications
               WHERE status = ANY($1::varchar[])
               ORDER BY sent_at DESC, id DESC
               LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(statusesAsStrings), limit)
	if err != nil {
		return nil, fmt.Errorf("error querying notifications by status: %w", err)
	}
	defer rows.Close()
	return scanNotifications(rows)
}

// Helper to scan multiple rows
func scanNotifications(rows *sql.Rows) ([]*homework.Notification, error) {
	notifications := make([]*homework.Notification, 0)
	for rows.Next() {
		n := homework.Notification{}
		if err := rows.Scan(&n.ID, &n.HomeworkName, &n.Status, &n.Message, &n.SentAt); err != nil {
			return nil, fmt.Errorf("error scanning notification row: %w", err)
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}
	return notifications, nil
}
