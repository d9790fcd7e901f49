package app

import (
	"context"
	"errors"

	"homework_status_bot/internal/domain/homework"
)

// ErrHistoryDisabled is returned by reads when no database is configured.
var ErrHistoryDisabled = errors.New("notification history is disabled")

// NoopNotificationRepository discards writes; used when DATABASE_URL is unset.
type NoopNotificationRepository struct{}

func (NoopNotificationRepository) Save(context.Context, *homework.Notification) error { return nil }

func (NoopNotificationRepository) ListRecent(context.Context, int) ([]*homework.Notification, error) {
	return nil, ErrHistoryDisabled
}

func (NoopNotificationRepository) ListByStatuses(context.Context, []homework.Status, int) ([]*homework.Notification, error) {
	return nil, ErrHistoryDisabled
}
