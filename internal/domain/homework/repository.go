// internal/domain/homework/repository.go
package homework

import "context"

// NotificationRepository stores relayed notifications for later inspection.
// It is a log only; polling state is never restored from it.
type NotificationRepository interface {
	Save(ctx context.Context, n *Notification) error
	ListRecent(ctx context.Context, limit int) ([]*Notification, error)
	ListByStatuses(ctx context.Context, statuses []Status, limit int) ([]*Notification, error)
}
