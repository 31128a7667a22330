package notification

import (
	"context"

	"renthub/internal/domain"
)

// NotificationRepository is the durable outbox.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Notification, error)
	CountUnseen(ctx context.Context, userID int64) (int64, error)
	MarkAllSeen(ctx context.Context, userID int64) error
}

// Publisher is the best-effort real-time nudge. Failures are swallowed by
// the dispatcher; clients reconcile via the unseen-count poll.
type Publisher interface {
	Publish(channel, event string, payload interface{}) error
}
