package booking

import (
	"context"
	"time"

	"renthub/internal/domain"
)

// BookingRepository defines the storage operations the state machine needs.
type BookingRepository interface {
	CreateIfAvailable(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByItem(ctx context.Context, itemID int64) ([]domain.Booking, error)
	ListForOwner(ctx context.Context, ownerID int64) ([]domain.Booking, error)
	ListByRenter(ctx context.Context, renterID int64) ([]domain.Booking, error)
	Approve(ctx context.Context, bookingID int64, now time.Time) (*domain.Booking, error)
	Decline(ctx context.Context, bookingID int64, now time.Time) (*domain.Booking, error)
	Cancel(ctx context.Context, bookingID int64) (*domain.Booking, error)
}

// ItemRepository resolves items for ownership and pricing.
type ItemRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
}

// NotificationSender fans out state-change notifications. Delivery is
// best-effort from the state machine's point of view: a failure never rolls
// back a committed transition.
type NotificationSender interface {
	BookingRequested(ctx context.Context, ownerID int64, b *domain.Booking) error
	BookingApproved(ctx context.Context, renterID int64, b *domain.Booking) error
	BookingDeclined(ctx context.Context, renterID int64, b *domain.Booking) error
	BookingCancelled(ctx context.Context, ownerID int64, b *domain.Booking) error
}
