package notification

import (
	"context"
	"log/slog"

	"renthub/internal/domain"
)

type Service struct {
	repo NotificationRepository
	pub  Publisher
}

func NewService(repo NotificationRepository, pub Publisher) *Service {
	return &Service{repo: repo, pub: pub}
}

// dispatch writes the durable notification row, then publishes the
// real-time event. Ordering is strict: the row is committed before the
// publish, and a publish failure never surfaces to the caller. The durable
// write is retried once on a store error.
func (s *Service) dispatch(ctx context.Context, n *domain.Notification, event string) error {
	if err := s.repo.Create(ctx, n); err != nil {
		slog.Warn("notification create failed, retrying once", "user_id", n.UserID, "err", err)
		if err := s.repo.Create(ctx, n); err != nil {
			return err
		}
	}

	if s.pub != nil {
		if err := s.pub.Publish(UserChannel(n.UserID), event, n); err != nil {
			slog.Warn("realtime publish failed", "channel", UserChannel(n.UserID), "event", event, "err", err)
		}
	}
	return nil
}

func notificationFor(userID int64, message string, b *domain.Booking) *domain.Notification {
	n := &domain.Notification{
		UserID:  userID,
		Message: message,
	}
	if b != nil {
		bookingID, itemID := b.ID, b.ItemID
		start, end := b.StartDate, b.EndDate
		n.BookingID = &bookingID
		n.ItemID = &itemID
		n.StartDate = &start
		n.EndDate = &end
	}
	return n
}

func (s *Service) BookingRequested(ctx context.Context, ownerID int64, b *domain.Booking) error {
	return s.dispatch(ctx, notificationFor(ownerID, "new booking request", b), domain.EventBookingRequest)
}

func (s *Service) BookingApproved(ctx context.Context, renterID int64, b *domain.Booking) error {
	return s.dispatch(ctx, notificationFor(renterID, "request approved", b), domain.EventBookingStatusUpdate)
}

func (s *Service) BookingDeclined(ctx context.Context, renterID int64, b *domain.Booking) error {
	return s.dispatch(ctx, notificationFor(renterID, "request declined", b), domain.EventBookingStatusUpdate)
}

func (s *Service) BookingCancelled(ctx context.Context, ownerID int64, b *domain.Booking) error {
	return s.dispatch(ctx, notificationFor(ownerID, "request cancelled", b), domain.EventBookingStatusUpdate)
}

func (s *Service) List(ctx context.Context, userID int64, limit int) ([]domain.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	list, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}

	unseen, err := s.repo.CountUnseen(ctx, userID)
	if err != nil {
		unseen = 0
	}

	return list, unseen, nil
}

func (s *Service) CountUnseen(ctx context.Context, userID int64) (int64, error) {
	return s.repo.CountUnseen(ctx, userID)
}

func (s *Service) MarkAllSeen(ctx context.Context, userID int64) error {
	return s.repo.MarkAllSeen(ctx, userID)
}
