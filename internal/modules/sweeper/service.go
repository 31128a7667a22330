package sweeper

import (
	"context"
	"log/slog"
	"time"
)

// BookingStore is the slice of the booking repository the sweeper needs.
type BookingStore interface {
	ItemIDsWithExpiredApproved(ctx context.Context, now time.Time) ([]int64, error)
	ItemIDsWithRetiredBookings(ctx context.Context, now time.Time) ([]int64, error)
	CompleteExpired(ctx context.Context, itemID int64, now time.Time) (int64, error)
	HasFutureApproved(ctx context.Context, itemID int64, now time.Time) (bool, error)
}

// ItemStore provides the destructive path used only by the purge sweep.
type ItemStore interface {
	DeleteCascade(ctx context.Context, itemID int64) error
}

type Result struct {
	ItemsSwept      int
	BookingsRetired int64
	ItemsPurged     int
}

type Service struct {
	bookings BookingStore
	items    ItemStore
	now      func() time.Time
}

func NewService(bookings BookingStore, items ItemStore) *Service {
	return &Service{
		bookings: bookings,
		items:    items,
		now:      time.Now,
	}
}

// SweepExpired is the non-destructive reclaim: every approved booking whose
// window ended is marked completed and the item's rented flag is recomputed.
// Each transition is a compare-and-swap on the approved status, so the sweep
// is idempotent and safe to run concurrently with owner decisions: a lost
// race degrades to a no-op. Per-item failures are logged and skipped.
func (s *Service) SweepExpired(ctx context.Context) Result {
	now := s.now()
	var res Result

	ids, err := s.bookings.ItemIDsWithExpiredApproved(ctx, now)
	if err != nil {
		slog.Warn("expiry sweep: listing expired items failed", "err", err)
		return res
	}

	for _, itemID := range ids {
		retired, err := s.bookings.CompleteExpired(ctx, itemID, now)
		if err != nil {
			slog.Warn("expiry sweep: reclaim failed", "item_id", itemID, "err", err)
			continue
		}
		if retired > 0 {
			res.ItemsSwept++
			res.BookingsRetired += retired
		}
	}
	return res
}

// Purge is the destructive retention variant: items whose rental history
// is over, with nothing approved still running or upcoming, are removed
// together with their bookings and notifications. Runs from the standalone
// retention job, never from the request path.
func (s *Service) Purge(ctx context.Context) Result {
	now := s.now()
	var res Result

	ids, err := s.bookings.ItemIDsWithRetiredBookings(ctx, now)
	if err != nil {
		slog.Warn("purge sweep: listing expired items failed", "err", err)
		return res
	}

	for _, itemID := range ids {
		alive, err := s.bookings.HasFutureApproved(ctx, itemID, now)
		if err != nil {
			slog.Warn("purge sweep: check failed", "item_id", itemID, "err", err)
			continue
		}
		if alive {
			continue
		}
		if err := s.items.DeleteCascade(ctx, itemID); err != nil {
			slog.Warn("purge sweep: delete failed", "item_id", itemID, "err", err)
			continue
		}
		res.ItemsPurged++
	}
	return res
}

// Run drives the reclaim sweep on a fixed interval until ctx is cancelled.
// Scheduling is independent of request traffic; read paths never mutate
// state.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res := s.SweepExpired(ctx)
			if res.BookingsRetired > 0 {
				slog.Info("expiry sweep completed",
					"items", res.ItemsSwept, "bookings_retired", res.BookingsRetired)
			}
		}
	}
}
