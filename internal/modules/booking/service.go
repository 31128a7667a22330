package booking

import (
	"context"
	"errors"
	"math"
	"time"

	"renthub/internal/domain"
	"renthub/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Service struct {
	bookings BookingRepository
	items    ItemRepository
	notifs   NotificationSender
	now      func() time.Time
}

func NewService(bookings BookingRepository, items ItemRepository, notifs NotificationSender) *Service {
	return &Service{
		bookings: bookings,
		items:    items,
		notifs:   notifs,
		now:      time.Now,
	}
}

// CreateBooking validates the requested window, runs the availability check
// and the insert in one transaction, and notifies the item owner. The
// booking row is durably committed before any notification work starts.
func (s *Service) CreateBooking(ctx context.Context, renterID int64, req CreateBookingRequest) (*domain.Booking, error) {
	if req.EndDate.Before(req.StartDate) {
		return nil, ErrValidation
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if req.StartDate.Before(today) {
		return nil, ErrValidation
	}

	item, err := s.items.GetByID(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if item.OwnerID == renterID {
		return nil, ErrValidation
	}

	days := totalDays(req.StartDate, req.EndDate)
	cost := math.Round(float64(days)*item.PricePerDay*100) / 100

	b := &domain.Booking{
		ItemID:    req.ItemID,
		RenterID:  renterID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    domain.BookingPending,
		TotalDays: days,
		TotalCost: cost,
	}

	if err := s.bookings.CreateIfAvailable(ctx, b); err != nil {
		switch {
		case errors.Is(err, repository.ErrOverlap):
			return nil, ErrConflict
		case errors.Is(err, repository.ErrDuplicateRequest):
			return nil, ErrDuplicateRequest
		}
		if isConstraintConflict(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.BookingRequested(ctx, item.OwnerID, b)
	}

	return b, nil
}

// SetStatus is the owner decision: pending -> approved or pending ->
// declined. Any other source state fails with ErrInvalidStatusTransition,
// and a caller who does not own the item gets ErrForbidden.
func (s *Service) SetStatus(ctx context.Context, bookingID, actorID int64, status domain.BookingStatus) (*domain.Booking, error) {
	if status != domain.BookingApproved && status != domain.BookingDeclined {
		return nil, ErrValidation
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	item, err := s.items.GetByID(ctx, b.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if item.OwnerID != actorID {
		return nil, ErrForbidden
	}
	if b.Status != domain.BookingPending {
		return nil, ErrInvalidStatusTransition
	}

	var updated *domain.Booking
	if status == domain.BookingApproved {
		updated, err = s.bookings.Approve(ctx, bookingID, s.now())
	} else {
		updated, err = s.bookings.Decline(ctx, bookingID, s.now())
	}
	if err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, ErrInvalidStatusTransition
		}
		if isConstraintConflict(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if s.notifs != nil {
		if status == domain.BookingApproved {
			_ = s.notifs.BookingApproved(ctx, b.RenterID, updated)
		} else {
			_ = s.notifs.BookingDeclined(ctx, b.RenterID, updated)
		}
	}

	return updated, nil
}

// Cancel lets the renter withdraw their own pending request.
func (s *Service) Cancel(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.RenterID != actorID {
		return nil, ErrForbidden
	}
	if b.Status != domain.BookingPending {
		return nil, ErrInvalidStatusTransition
	}

	updated, err := s.bookings.Cancel(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, ErrInvalidStatusTransition
		}
		return nil, err
	}

	if s.notifs != nil {
		if item, err := s.items.GetByID(ctx, b.ItemID); err == nil {
			_ = s.notifs.BookingCancelled(ctx, item.OwnerID, updated)
		}
	}

	return updated, nil
}

func (s *Service) ListBookingsForItem(ctx context.Context, itemID, actorID int64) ([]domain.Booking, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if item.OwnerID != actorID {
		return nil, ErrForbidden
	}
	return s.bookings.ListByItem(ctx, itemID)
}

func (s *Service) ListOwnerBookings(ctx context.Context, ownerID int64) ([]domain.Booking, error) {
	return s.bookings.ListForOwner(ctx, ownerID)
}

func (s *Service) ListMyBookings(ctx context.Context, renterID int64) ([]domain.Booking, error) {
	return s.bookings.ListByRenter(ctx, renterID)
}

// isConstraintConflict matches the postgres unique (23505) and exclusion
// (23P01) violations raised by the no-double-booking constraint.
func isConstraintConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" || pgErr.Code == "23P01"
	}
	return false
}

// totalDays counts inclusive calendar days: day 1 through day 5 is 5 days.
func totalDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}
