package item

import (
	"context"
	"errors"
	"time"

	"renthub/internal/domain"

	"gorm.io/gorm"
)

type ItemRepository interface {
	Create(ctx context.Context, i *domain.Item) error
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
	List(ctx context.Context, limit, offset int) ([]domain.Item, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Item, error)
}

// RentedChecker answers "is this item rented right now" from the bookings
// table. Read paths use it instead of the cached item flag.
type RentedChecker interface {
	HasApprovedCovering(ctx context.Context, itemID int64, now time.Time) (bool, error)
}

type Service struct {
	items    ItemRepository
	bookings RentedChecker
	now      func() time.Time
}

func NewService(items ItemRepository, bookings RentedChecker) *Service {
	return &Service{items: items, bookings: bookings, now: time.Now}
}

func (s *Service) Create(ctx context.Context, ownerID int64, req CreateItemRequest) (*domain.Item, error) {
	if req.Title == "" || req.PricePerDay <= 0 {
		return nil, ErrValidation
	}

	i := &domain.Item{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		PricePerDay: req.PricePerDay,
		Images:      req.Images,
	}
	if err := s.items.Create(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	i, err := s.items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.recomputeRented(ctx, i)
	return i, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.Item, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	list, err := s.items.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	for idx := range list {
		s.recomputeRented(ctx, &list[idx])
	}
	return list, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Item, error) {
	list, err := s.items.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for idx := range list {
		s.recomputeRented(ctx, &list[idx])
	}
	return list, nil
}

// recomputeRented overrides the cached flag with the queryable fact. On a
// store error the cached value stands.
func (s *Service) recomputeRented(ctx context.Context, i *domain.Item) {
	rented, err := s.bookings.HasApprovedCovering(ctx, i.ID, s.now())
	if err == nil {
		i.IsRented = rented
	}
}
