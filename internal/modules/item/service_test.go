package item

import (
	"context"
	"testing"
	"time"

	"renthub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, i *domain.Item) error {
	args := m.Called(ctx, i)
	if args.Error(0) == nil {
		i.ID = 1
	}
	return args.Error(0)
}

func (m *MockItemRepository) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockItemRepository) List(ctx context.Context, limit, offset int) ([]domain.Item, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockItemRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Item, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

type MockRentedChecker struct {
	mock.Mock
}

func (m *MockRentedChecker) HasApprovedCovering(ctx context.Context, itemID int64, now time.Time) (bool, error) {
	args := m.Called(ctx, itemID, now)
	return args.Bool(0), args.Error(1)
}

func TestGetByID_RecomputesRentedFromBookings(t *testing.T) {
	items := new(MockItemRepository)
	bookings := new(MockRentedChecker)
	svc := NewService(items, bookings)

	// Stale cached flag says free, the bookings table says rented.
	items.On("GetByID", mock.Anything, int64(5)).Return(&domain.Item{ID: 5, IsRented: false}, nil)
	bookings.On("HasApprovedCovering", mock.Anything, int64(5), mock.Anything).Return(true, nil)

	got, err := svc.GetByID(context.Background(), 5)
	assert.NoError(t, err)
	assert.True(t, got.IsRented)
}

func TestGetByID_CachedFlagStandsOnCheckerError(t *testing.T) {
	items := new(MockItemRepository)
	bookings := new(MockRentedChecker)
	svc := NewService(items, bookings)

	items.On("GetByID", mock.Anything, int64(5)).Return(&domain.Item{ID: 5, IsRented: true}, nil)
	bookings.On("HasApprovedCovering", mock.Anything, int64(5), mock.Anything).Return(false, assert.AnError)

	got, err := svc.GetByID(context.Background(), 5)
	assert.NoError(t, err)
	assert.True(t, got.IsRented)
}

func TestGetByID_NotFound(t *testing.T) {
	items := new(MockItemRepository)
	svc := NewService(items, new(MockRentedChecker))

	items.On("GetByID", mock.Anything, int64(9)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_RecomputesEveryItem(t *testing.T) {
	items := new(MockItemRepository)
	bookings := new(MockRentedChecker)
	svc := NewService(items, bookings)

	items.On("List", mock.Anything, 20, 0).Return([]domain.Item{{ID: 1, IsRented: true}, {ID: 2}}, nil)
	bookings.On("HasApprovedCovering", mock.Anything, int64(1), mock.Anything).Return(false, nil)
	bookings.On("HasApprovedCovering", mock.Anything, int64(2), mock.Anything).Return(true, nil)

	list, err := svc.List(context.Background(), 0, 0)
	assert.NoError(t, err)
	assert.False(t, list[0].IsRented)
	assert.True(t, list[1].IsRented)
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(new(MockItemRepository), new(MockRentedChecker))

	_, err := svc.Create(context.Background(), 1, CreateItemRequest{Title: "", PricePerDay: 10})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(context.Background(), 1, CreateItemRequest{Title: "kayak", PricePerDay: 0})
	assert.ErrorIs(t, err, ErrValidation)
}
