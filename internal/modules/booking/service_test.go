package booking

import (
	"context"
	"testing"
	"time"

	"renthub/internal/domain"
	"renthub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock repositories

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CreateIfAvailable(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	if args.Error(0) == nil && b != nil {
		b.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByItem(ctx context.Context, itemID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListForOwner(ctx context.Context, ownerID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByRenter(ctx context.Context, renterID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, renterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Approve(ctx context.Context, bookingID int64, now time.Time) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Decline(ctx context.Context, bookingID int64, now time.Time) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Cancel(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) BookingRequested(ctx context.Context, ownerID int64, b *domain.Booking) error {
	args := m.Called(ctx, ownerID, b)
	return args.Error(0)
}

func (m *MockNotificationSender) BookingApproved(ctx context.Context, renterID int64, b *domain.Booking) error {
	args := m.Called(ctx, renterID, b)
	return args.Error(0)
}

func (m *MockNotificationSender) BookingDeclined(ctx context.Context, renterID int64, b *domain.Booking) error {
	args := m.Called(ctx, renterID, b)
	return args.Error(0)
}

func (m *MockNotificationSender) BookingCancelled(ctx context.Context, ownerID int64, b *domain.Booking) error {
	args := m.Called(ctx, ownerID, b)
	return args.Error(0)
}

func newTestService(bookings *MockBookingRepository, items *MockItemRepository, notifs *MockNotificationSender) *Service {
	// Avoid wrapping a typed nil *MockNotificationSender in the interface,
	// which would defeat the service's nil check.
	var sender NotificationSender
	if notifs != nil {
		sender = notifs
	}
	s := NewService(bookings, items, sender)
	s.now = func() time.Time {
		return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	}
	return s
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestService_CreateBooking_Success(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockItems := new(MockItemRepository)
	mockNotifs := new(MockNotificationSender)

	mockItems.On("GetByID", mock.Anything, int64(10)).
		Return(&domain.Item{ID: 10, OwnerID: 1, PricePerDay: 50}, nil)
	mockBookings.On("CreateIfAvailable", mock.Anything, mock.Anything).Return(nil)
	mockNotifs.On("BookingRequested", mock.Anything, int64(1), mock.Anything).Return(nil)

	service := newTestService(mockBookings, mockItems, mockNotifs)

	b, err := service.CreateBooking(context.Background(), 2, CreateBookingRequest{
		ItemID:    10,
		StartDate: day(1),
		EndDate:   day(5),
	})

	assert.NoError(t, err)
	assert.NotNil(t, b)
	assert.Equal(t, 5, b.TotalDays)
	assert.Equal(t, 250.0, b.TotalCost)
	assert.Equal(t, domain.BookingPending, b.Status)
	mockNotifs.AssertCalled(t, "BookingRequested", mock.Anything, int64(1), mock.Anything)
}

func TestService_CreateBooking_SingleDay(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockItems := new(MockItemRepository)

	mockItems.On("GetByID", mock.Anything, int64(10)).
		Return(&domain.Item{ID: 10, OwnerID: 1, PricePerDay: 30}, nil)
	mockBookings.On("CreateIfAvailable", mock.Anything, mock.Anything).Return(nil)

	service := newTestService(mockBookings, mockItems, nil)

	b, err := service.CreateBooking(context.Background(), 2, CreateBookingRequest{
		ItemID:    10,
		StartDate: day(4),
		EndDate:   day(4),
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, b.TotalDays)
	assert.Equal(t, 30.0, b.TotalCost)
}

func TestService_CreateBooking_InvalidRange(t *testing.T) {
	service := newTestService(new(MockBookingRepository), new(MockItemRepository), nil)

	_, err := service.CreateBooking(context.Background(), 2, CreateBookingRequest{
		ItemID:    10,
		StartDate: day(5),
		EndDate:   day(1),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_CreateBooking_StartInPast(t *testing.T) {
	service := newTestService(new(MockBookingRepository), new(MockItemRepository), nil)

	_, err := service.CreateBooking(context.Background(), 2, CreateBookingRequest{
		ItemID:    10,
		StartDate: time.Date(2025, 12, 30, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_CreateBooking_OwnItem(t *testing.T) {
	mockItems := new(MockItemRepository)
	mockItems.On("GetByID", mock.Anything, int64(10)).
		Return(&domain.Item{ID: 10, OwnerID: 2, PricePerDay: 50}, nil)

	service := newTestService(new(MockBookingRepository), mockItems, nil)

	_, err := service.CreateBooking(context.Background(), 2, CreateBookingRequest{
		ItemID:    10,
		StartDate: day(1),
		EndDate:   day(2),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_CreateBooking_Conflict(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockItems := new(MockItemRepository)

	mockItems.On("GetByID", mock.Anything, int64(10)).
		Return(&domain.Item{ID: 10, OwnerID: 1, PricePerDay: 50}, nil)
	mockBookings.On("CreateIfAvailable", mock.Anything, mock.Anything).
		Return(repository.ErrOverlap)

	service := newTestService(mockBookings, mockItems, nil)

	_, err := service.CreateBooking(context.Background(), 2, CreateBookingRequest{
		ItemID:    10,
		StartDate: day(3),
		EndDate:   day(7),
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_CreateBooking_DuplicateRequest(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockItems := new(MockItemRepository)

	mockItems.On("GetByID", mock.Anything, int64(10)).
		Return(&domain.Item{ID: 10, OwnerID: 1, PricePerDay: 50}, nil)
	mockBookings.On("CreateIfAvailable", mock.Anything, mock.Anything).
		Return(repository.ErrDuplicateRequest)

	service := newTestService(mockBookings, mockItems, nil)

	_, err := service.CreateBooking(context.Background(), 2, CreateBookingRequest{
		ItemID:    10,
		StartDate: day(1),
		EndDate:   day(2),
	})
	assert.ErrorIs(t, err, ErrDuplicateRequest)
}

func TestService_SetStatus_NotOwner(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockItems := new(MockItemRepository)

	mockBookings.On("GetByID", mock.Anything, int64(7)).
		Return(&domain.Booking{ID: 7, ItemID: 10, RenterID: 2, Status: domain.BookingPending}, nil)
	mockItems.On("GetByID", mock.Anything, int64(10)).
		Return(&domain.Item{ID: 10, OwnerID: 1}, nil)

	service := newTestService(mockBookings, mockItems, nil)

	_, err := service.SetStatus(context.Background(), 7, 42, domain.BookingApproved)
	assert.ErrorIs(t, err, ErrForbidden)
	mockBookings.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_SetStatus_NotPending(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockItems := new(MockItemRepository)

	mockBookings.On("GetByID", mock.Anything, int64(7)).
		Return(&domain.Booking{ID: 7, ItemID: 10, RenterID: 2, Status: domain.BookingApproved}, nil)
	mockItems.On("GetByID", mock.Anything, int64(10)).
		Return(&domain.Item{ID: 10, OwnerID: 1}, nil)

	service := newTestService(mockBookings, mockItems, nil)

	_, err := service.SetStatus(context.Background(), 7, 1, domain.BookingApproved)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestService_SetStatus_ApproveNotifiesRenter(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockItems := new(MockItemRepository)
	mockNotifs := new(MockNotificationSender)

	pending := &domain.Booking{ID: 7, ItemID: 10, RenterID: 2, Status: domain.BookingPending}
	approved := &domain.Booking{ID: 7, ItemID: 10, RenterID: 2, Status: domain.BookingApproved}

	mockBookings.On("GetByID", mock.Anything, int64(7)).Return(pending, nil)
	mockItems.On("GetByID", mock.Anything, int64(10)).
		Return(&domain.Item{ID: 10, OwnerID: 1}, nil)
	mockBookings.On("Approve", mock.Anything, int64(7), mock.Anything).Return(approved, nil)
	mockNotifs.On("BookingApproved", mock.Anything, int64(2), approved).Return(nil)

	service := newTestService(mockBookings, mockItems, mockNotifs)

	b, err := service.SetStatus(context.Background(), 7, 1, domain.BookingApproved)
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingApproved, b.Status)
	mockNotifs.AssertCalled(t, "BookingApproved", mock.Anything, int64(2), approved)
}

func TestService_SetStatus_LostRace(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockItems := new(MockItemRepository)

	mockBookings.On("GetByID", mock.Anything, int64(7)).
		Return(&domain.Booking{ID: 7, ItemID: 10, RenterID: 2, Status: domain.BookingPending}, nil)
	mockItems.On("GetByID", mock.Anything, int64(10)).
		Return(&domain.Item{ID: 10, OwnerID: 1}, nil)
	mockBookings.On("Decline", mock.Anything, int64(7), mock.Anything).
		Return(nil, repository.ErrStatusChanged)

	service := newTestService(mockBookings, mockItems, nil)

	_, err := service.SetStatus(context.Background(), 7, 1, domain.BookingDeclined)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestService_Cancel_OnlyRenter(t *testing.T) {
	mockBookings := new(MockBookingRepository)

	mockBookings.On("GetByID", mock.Anything, int64(7)).
		Return(&domain.Booking{ID: 7, ItemID: 10, RenterID: 2, Status: domain.BookingPending}, nil)

	service := newTestService(mockBookings, new(MockItemRepository), nil)

	_, err := service.Cancel(context.Background(), 7, 3)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_NotificationFailureDoesNotFailCreate(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockItems := new(MockItemRepository)
	mockNotifs := new(MockNotificationSender)

	mockItems.On("GetByID", mock.Anything, int64(10)).
		Return(&domain.Item{ID: 10, OwnerID: 1, PricePerDay: 50}, nil)
	mockBookings.On("CreateIfAvailable", mock.Anything, mock.Anything).Return(nil)
	mockNotifs.On("BookingRequested", mock.Anything, int64(1), mock.Anything).
		Return(assert.AnError)

	service := newTestService(mockBookings, mockItems, mockNotifs)

	b, err := service.CreateBooking(context.Background(), 2, CreateBookingRequest{
		ItemID:    10,
		StartDate: day(1),
		EndDate:   day(2),
	})
	assert.NoError(t, err)
	assert.NotNil(t, b)
}
