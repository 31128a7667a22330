package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingDeclined  BookingStatus = "declined"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// IsTerminal reports whether no transition may leave the status.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingDeclined || s == BookingCancelled || s == BookingCompleted
}

type Booking struct {
	ID          int64         `json:"id"`
	ItemID      int64         `json:"item_id" validate:"required"`
	RenterID    int64         `json:"renter_id" validate:"required"`
	StartDate   time.Time     `json:"start_date" validate:"required"`
	EndDate     time.Time     `json:"end_date" validate:"required"`
	Status      BookingStatus `json:"status"`
	TotalDays   int           `json:"total_days"`
	TotalCost   float64       `json:"total_cost"`
	IsCompleted bool          `json:"is_completed"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	Item   *Item `json:"item,omitempty" gorm:"foreignKey:ItemID"`
	Renter *User `json:"renter,omitempty" gorm:"foreignKey:RenterID"`
}

// Overlaps reports whether the booking window intersects [start, end].
// Bounds are inclusive on both sides: two bookings sharing a single day overlap.
func (b Booking) Overlaps(start, end time.Time) bool {
	return !b.StartDate.After(end) && !b.EndDate.Before(start)
}

// Contains reports whether the booking window contains the given instant.
func (b Booking) Contains(now time.Time) bool {
	return !b.StartDate.After(now) && !b.EndDate.Before(now)
}
