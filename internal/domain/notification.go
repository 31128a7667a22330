package domain

import "time"

// Realtime event names pushed alongside durable notifications.
const (
	EventBookingRequest      = "booking-request"
	EventBookingStatusUpdate = "booking-status-update"
)

type Notification struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Message   string     `json:"message"`
	BookingID *int64     `json:"booking_id,omitempty"`
	ItemID    *int64     `json:"item_id,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	IsSeen    bool       `json:"is_seen"`
	CreatedAt time.Time  `json:"created_at"`
}
