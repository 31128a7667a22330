package booking

import "time"

type CreateBookingRequest struct {
	ItemID    int64     `json:"item_id" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=approved declined"`
}
