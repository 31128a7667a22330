package domain

import "time"

// Rating is unique per (FromUserID, ToUserID); a resubmission overwrites
// the existing row instead of creating a second one.
type Rating struct {
	ID         int64     `json:"id"`
	FromUserID int64     `json:"from_user_id"`
	ToUserID   int64     `json:"to_user_id"`
	Score      int       `json:"score" validate:"required,gte=1,lte=5"`
	Comment    string    `json:"comment,omitempty" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
