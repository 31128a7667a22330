package rating

type SubmitRatingRequest struct {
	ToUserID int64  `json:"to_user_id" binding:"required"`
	Score    int    `json:"score" binding:"required,gte=1,lte=5"`
	Comment  string `json:"comment,omitempty"`
}
