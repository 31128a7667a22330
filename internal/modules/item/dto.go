package item

type CreateItemRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description,omitempty"`
	PricePerDay float64  `json:"price_per_day" binding:"required,gt=0"`
	Images      []string `json:"images,omitempty"`
}
