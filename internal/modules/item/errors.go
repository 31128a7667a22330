package item

import "errors"

var (
	ErrValidation = errors.New("invalid item")
	ErrNotFound   = errors.New("item not found")
)
