package rating

import "errors"

var (
	ErrValidation = errors.New("invalid rating")
	ErrNotFound   = errors.New("user not found")
)
