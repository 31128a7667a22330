package booking

import "errors"

var (
	ErrValidation              = errors.New("validation error")
	ErrNotFound                = errors.New("booking or item not found")
	ErrForbidden               = errors.New("forbidden")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrConflict                = errors.New("booking dates conflict with an existing booking")
	ErrDuplicateRequest        = errors.New("renter already has an active request for this item")
)
