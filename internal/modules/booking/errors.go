package booking

import "errors"

var (
	ErrValidation     = errors.New("validation error")
	ErrNotFound       = errors.New("booking not found")
	ErrStudioNotFound = errors.New("studio not found")
	ErrConflict       = errors.New("time slot conflicts with an existing booking")
)
