package domain

import "errors"

var (
	ErrInvalidRange = errors.New("end time must be after start time")
	ErrInvalidState = errors.New("operation not allowed in current booking status")
)
