package booking

import (
	"time"

	"studiobooking/internal/domain"
)

// Dates are "2006-01-02", times of day "15:04".

type CreateBookingRequest struct {
	StudioID  int64  `json:"studio_id" binding:"required"`
	UserName  string `json:"user_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Notes     string `json:"notes"`
}

type UpdateBookingRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Notes     string `json:"notes"`
}

type AvailabilityRequest struct {
	StudioID  int64  `json:"studio_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// AvailabilityResult is the structured outcome of a slot check. An occupied
// slot is a normal answer, not an error.
type AvailabilityResult struct {
	Available bool                 `json:"available"`
	Message   string               `json:"message"`
	Conflicts []ConflictingBooking `json:"conflicts,omitempty"`
}

type ConflictingBooking struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

// Confirmation reports the outcome of a confirm attempt. Confirmed=false with
// a nil error means the slot was contested, which is a normal negative
// outcome rather than a fault.
type Confirmation struct {
	BookingID   int64      `json:"booking_id"`
	Reference   string     `json:"reference"`
	Confirmed   bool       `json:"confirmed"`
	Message     string     `json:"message"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
}

func toConflictingBooking(b domain.Booking) ConflictingBooking {
	return ConflictingBooking{
		ID:        b.ID,
		Date:      b.Date.Format("2006-01-02"),
		StartTime: b.Range.Start.String(),
		EndTime:   b.Range.End.String(),
		Reference: b.Reference,
		Status:    string(b.Status),
	}
}
