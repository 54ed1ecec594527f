package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

const DefaultCurrency = "BDT"

// cancellationNotice is the minimum time before the slot start at which a
// booking may still be cancelled.
const cancellationNotice = 24 * time.Hour

// Booking is the aggregate root of the reservation lifecycle. All status
// changes go through the transition methods below; each validates the current
// status first and returns ErrInvalidState on an illegal transition.
// Cancelled and completed are terminal.
type Booking struct {
	ID                 int64         `json:"id"`
	StudioID           int64         `json:"studio_id"`
	UserName           string        `json:"user_name"`
	Email              string        `json:"email"`
	Phone              string        `json:"phone"`
	Date               time.Time     `json:"date"`
	Range              TimeRange     `json:"range"`
	DurationHours      int           `json:"duration_hours"`
	TotalPrice         float64       `json:"total_price"`
	Currency           string        `json:"currency"`
	Status             BookingStatus `json:"status"`
	Notes              string        `json:"notes,omitempty"`
	Reference          string        `json:"reference"`
	ConfirmedAt        *time.Time    `json:"confirmed_at,omitempty"`
	CancelledAt        *time.Time    `json:"cancelled_at,omitempty"`
	CancellationReason string        `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`

	Studio *Studio `json:"studio,omitempty"`
}

type NewBookingParams struct {
	StudioID   int64
	UserName   string
	Email      string
	Phone      string
	Date       time.Time
	Range      TimeRange
	TotalPrice float64
	Notes      string
	Reference  string
	Now        time.Time
}

// NewBooking constructs a pending booking. The date is truncated to its date
// component; the reference is assigned once and never regenerated.
func NewBooking(p NewBookingParams) (*Booking, error) {
	hours, err := p.Range.DurationHours()
	if err != nil {
		return nil, err
	}

	return &Booking{
		StudioID:      p.StudioID,
		UserName:      p.UserName,
		Email:         p.Email,
		Phone:         p.Phone,
		Date:          TruncateToDate(p.Date),
		Range:         p.Range,
		DurationHours: hours,
		TotalPrice:    p.TotalPrice,
		Currency:      DefaultCurrency,
		Status:        BookingPending,
		Notes:         p.Notes,
		Reference:     p.Reference,
		CreatedAt:     p.Now,
		UpdatedAt:     p.Now,
	}, nil
}

// UpdateDetails reschedules a pending booking. The reference stays as-is.
func (b *Booking) UpdateDetails(date time.Time, rng TimeRange, totalPrice float64, notes string, now time.Time) error {
	if b.Status != BookingPending {
		return ErrInvalidState
	}

	hours, err := rng.DurationHours()
	if err != nil {
		return err
	}

	b.Date = TruncateToDate(date)
	b.Range = rng
	b.DurationHours = hours
	b.TotalPrice = totalPrice
	b.Notes = notes
	b.UpdatedAt = now
	return nil
}

func (b *Booking) Confirm(now time.Time) error {
	if b.Status != BookingPending {
		return ErrInvalidState
	}

	b.Status = BookingConfirmed
	b.ConfirmedAt = &now
	b.UpdatedAt = now
	return nil
}

func (b *Booking) Cancel(reason string, now time.Time) error {
	if b.Status == BookingCancelled || b.Status == BookingCompleted {
		return ErrInvalidState
	}

	b.Status = BookingCancelled
	b.CancelledAt = &now
	b.CancellationReason = reason
	b.UpdatedAt = now
	return nil
}

func (b *Booking) Complete(now time.Time) error {
	if b.Status != BookingConfirmed {
		return ErrInvalidState
	}

	b.Status = BookingCompleted
	b.UpdatedAt = now
	return nil
}

// CanBeCancelled reports whether the booking is still cancellable: not in a
// terminal status and at least 24 hours before the slot starts. A policy
// gate, not itself a transition.
func (b *Booking) CanBeCancelled(now time.Time) bool {
	if b.Status != BookingPending && b.Status != BookingConfirmed {
		return false
	}
	start := b.Range.Start.On(b.Date)
	return start.Sub(now) >= cancellationNotice
}

// ConflictsWith reports whether the booking occupies any part of the given
// slot. Cancelled bookings never conflict.
func (b *Booking) ConflictsWith(date time.Time, rng TimeRange) bool {
	if b.Status == BookingCancelled {
		return false
	}
	if !SameDate(b.Date, date) {
		return false
	}
	return b.Range.Overlaps(rng)
}

func (b *Booking) IsUpcoming(now time.Time) bool {
	return b.Status == BookingConfirmed && b.Range.Start.On(b.Date).After(now)
}

// TruncateToDate drops the time-of-day component, keeping a UTC date.
func TruncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
