package booking

import (
	"context"
	"time"

	"studiobooking/internal/domain"
)

// ConflictChecker answers whether a requested slot collides with existing
// bookings. It reads the day's bookings from the store and filters in memory;
// the store returns them ordered by start time, so results keep that order.
type ConflictChecker struct {
	bookings BookingRepository
}

func NewConflictChecker(bookings BookingRepository) *ConflictChecker {
	return &ConflictChecker{bookings: bookings}
}

// FindConflicts returns every non-cancelled booking of the studio on the date
// whose range overlaps the requested one, ordered by start time ascending.
func (c *ConflictChecker) FindConflicts(ctx context.Context, studioID int64, date time.Time, rng domain.TimeRange) ([]domain.Booking, error) {
	day, err := c.bookings.GetByStudioAndDate(ctx, studioID, date)
	if err != nil {
		return nil, err
	}

	conflicts := make([]domain.Booking, 0)
	for _, b := range day {
		if b.ConflictsWith(date, rng) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts, nil
}

// HasConflicts is FindConflicts as a predicate, optionally ignoring one
// booking id so an existing booking does not conflict with itself during
// update or confirm.
func (c *ConflictChecker) HasConflicts(ctx context.Context, studioID int64, date time.Time, rng domain.TimeRange, excludeID *int64) (bool, error) {
	conflicts, err := c.FindConflicts(ctx, studioID, date, rng)
	if err != nil {
		return false, err
	}

	for _, b := range conflicts {
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		return true, nil
	}
	return false, nil
}
