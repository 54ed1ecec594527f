package catalog

import (
	"context"
	"time"

	"studiobooking/internal/domain"
)

// Studios accept bookings between these hours regardless of season.
const (
	openingHour = 9
	closingHour = 21
)

// DayAvailability reports the booked ranges and the free hour slots for a
// studio on a date. Booked ranges come back exactly as held, even when not
// hour-aligned; an hour slot between opening and closing is listed as
// available when no non-cancelled booking overlaps it.
func (s *Service) DayAvailability(ctx context.Context, studioID int64, date time.Time) (*DayGrid, error) {
	if _, err := s.GetStudio(ctx, studioID); err != nil {
		return nil, err
	}

	day := domain.TruncateToDate(date)
	bookings, err := s.bookings.GetByStudioAndDate(ctx, studioID, day)
	if err != nil {
		return nil, err
	}

	grid := &DayGrid{
		StudioID:       studioID,
		Date:           day.Format("2006-01-02"),
		BookedSlots:    make([]BookedSlot, 0, len(bookings)),
		AvailableSlots: make([]Slot, 0, closingHour-openingHour),
	}

	for _, b := range bookings {
		if b.Status == domain.BookingCancelled {
			continue
		}
		grid.BookedSlots = append(grid.BookedSlots, BookedSlot{
			StartTime: b.Range.Start.String(),
			EndTime:   b.Range.End.String(),
			Reference: b.Reference,
		})
	}

	for hour := openingHour; hour < closingHour; hour++ {
		slot := domain.TimeRange{
			Start: domain.NewTimeOfDay(hour, 0),
			End:   domain.NewTimeOfDay(hour+1, 0),
		}

		free := true
		for _, b := range bookings {
			if b.ConflictsWith(day, slot) {
				free = false
				break
			}
		}
		if free {
			grid.AvailableSlots = append(grid.AvailableSlots, Slot{
				StartTime: slot.Start.String(),
				EndTime:   slot.End.String(),
			})
		}
	}

	return grid, nil
}
