package live

import (
	"context"
	"testing"
	"time"

	"studiobooking/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotify_NoSubscribers(t *testing.T) {
	hub := NewHub()

	b := &domain.Booking{ID: 1, Reference: "BK20250601A1B2C3"}
	assert.NoError(t, hub.NotifyBookingCreated(context.Background(), b))
	assert.NoError(t, hub.NotifyBookingConfirmed(context.Background(), b))
	assert.NoError(t, hub.NotifyBookingCancelled(context.Background(), b, "weather"))
}

func TestToPayload(t *testing.T) {
	start, err := domain.ParseTimeOfDay("10:00")
	require.NoError(t, err)
	end, err := domain.ParseTimeOfDay("12:00")
	require.NoError(t, err)

	b := &domain.Booking{
		ID:        5,
		StudioID:  1,
		Reference: "BK20250601A1B2C3",
		Date:      time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Range:     domain.TimeRange{Start: start, End: end},
		Status:    domain.BookingCancelled,
	}

	p := toPayload(b, "weather")

	assert.Equal(t, "2025-06-10", p.Date)
	assert.Equal(t, "10:00", p.StartTime)
	assert.Equal(t, "12:00", p.EndTime)
	assert.Equal(t, "cancelled", p.Status)
	assert.Equal(t, "weather", p.Reason)
}
