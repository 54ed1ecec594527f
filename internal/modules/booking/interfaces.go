package booking

import (
	"context"
	"time"

	"studiobooking/internal/domain"
)

// BookingRepository is the durable booking store as seen by this module.
type BookingRepository interface {
	Save(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByReference(ctx context.Context, ref string) (*domain.Booking, error)
	GetAll(ctx context.Context) ([]domain.Booking, error)
	GetByUserEmail(ctx context.Context, email string) ([]domain.Booking, error)
	GetByStudioID(ctx context.Context, studioID int64) ([]domain.Booking, error)
	GetByStudioAndDate(ctx context.Context, studioID int64, date time.Time) ([]domain.Booking, error)
	Delete(ctx context.Context, b *domain.Booking) error
}

// StudioRepository provides the studio lookups the workflow needs.
type StudioRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Studio, error)
}

// Notifier receives booking lifecycle events. Delivery is best effort; the
// workflow never fails an operation on a notifier error.
type Notifier interface {
	NotifyBookingCreated(ctx context.Context, b *domain.Booking) error
	NotifyBookingConfirmed(ctx context.Context, b *domain.Booking) error
	NotifyBookingCancelled(ctx context.Context, b *domain.Booking, reason string) error
}
