package catalog

import (
	"context"
	"time"

	"studiobooking/internal/domain"
)

type StudioRepository interface {
	GetActive(ctx context.Context) ([]domain.Studio, error)
	GetByID(ctx context.Context, id int64) (*domain.Studio, error)
	GetByArea(ctx context.Context, area string) ([]domain.Studio, error)
	Create(ctx context.Context, s *domain.Studio) error
	Update(ctx context.Context, s *domain.Studio) error
}

type BookingRepository interface {
	GetByStudioAndDate(ctx context.Context, studioID int64, date time.Time) ([]domain.Booking, error)
}
