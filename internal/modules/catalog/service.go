package catalog

import (
	"context"
	"sort"

	"studiobooking/internal/domain"
	"studiobooking/internal/repository"
)

const defaultNearbyRadiusKm = 5.0

type Service struct {
	studios  StudioRepository
	bookings BookingRepository
}

func NewService(studios StudioRepository, bookings BookingRepository) *Service {
	return &Service{studios: studios, bookings: bookings}
}

func (s *Service) GetActiveStudios(ctx context.Context) ([]domain.Studio, error) {
	return s.studios.GetActive(ctx)
}

func (s *Service) GetStudio(ctx context.Context, id int64) (*domain.Studio, error) {
	studio, err := s.studios.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return studio, nil
}

func (s *Service) SearchByArea(ctx context.Context, area string) ([]domain.Studio, error) {
	return s.studios.GetByArea(ctx, area)
}

// FindNearby returns active studios within the radius, closest first.
func (s *Service) FindNearby(ctx context.Context, req NearbyRequest) ([]StudioWithDistance, error) {
	radius := req.RadiusKm
	if radius <= 0 {
		radius = defaultNearbyRadiusKm
	}

	active, err := s.studios.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	nearby := make([]StudioWithDistance, 0)
	for _, studio := range active {
		d := studio.DistanceKm(req.Latitude, req.Longitude)
		if d <= radius {
			nearby = append(nearby, StudioWithDistance{Studio: studio, DistanceKm: d})
		}
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})
	return nearby, nil
}
