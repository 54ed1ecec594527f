package domain

import (
	"math"
	"time"
)

type Studio struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Area         string     `json:"area"`
	Address      string     `json:"address"`
	City         string     `json:"city"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	PricePerHour float64    `json:"price_per_hour"`
	Currency     string     `json:"currency"`
	Capacity     int        `json:"capacity"`
	StudioType   string     `json:"studio_type"`
	IsActive     bool       `json:"is_active"`
	Rating       float64    `json:"rating"`
	ReviewCount  int        `json:"review_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"-"`
}

const earthRadiusKm = 6371.0

// DistanceKm returns the haversine distance between the studio and a point.
func (s *Studio) DistanceKm(latitude, longitude float64) float64 {
	lat1 := s.Latitude * math.Pi / 180
	lat2 := latitude * math.Pi / 180
	dLat := (latitude - s.Latitude) * math.Pi / 180
	dLon := (longitude - s.Longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func (s *Studio) WithinRadius(latitude, longitude, radiusKm float64) bool {
	return s.DistanceKm(latitude, longitude) <= radiusKm
}
