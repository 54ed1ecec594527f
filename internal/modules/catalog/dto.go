package catalog

import "studiobooking/internal/domain"

type NearbyRequest struct {
	Latitude  float64 `form:"lat" binding:"required"`
	Longitude float64 `form:"lng" binding:"required"`
	RadiusKm  float64 `form:"radius_km"`
}

// StudioWithDistance augments a studio with its distance from the search
// point, for nearby queries.
type StudioWithDistance struct {
	domain.Studio
	DistanceKm float64 `json:"distance_km"`
}

// Slot is one bookable hour in a studio's day.
type Slot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// BookedSlot is an occupied range as the booking actually holds it, which
// need not be hour-aligned.
type BookedSlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Reference string `json:"reference"`
}

// DayGrid is the availability of one studio on one date: the occupied ranges
// and the fixed hour slots none of them touch.
type DayGrid struct {
	StudioID       int64        `json:"studio_id"`
	Date           string       `json:"date"`
	BookedSlots    []BookedSlot `json:"booked_slots"`
	AvailableSlots []Slot       `json:"available_slots"`
}
