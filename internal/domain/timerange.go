package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is a clock time within a day, stored as minutes since midnight.
type TimeOfDay int

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay parses "15:04" formatted strings.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return NewTimeOfDay(t.Hour(), t.Minute()), nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// On anchors the time of day to a calendar date in UTC.
func (t TimeOfDay) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// TimeRange is a start/end pair within a single day. Ranges are half-open:
// [Start, End), so a range ending at 12:00 does not overlap one starting at 12:00.
type TimeRange struct {
	Start TimeOfDay `json:"start_time"`
	End   TimeOfDay `json:"end_time"`
}

func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start < other.End && other.Start < r.End
}

// DurationHours returns the range length rounded up to whole hours.
func (r TimeRange) DurationHours() (int, error) {
	if r.End <= r.Start {
		return 0, ErrInvalidRange
	}
	minutes := int(r.End - r.Start)
	hours := minutes / 60
	if minutes%60 != 0 {
		hours++
	}
	return hours, nil
}
