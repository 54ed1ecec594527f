package repository

import (
	"context"
	"errors"
	"time"

	"studiobooking/internal/domain"

	"gorm.io/gorm"
)

// BookingRepository is the durable booking store. Times of day are persisted
// as minutes since midnight, which keeps ordering natural and lets Postgres
// enforce the no-overlap exclusion constraint over int4range values.
type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID                 int64      `gorm:"column:id;primaryKey"`
	StudioID           int64      `gorm:"column:studio_id;index"`
	UserName           string     `gorm:"column:user_name"`
	Email              string     `gorm:"column:email;index"`
	Phone              string     `gorm:"column:phone"`
	Date               time.Time  `gorm:"column:date;index"`
	StartMinute        int        `gorm:"column:start_minute"`
	EndMinute          int        `gorm:"column:end_minute"`
	DurationHours      int        `gorm:"column:duration_hours"`
	TotalPrice         float64    `gorm:"column:total_price"`
	Currency           string     `gorm:"column:currency"`
	Status             string     `gorm:"column:status;index"`
	Notes              *string    `gorm:"column:notes;type:text"`
	Reference          string     `gorm:"column:reference;uniqueIndex"`
	ConfirmedAt        *time.Time `gorm:"column:confirmed_at"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
	CancellationReason *string    `gorm:"column:cancellation_reason;type:text"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	var notes, reason string
	if m.Notes != nil {
		notes = *m.Notes
	}
	if m.CancellationReason != nil {
		reason = *m.CancellationReason
	}

	return &domain.Booking{
		ID:                 m.ID,
		StudioID:           m.StudioID,
		UserName:           m.UserName,
		Email:              m.Email,
		Phone:              m.Phone,
		Date:               domain.TruncateToDate(m.Date),
		Range:              domain.TimeRange{Start: domain.TimeOfDay(m.StartMinute), End: domain.TimeOfDay(m.EndMinute)},
		DurationHours:      m.DurationHours,
		TotalPrice:         m.TotalPrice,
		Currency:           m.Currency,
		Status:             domain.BookingStatus(m.Status),
		Notes:              notes,
		Reference:          m.Reference,
		ConfirmedAt:        m.ConfirmedAt,
		CancelledAt:        m.CancelledAt,
		CancellationReason: reason,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	var notes, reason *string
	if b.Notes != "" {
		v := b.Notes
		notes = &v
	}
	if b.CancellationReason != "" {
		v := b.CancellationReason
		reason = &v
	}

	return bookingModel{
		ID:                 b.ID,
		StudioID:           b.StudioID,
		UserName:           b.UserName,
		Email:              b.Email,
		Phone:              b.Phone,
		Date:               b.Date,
		StartMinute:        int(b.Range.Start),
		EndMinute:          int(b.Range.End),
		DurationHours:      b.DurationHours,
		TotalPrice:         b.TotalPrice,
		Currency:           b.Currency,
		Status:             string(b.Status),
		Notes:              notes,
		Reference:          b.Reference,
		ConfirmedAt:        b.ConfirmedAt,
		CancelledAt:        b.CancelledAt,
		CancellationReason: reason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func toDomainBookings(models []bookingModel) []domain.Booking {
	out := make([]domain.Booking, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainBooking(m))
	}
	return out
}

// Save inserts the booking on first call (assigning its id) and updates it on
// subsequent calls. The write is a single statement either way.
func (r *BookingRepository) Save(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	if tx := r.db.WithContext(ctx).Save(&m); tx.Error != nil {
		return tx.Error
	}
	b.ID = m.ID
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	if tx := r.db.WithContext(ctx).First(&m, id); tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) GetByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).Where("reference = ?", ref).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) GetAll(ctx context.Context) ([]domain.Booking, error) {
	var models []bookingModel
	tx := r.db.WithContext(ctx).Order("created_at DESC").Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(models), nil
}

func (r *BookingRepository) GetByUserEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	var models []bookingModel
	tx := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		Order("date DESC").
		Order("start_minute ASC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(models), nil
}

func (r *BookingRepository) GetByStudioID(ctx context.Context, studioID int64) ([]domain.Booking, error) {
	var models []bookingModel
	tx := r.db.WithContext(ctx).
		Where("studio_id = ?", studioID).
		Order("date DESC").
		Order("start_minute ASC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(models), nil
}

// GetByStudioAndDate returns all bookings for the studio on a calendar day,
// ordered by start time ascending. Overlap filtering happens in the caller.
func (r *BookingRepository) GetByStudioAndDate(ctx context.Context, studioID int64, date time.Time) ([]domain.Booking, error) {
	day := domain.TruncateToDate(date)

	var models []bookingModel
	tx := r.db.WithContext(ctx).
		Where("studio_id = ? AND date >= ? AND date < ?", studioID, day, day.AddDate(0, 0, 1)).
		Order("start_minute ASC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(models), nil
}

func (r *BookingRepository) Delete(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Delete(&bookingModel{}, b.ID).Error
}

// IsNotFound reports whether err is the store's missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
