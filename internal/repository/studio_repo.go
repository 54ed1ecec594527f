package repository

import (
	"context"
	"time"

	"studiobooking/internal/domain"

	"gorm.io/gorm"
)

type StudioRepository struct {
	db *gorm.DB
}

func NewStudioRepository(db *gorm.DB) *StudioRepository {
	return &StudioRepository{db: db}
}

type studioModel struct {
	ID           int64      `gorm:"column:id;primaryKey"`
	Name         string     `gorm:"column:name"`
	Description  string     `gorm:"column:description;type:text"`
	Area         string     `gorm:"column:area;index"`
	Address      string     `gorm:"column:address"`
	City         string     `gorm:"column:city"`
	Latitude     float64    `gorm:"column:latitude"`
	Longitude    float64    `gorm:"column:longitude"`
	PricePerHour float64    `gorm:"column:price_per_hour"`
	Currency     string     `gorm:"column:currency"`
	Capacity     int        `gorm:"column:capacity"`
	StudioType   string     `gorm:"column:studio_type"`
	IsActive     bool       `gorm:"column:is_active"`
	Rating       float64    `gorm:"column:rating"`
	ReviewCount  int        `gorm:"column:review_count"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
	DeletedAt    *time.Time `gorm:"column:deleted_at"`
}

func (studioModel) TableName() string { return "studios" }

func toDomainStudio(m studioModel) *domain.Studio {
	return &domain.Studio{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		Area:         m.Area,
		Address:      m.Address,
		City:         m.City,
		Latitude:     m.Latitude,
		Longitude:    m.Longitude,
		PricePerHour: m.PricePerHour,
		Currency:     m.Currency,
		Capacity:     m.Capacity,
		StudioType:   m.StudioType,
		IsActive:     m.IsActive,
		Rating:       m.Rating,
		ReviewCount:  m.ReviewCount,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		DeletedAt:    m.DeletedAt,
	}
}

func toStudioModel(s *domain.Studio) studioModel {
	return studioModel{
		ID:           s.ID,
		Name:         s.Name,
		Description:  s.Description,
		Area:         s.Area,
		Address:      s.Address,
		City:         s.City,
		Latitude:     s.Latitude,
		Longitude:    s.Longitude,
		PricePerHour: s.PricePerHour,
		Currency:     s.Currency,
		Capacity:     s.Capacity,
		StudioType:   s.StudioType,
		IsActive:     s.IsActive,
		Rating:       s.Rating,
		ReviewCount:  s.ReviewCount,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		DeletedAt:    s.DeletedAt,
	}
}

func (r *StudioRepository) GetActive(ctx context.Context) ([]domain.Studio, error) {
	var models []studioModel
	tx := r.db.WithContext(ctx).
		Where("is_active = ? AND deleted_at IS NULL", true).
		Order("name ASC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Studio, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainStudio(m))
	}
	return out, nil
}

func (r *StudioRepository) GetByID(ctx context.Context, id int64) (*domain.Studio, error) {
	var m studioModel
	tx := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainStudio(m), nil
}

func (r *StudioRepository) GetByArea(ctx context.Context, area string) ([]domain.Studio, error) {
	var models []studioModel
	tx := r.db.WithContext(ctx).
		Where("is_active = ? AND deleted_at IS NULL AND LOWER(area) = LOWER(?)", true, area).
		Order("name ASC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Studio, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainStudio(m))
	}
	return out, nil
}

func (r *StudioRepository) Create(ctx context.Context, s *domain.Studio) error {
	m := toStudioModel(s)
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	s.ID = m.ID
	return nil
}

func (r *StudioRepository) Update(ctx context.Context, s *domain.Studio) error {
	m := toStudioModel(s)
	return r.db.WithContext(ctx).Save(&m).Error
}
