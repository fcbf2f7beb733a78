package holiday

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, h *Holiday) error
	FindAll(ctx context.Context) ([]Holiday, error)
	FindByID(ctx context.Context, id string) (*Holiday, error)
	FindByDate(ctx context.Context, date time.Time) (*Holiday, error)
	FindInRange(ctx context.Context, from, to time.Time, criticalOnly *bool, limit int) ([]Holiday, error)
	Update(ctx context.Context, h *Holiday) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, h *Holiday) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Holiday, error) {
	var holidays []Holiday
	err := r.db.WithContext(ctx).
		Order("date ASC").
		Find(&holidays).Error
	return holidays, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Holiday, error) {
	var h Holiday
	err := r.db.WithContext(ctx).First(&h, "id = ?", id).Error
	return &h, err
}

func (r *repository) FindByDate(ctx context.Context, date time.Time) (*Holiday, error) {
	var h Holiday
	err := r.db.WithContext(ctx).First(&h, "date = ?", date).Error
	return &h, err
}

func (r *repository) FindInRange(ctx context.Context, from, to time.Time, criticalOnly *bool, limit int) ([]Holiday, error) {
	db := r.db.WithContext(ctx).
		Where("date >= ?", from).
		Where("date <= ?", to).
		Order("date ASC")

	if criticalOnly != nil {
		db = db.Where("is_critical = ?", *criticalOnly)
	}
	if limit > 0 {
		db = db.Limit(limit)
	}

	var holidays []Holiday
	err := db.Find(&holidays).Error
	return holidays, err
}

func (r *repository) Update(ctx context.Context, h *Holiday) error {
	return r.db.WithContext(ctx).Save(h).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Holiday{}, "id = ?", id).Error
}
