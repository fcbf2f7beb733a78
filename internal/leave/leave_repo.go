package leave

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindByID(ctx context.Context, id string) (*Leave, error)
	FindAllByUser(ctx context.Context, userID string) ([]Leave, error)
	FindAllByUsers(ctx context.Context, userIDs []string) ([]Leave, error)
	FindRecentByUser(ctx context.Context, userID string, limit int) ([]Leave, error)
	FindRecentByUsers(ctx context.Context, userIDs []string, limit int) ([]Leave, error)
	FindPendingByUsers(ctx context.Context, userIDs []string) ([]Leave, error)
	FindDecidedByUsers(ctx context.Context, userIDs []string, limit int) ([]Leave, error)
	FindInRangeByUsers(ctx context.Context, userIDs []string, from, to time.Time) ([]Leave, error)
	Update(ctx context.Context, l *Leave) error
	IsManagerOf(ctx context.Context, managerID, userID string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindAllByUser(ctx context.Context, userID string) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindAllByUsers(ctx context.Context, userIDs []string) ([]Leave, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("start_date DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindRecentByUser(ctx context.Context, userID string, limit int) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Limit(limit).
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindRecentByUsers(ctx context.Context, userIDs []string, limit int) ([]Leave, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("start_date DESC").
		Limit(limit).
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindPendingByUsers(ctx context.Context, userIDs []string) ([]Leave, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Where("status = ?", StatusPending).
		Order("applied_at ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindDecidedByUsers(ctx context.Context, userIDs []string, limit int) ([]Leave, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Where("status IN ?", []string{StatusApproved, StatusRejected}).
		Order("approved_at DESC").
		Limit(limit).
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindInRangeByUsers(ctx context.Context, userIDs []string, from, to time.Time) ([]Leave, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Where("start_date <= ?", to).
		Where("end_date >= ?", from).
		Order("start_date ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) Update(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *repository) IsManagerOf(ctx context.Context, managerID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("users").
		Where("id = ?", userID).
		Where("manager_id = ?", managerID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}
