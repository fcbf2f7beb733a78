package user

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, u *User) error
	FindAll(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByIDs(ctx context.Context, ids []string) ([]User, error)
	FindTeamMemberIDs(ctx context.Context, managerID string) ([]string, error)
	Update(ctx context.Context, u *User) error
	CountByRole(ctx context.Context, role string) (int64, error)
	DisassociateManagedEmployees(ctx context.Context, managerID string) error
	DeleteLeavesByUser(ctx context.Context, userID string) error
	ClearLeaveApprovalsBy(ctx context.Context, userID string) error
	Delete(ctx context.Context, id string) error
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

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) FindAll(ctx context.Context) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	return &u, err
}

func (r *repository) FindByIDs(ctx context.Context, ids []string) ([]User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []User
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&users).Error
	return users, err
}

func (r *repository) FindTeamMemberIDs(ctx context.Context, managerID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Where("manager_id = ?", managerID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *repository) Update(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *repository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Where("role = ?", role).
		Count(&count).Error
	return count, err
}

// The cleanup statements below run inside the delete transaction, therefore
// raw SQL against the tx.

func (r *repository) DisassociateManagedEmployees(ctx context.Context, managerID string) error {
	_, err := r.execer().ExecContext(ctx,
		`UPDATE users SET manager_id = NULL WHERE manager_id = $1`, managerID)
	return err
}

func (r *repository) DeleteLeavesByUser(ctx context.Context, userID string) error {
	_, err := r.execer().ExecContext(ctx,
		`DELETE FROM leaves WHERE user_id = $1`, userID)
	return err
}

func (r *repository) ClearLeaveApprovalsBy(ctx context.Context, userID string) error {
	_, err := r.execer().ExecContext(ctx,
		`UPDATE leaves SET approved_by = NULL WHERE approved_by = $1`, userID)
	return err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	_, err := r.execer().ExecContext(ctx,
		`UPDATE users SET deleted_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		panic(err)
	}
	return sqlDB
}
