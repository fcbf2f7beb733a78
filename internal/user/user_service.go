package user

import (
	"context"
	"database/sql"
	"errors"

	"leavetrack/internal/rbac"
	usererrors "leavetrack/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service interface {
	GetAll(ctx context.Context) ([]UserResponse, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) GetAll(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(users), nil
}

func (s *service) GetByID(ctx context.Context, id string) (UserResponse, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

func (s *service) Create(ctx context.Context, req CreateUserRequest) (UserResponse, error) {
	s.logger.Debug("create user requested",
		zap.String("email", req.Email),
		zap.String("role", req.Role),
	)

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return UserResponse{}, usererrors.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return UserResponse{}, err
	}

	managerID, err := s.resolveManagerID(ctx, req.Role, req.ManagerID)
	if err != nil {
		return UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, err
	}

	u := &User{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     req.Email,
		Password:  string(hash),
		Role:      req.Role,
		ManagerID: managerID,
		// Admin-created accounts carry a temporary password.
		ForcePasswordChange: true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		s.logger.Error("create user persist failed", zap.Error(err))
		return UserResponse{}, err
	}

	s.logger.Info("create user success",
		zap.String("user_id", u.ID.String()),
		zap.String("role", u.Role),
	)
	return mapToResponse(*u), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	if req.Email != u.Email {
		if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
			return UserResponse{}, usererrors.ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, err
		}
	}

	managerID, err := s.resolveManagerID(ctx, req.Role, req.ManagerID)
	if err != nil {
		return UserResponse{}, err
	}

	u.Name = req.Name
	u.Email = req.Email
	u.Role = req.Role
	u.ManagerID = managerID

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return UserResponse{}, err
		}
		u.Password = string(hash)
		u.ForcePasswordChange = true
	}

	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.Error("update user persist failed", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, err
	}

	return mapToResponse(*u), nil
}

// Delete removes a user together with their ledger footprint: managed
// employees are disassociated, their applications deleted, and decisions
// they made keep the leave but lose the decider reference.
func (s *service) Delete(ctx context.Context, id string) error {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usererrors.ErrUserNotFound
		}
		return err
	}

	if u.Role == rbac.RoleAdmin {
		count, err := s.repo.CountByRole(ctx, rbac.RoleAdmin)
		if err != nil {
			return err
		}
		if count <= 1 {
			return usererrors.ErrLastAdmin
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete user begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.DisassociateManagedEmployees(ctx, id); err != nil {
		s.logger.Error("delete user disassociate failed", zap.Error(err))
		return err
	}
	if err := qtx.DeleteLeavesByUser(ctx, id); err != nil {
		s.logger.Error("delete user leaves cleanup failed", zap.Error(err))
		return err
	}
	if err := qtx.ClearLeaveApprovalsBy(ctx, id); err != nil {
		s.logger.Error("delete user approvals cleanup failed", zap.Error(err))
		return err
	}
	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete user failed", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete user commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("delete user success", zap.String("user_id", id))
	return nil
}

// resolveManagerID applies the assignment rules: only employees get a
// manager, and the referenced user must actually be one.
func (s *service) resolveManagerID(ctx context.Context, role, managerID string) (*uuid.UUID, error) {
	if role != rbac.RoleEmployee || managerID == "" {
		return nil, nil
	}

	managerUUID, err := uuid.Parse(managerID)
	if err != nil {
		return nil, usererrors.ErrInvalidManagerID
	}

	manager, err := s.repo.FindByID(ctx, managerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usererrors.ErrInvalidManagerID
		}
		return nil, err
	}
	if manager.Role != rbac.RoleManager {
		return nil, usererrors.ErrManagerNotManager
	}

	return &managerUUID, nil
}

func mapToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:                  u.ID.String(),
		Name:                u.Name,
		Email:               u.Email,
		Role:                u.Role,
		ForcePasswordChange: u.ForcePasswordChange,
	}
	if u.ManagerID != nil {
		v := u.ManagerID.String()
		resp.ManagerID = &v
	}
	return resp
}

func mapToListResponse(users []User) []UserResponse {
	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp
}
