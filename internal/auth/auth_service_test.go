package auth_test

import (
	"context"
	"database/sql"
	"testing"

	"leavetrack/internal/auth"
	autherrors "leavetrack/internal/auth/errors"
	"leavetrack/internal/rbac"
	"leavetrack/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepository struct {
	findByIDFn    func(ctx context.Context, id string) (*user.User, error)
	findByEmailFn func(ctx context.Context, email string) (*user.User, error)
	updateFn      func(ctx context.Context, u *user.User) error
}

func (f *fakeUserRepository) WithTx(tx *sql.Tx) user.Repository { return f }

func (f *fakeUserRepository) Create(ctx context.Context, u *user.User) error { return nil }

func (f *fakeUserRepository) FindAll(ctx context.Context) ([]user.User, error) { return nil, nil }

func (f *fakeUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	if f.findByEmailFn != nil {
		return f.findByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) FindByIDs(ctx context.Context, ids []string) ([]user.User, error) {
	return nil, nil
}

func (f *fakeUserRepository) FindTeamMemberIDs(ctx context.Context, managerID string) ([]string, error) {
	return nil, nil
}

func (f *fakeUserRepository) Update(ctx context.Context, u *user.User) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, u)
	}
	return nil
}

func (f *fakeUserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	return 0, nil
}

func (f *fakeUserRepository) DisassociateManagedEmployees(ctx context.Context, managerID string) error {
	return nil
}

func (f *fakeUserRepository) DeleteLeavesByUser(ctx context.Context, userID string) error { return nil }

func (f *fakeUserRepository) ClearLeaveApprovalsBy(ctx context.Context, userID string) error {
	return nil
}

func (f *fakeUserRepository) Delete(ctx context.Context, id string) error { return nil }

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	userID := uuid.New()
	stored := &user.User{
		ID:       userID,
		Name:     "Jamie Cruz",
		Email:    "jamie@company.com",
		Password: hashPassword(t, "secret123"),
		Role:     rbac.RoleEmployee,
	}

	t.Run("success issues both tokens with identity claims", func(t *testing.T) {
		repo := &fakeUserRepository{}
		repo.findByEmailFn = func(ctx context.Context, email string) (*user.User, error) {
			assert.Equal(t, "jamie@company.com", email)
			return stored, nil
		}
		svc := auth.NewService(repo)

		accessToken, refreshToken, resp, err := svc.Login(ctx, "jamie@company.com", "secret123")

		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		assert.NotEmpty(t, refreshToken)
		assert.Equal(t, userID.String(), resp.ID)
		assert.Equal(t, rbac.RoleEmployee, resp.Role)

		token, err := jwt.Parse(accessToken, func(token *jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		assert.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, userID.String(), claims["user_id"])
		assert.Equal(t, rbac.RoleEmployee, claims["role"])
		assert.Equal(t, "Jamie Cruz", claims["name"])
	})

	t.Run("negative wrong password", func(t *testing.T) {
		repo := &fakeUserRepository{}
		repo.findByEmailFn = func(ctx context.Context, email string) (*user.User, error) {
			return stored, nil
		}
		svc := auth.NewService(repo)

		_, _, _, err := svc.Login(ctx, "jamie@company.com", "wrong")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative unknown email", func(t *testing.T) {
		svc := auth.NewService(&fakeUserRepository{})

		_, _, _, err := svc.Login(ctx, "ghost@company.com", "secret123")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	userID := uuid.New()
	stored := &user.User{
		ID:       userID,
		Name:     "Jamie Cruz",
		Email:    "jamie@company.com",
		Password: hashPassword(t, "secret123"),
		Role:     rbac.RoleEmployee,
	}

	t.Run("success rotates the token pair", func(t *testing.T) {
		repo := &fakeUserRepository{}
		repo.findByEmailFn = func(ctx context.Context, email string) (*user.User, error) {
			return stored, nil
		}
		repo.findByIDFn = func(ctx context.Context, id string) (*user.User, error) {
			assert.Equal(t, userID.String(), id)
			return stored, nil
		}
		svc := auth.NewService(repo)

		_, refreshToken, _, err := svc.Login(ctx, "jamie@company.com", "secret123")
		assert.NoError(t, err)

		newAccess, newRefresh, resp, err := svc.RefreshToken(ctx, refreshToken)

		assert.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)
		assert.Equal(t, userID.String(), resp.ID)
	})

	t.Run("negative garbage token", func(t *testing.T) {
		svc := auth.NewService(&fakeUserRepository{})

		_, _, _, err := svc.RefreshToken(ctx, "not-a-jwt")

		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	userID := uuid.New()

	t.Run("success clears the force-change flag", func(t *testing.T) {
		repo := &fakeUserRepository{}
		repo.findByIDFn = func(ctx context.Context, id string) (*user.User, error) {
			return &user.User{
				ID:                  userID,
				Password:            hashPassword(t, "temp-pass-1"),
				ForcePasswordChange: true,
			}, nil
		}
		var saved *user.User
		repo.updateFn = func(ctx context.Context, u *user.User) error {
			saved = u
			return nil
		}
		svc := auth.NewService(repo)

		err := svc.ChangePassword(ctx, userID.String(), "temp-pass-1", "brand-new-pass")

		assert.NoError(t, err)
		assert.NotNil(t, saved)
		assert.False(t, saved.ForcePasswordChange)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte("brand-new-pass")))
	})

	t.Run("negative wrong current password", func(t *testing.T) {
		repo := &fakeUserRepository{}
		repo.findByIDFn = func(ctx context.Context, id string) (*user.User, error) {
			return &user.User{ID: userID, Password: hashPassword(t, "temp-pass-1")}, nil
		}
		svc := auth.NewService(repo)

		err := svc.ChangePassword(ctx, userID.String(), "guess", "brand-new-pass")

		assert.ErrorIs(t, err, autherrors.ErrWrongCurrentPassword)
	})
}
