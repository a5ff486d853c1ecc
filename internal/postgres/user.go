package postgres

import (
	"context"
	"errors"

	"github.com/dukerupert/airshop/internal/domain"
	"github.com/dukerupert/airshop/internal/repository"
	"github.com/jackc/pgx/v5"
)

const (
	usernameConstraint = "admin_users_username_key"
	emailConstraint    = "admin_users_email_key"
)

// AdminUserStore implements domain.AdminUserStore using PostgreSQL.
type AdminUserStore struct {
	repo repository.Querier
}

// Compile-time check to ensure AdminUserStore implements domain.AdminUserStore.
var _ domain.AdminUserStore = (*AdminUserStore)(nil)

// NewAdminUserStore creates a new AdminUserStore instance.
func NewAdminUserStore(repo repository.Querier) *AdminUserStore {
	return &AdminUserStore{repo: repo}
}

func (s *AdminUserStore) GetByID(ctx context.Context, id int64) (*domain.AdminUser, error) {
	row, err := s.repo.GetAdminUserByID(ctx, id)
	if err != nil {
		return nil, adminLookupError(err, "admin.get")
	}
	return mapRepoAdminToDomain(row), nil
}

func (s *AdminUserStore) GetByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	row, err := s.repo.GetAdminUserByUsername(ctx, username)
	if err != nil {
		return nil, adminLookupError(err, "admin.get_by_username")
	}
	return mapRepoAdminToDomain(row), nil
}

// Create inserts an admin and maps unique violations to the matching domain error.
func (s *AdminUserStore) Create(ctx context.Context, user domain.NewAdminUser) (*domain.AdminUser, error) {
	row, err := s.repo.CreateAdminUser(ctx, repository.CreateAdminUserParams{
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
	})
	if err != nil {
		switch {
		case isUniqueViolation(err, usernameConstraint):
			return nil, domain.ErrDuplicateUsername
		case isUniqueViolation(err, emailConstraint):
			return nil, domain.ErrDuplicateEmail
		}
		return nil, domain.Internal(err, "admin.create", "failed to create admin user")
	}
	return mapRepoAdminToDomain(row), nil
}

func (s *AdminUserStore) TouchLastLogin(ctx context.Context, id int64) error {
	if err := s.repo.UpdateAdminLastLogin(ctx, id); err != nil {
		return domain.Internal(err, "admin.touch_last_login", "failed to update last login")
	}
	return nil
}

func (s *AdminUserStore) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	err := s.repo.UpdateAdminPassword(ctx, repository.UpdateAdminPasswordParams{
		ID:           id,
		PasswordHash: passwordHash,
	})
	if err != nil {
		return domain.Internal(err, "admin.update_password", "failed to update password")
	}
	return nil
}

func adminLookupError(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrAdminNotFound
	}
	return domain.Internal(err, op, "failed to get admin user")
}

func mapRepoAdminToDomain(u repository.AdminUser) *domain.AdminUser {
	return &domain.AdminUser{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         domain.Role(u.Role),
		IsActive:     u.IsActive,
		CreatedAt:    timeFromPg(u.CreatedAt),
		LastLogin:    ptrTimeFromPg(u.LastLogin),
	}
}
