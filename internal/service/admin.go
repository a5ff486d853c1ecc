package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dukerupert/airshop/internal/auth"
	"github.com/dukerupert/airshop/internal/domain"
	"github.com/dukerupert/airshop/internal/telemetry"
)

// AdminService implements domain.AdminService.
type AdminService struct {
	store    domain.AdminUserStore
	issuer   *auth.TokenIssuer
	validate *Validator
	logger   *slog.Logger
}

var _ domain.AdminService = (*AdminService)(nil)

// NewAdminService creates an admin account service.
func NewAdminService(store domain.AdminUserStore, issuer *auth.TokenIssuer, logger *slog.Logger) *AdminService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminService{
		store:    store,
		issuer:   issuer,
		validate: NewValidator(),
		logger:   logger,
	}
}

// Login checks the credentials and issues an access token.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *AdminService) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	const op = "admin.login"

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.Invalid(op, "Username and password are required")
	}

	user, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			auth.CompareDummy(password)
			telemetry.Business.RecordLogin("invalid")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.InfoContext(ctx, "admin login rejected", "username", username)
			telemetry.Business.RecordLogin("invalid")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, domain.Internal(err, op, "failed to verify password")
	}

	if !user.IsActive {
		telemetry.Business.RecordLogin("disabled")
		return nil, domain.ErrAccountDisabled
	}

	if err := s.store.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.WarnContext(ctx, "failed to record last login", "error", err, "user_id", user.ID)
	}

	token, expiresAt, err := s.issuer.Issue(user)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to issue token")
	}

	s.logger.InfoContext(ctx, "admin logged in", "user_id", user.ID, "role", user.Role)
	telemetry.Business.RecordLogin("success")

	return &domain.LoginResult{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// Authenticate parses an access token.
func (s *AdminService) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	principal, err := s.issuer.Parse(token)
	if err != nil {
		return nil, domain.Unauthorized("admin.authenticate", "Invalid or expired token")
	}
	return principal, nil
}

// Verify reloads the account behind the principal so a disabled or deleted
// account stops working before its token expires.
func (s *AdminService) Verify(ctx context.Context, principal *domain.Principal) (*domain.AdminUser, error) {
	if principal == nil {
		return nil, domain.Unauthorized("admin.verify", "Authentication required")
	}

	user, err := s.store.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrAccountDisabled
	}
	return user, nil
}

// Register creates a new admin account.
func (s *AdminService) Register(ctx context.Context, principal *domain.Principal, req domain.RegisterAdminRequest) (*domain.AdminUser, error) {
	const op = "admin.register"

	if err := auth.Authorize(principal, auth.CapAdminsManage); err != nil {
		return nil, err
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validate.Struct(op, req); err != nil {
		return nil, err
	}
	if req.Role == "" {
		req.Role = domain.RoleAdmin
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, passwordError(op, "password", err)
	}

	user, err := s.store.Create(ctx, domain.NewAdminUser{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "admin registered",
		"user_id", user.ID,
		"role", user.Role,
		"registered_by", principal.UserID,
	)
	return user, nil
}

// ChangePassword replaces the caller's password after checking the old one.
func (s *AdminService) ChangePassword(ctx context.Context, principal *domain.Principal, req domain.ChangePasswordRequest) error {
	const op = "admin.change_password"

	if principal == nil {
		return domain.Unauthorized(op, "Authentication required")
	}
	if err := s.validate.Struct(op, req); err != nil {
		return err
	}

	user, err := s.store.GetByID(ctx, principal.UserID)
	if err != nil {
		return err
	}

	if err := auth.VerifyPassword(req.OldPassword, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return domain.Unauthorized(op, "Invalid old password")
		}
		return domain.Internal(err, op, "failed to verify password")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return passwordError(op, "new_password", err)
	}

	if err := s.store.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "admin password changed", "user_id", user.ID)
	return nil
}

func passwordError(op, field string, err error) error {
	switch {
	case errors.Is(err, auth.ErrPasswordTooShort):
		return domain.NewValidationError(op, field, "must be at least 8 characters")
	case errors.Is(err, auth.ErrPasswordTooLong):
		return domain.NewValidationError(op, field, "must be at most 72 bytes")
	default:
		return domain.Internal(err, op, "failed to hash password")
	}
}
