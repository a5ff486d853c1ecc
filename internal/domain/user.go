package domain

import (
	"context"
	"time"
)

// =============================================================================
// ADMIN USER DOMAIN TYPES
// =============================================================================

// Role is the privilege level of an admin account.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

// Admin user errors.
var (
	ErrAdminNotFound      = &Error{Code: ENOTFOUND, Message: "User not found"}
	ErrDuplicateUsername  = &Error{Code: ECONFLICT, Message: "Username already exists"}
	ErrDuplicateEmail     = &Error{Code: ECONFLICT, Message: "Email already exists"}
	ErrInvalidCredentials = &Error{Code: EUNAUTHORIZED, Message: "Invalid username or password"}
	ErrAccountDisabled    = &Error{Code: EFORBIDDEN, Message: "Account is disabled"}
)

// AdminUser is a back-office account.
type AdminUser struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLogin    *time.Time `json:"lastLogin"`
}

// Principal is the authenticated caller extracted from an access token.
type Principal struct {
	UserID   int64
	Username string
	Role     Role
}

// NewAdminUser holds the fields required to create an admin account.
type NewAdminUser struct {
	Username     string
	Email        string
	PasswordHash string
	Role         Role
}

// RegisterAdminRequest is the body of an admin registration call.
type RegisterAdminRequest struct {
	Username string `json:"username" validate:"required,max=80"`
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required,min=8"`
	Role     Role   `json:"role" validate:"omitempty,oneof=admin superadmin"`
}

// ChangePasswordRequest is the body of a password change call.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	AccessToken string     `json:"access_token"`
	ExpiresAt   time.Time  `json:"expires_at"`
	User        *AdminUser `json:"user"`
}

// =============================================================================
// STORE AND SERVICE INTERFACES
// =============================================================================

// AdminUserStore persists admin accounts.
type AdminUserStore interface {
	GetByID(ctx context.Context, id int64) (*AdminUser, error)
	GetByUsername(ctx context.Context, username string) (*AdminUser, error)

	// Create returns ErrDuplicateUsername or ErrDuplicateEmail on conflicts.
	Create(ctx context.Context, user NewAdminUser) (*AdminUser, error)

	TouchLastLogin(ctx context.Context, id int64) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// AdminService authenticates and manages admin accounts.
type AdminService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)

	// Authenticate resolves an access token into a principal.
	Authenticate(ctx context.Context, token string) (*Principal, error)

	// Verify returns the current account behind the principal.
	Verify(ctx context.Context, principal *Principal) (*AdminUser, error)

	// Register creates a new admin. Requires the admins:manage capability.
	Register(ctx context.Context, principal *Principal, req RegisterAdminRequest) (*AdminUser, error)

	ChangePassword(ctx context.Context, principal *Principal, req ChangePasswordRequest) error
}
