// Package bootstrap handles one-time initialization tasks for the application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukerupert/airshop/internal/auth"
	"github.com/dukerupert/airshop/internal/domain"
)

// AdminConfig contains configuration for the initial superadmin.
type AdminConfig struct {
	Username string
	Email    string
	Password string
}

// Validate checks that the admin configuration is valid.
func (c *AdminConfig) Validate() error {
	if c.Username == "" {
		return errors.New("admin username is required")
	}
	if c.Email == "" {
		return errors.New("admin email is required")
	}
	if len(c.Password) < 12 {
		return errors.New("admin password must be at least 12 characters")
	}
	return nil
}

// EnsureSuperadmin creates the initial superadmin if it doesn't exist.
// It is idempotent and safe to call on every startup.
//
// A nil config, or one without username or password, skips creation with
// a warning so development databases can run without an account.
func EnsureSuperadmin(ctx context.Context, store domain.AdminUserStore, cfg *AdminConfig, logger *slog.Logger) error {
	if cfg == nil || cfg.Username == "" || cfg.Password == "" {
		logger.Warn("bootstrap: skipping superadmin creation - ADMIN_USERNAME or ADMIN_PASSWORD not set")
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid admin configuration: %w", err)
	}

	existing, err := store.GetByUsername(ctx, cfg.Username)
	if err == nil {
		logger.Info("bootstrap: superadmin already exists",
			"username", existing.Username,
		)
		return nil
	}
	if !errors.Is(err, domain.ErrAdminNotFound) {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}

	passwordHash, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	user, err := store.Create(ctx, domain.NewAdminUser{
		Username:     cfg.Username,
		Email:        cfg.Email,
		PasswordHash: passwordHash,
		Role:         domain.RoleSuperadmin,
	})
	if errors.Is(err, domain.ErrDuplicateUsername) {
		// Another instance won the race
		logger.Info("bootstrap: superadmin already exists (concurrent creation)",
			"username", cfg.Username,
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("bootstrap: superadmin created",
		"username", user.Username,
		"user_id", user.ID,
	)

	return nil
}
