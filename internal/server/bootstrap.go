package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jobmaroc/jobboard/internal/auth"
	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/session"
	"github.com/jobmaroc/jobboard/internal/storage"
)

// EnsureAdmin creates an accepted administrator for email when no account
// uses it yet. Empty credentials skip the bootstrap. An existing account is
// left untouched, whatever its role.
func EnsureAdmin(ctx context.Context, store storage.UserStore, email, password string, logger *zap.SugaredLogger) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil
	}
	if _, err := store.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}
	if err := auth.ValidatePassword(password); err != nil {
		return fmt.Errorf("admin password: %w", err)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	user, err := store.CreateUser(ctx, models.User{
		Email:        email,
		FirstName:    "Admin",
		Role:         session.RoleAdmin,
		Status:       models.StatusAccepted,
		PasswordHash: hash,
	}, nil)
	if errors.Is(err, storage.ErrAlreadyExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	if logger != nil {
		logger.Infow("created bootstrap administrator", "email", user.Email, "id", user.ID)
	}
	return nil
}
