package db

import (
	"context"
	"errors"

	"github.com/geocoder89/sharedfeed/internal/config"
	"github.com/geocoder89/sharedfeed/internal/domain/user"
	"github.com/geocoder89/sharedfeed/internal/security"
)

// UserSeeder is the slice of a user store needed to seed an account.
type UserSeeder interface {
	FindByPassword(ctx context.Context, password string) (user.User, error)
	Insert(ctx context.Context, name, password string) (user.User, error)
}

// EnsureSeedUser creates the configured seed account unless a user with the
// same password already exists.
func EnsureSeedUser(ctx context.Context, users UserSeeder, enc security.PasswordEncoder, cfg config.Config) error {
	if cfg.SeedUserName == "" || cfg.SeedUserPassword == "" {
		return nil
	}

	stored := enc.Encode(cfg.SeedUserPassword)

	_, err := users.FindByPassword(ctx, stored)
	if err == nil {
		return nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		return err
	}

	_, err = users.Insert(ctx, cfg.SeedUserName, stored)
	if errors.Is(err, user.ErrDuplicatePassword) {
		return nil
	}
	return err
}
