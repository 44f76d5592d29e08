package auth

import (
	"errors"
	"fmt"

	"case-management-tool/models"
)

// SeedAdmin creates the default admin account if no user with that name
// exists yet, so a fresh deployment is reachable before any users are
// created through the API.
func SeedAdmin(repo models.Repository, password, email string) error {
	_, err := repo.GetUserByUsername("admin")
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Username:     "admin",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Email:        email,
	}
	if err := repo.CreateUser(admin); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	return nil
}
