package store

import (
	"context"
	"fmt"

	"github.com/soundfolio/soundfolio-server/internal/domain"
)

const userPrefix = "user:"

// User Operations

// CreateUser persists a new user account.
// The email index enforces uniqueness case-insensitively.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	if err := s.Users.Create(ctx, user.ID, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("user created", "id", user.ID, "email", user.Email, "role", user.Role)
	}

	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.Users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email address, case-insensitively.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.Users.GetByIndex(ctx, "email", email)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser updates an existing user account.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	user.Touch()

	if err := s.Users.Update(ctx, user.ID, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

// HasUsers reports whether any user account exists.
// Used by the setup flow to decide if the instance still needs its root admin.
func (s *Store) HasUsers(ctx context.Context) (bool, error) {
	for _, err := range s.Users.List(ctx) {
		if err != nil {
			return false, fmt.Errorf("check for users: %w", err)
		}
		return true, nil
	}
	return false, nil
}
