// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the use cases and the infrastructure layer.
package repository

import (
	"context"

	"authgate/internal/domain/entity"
	"authgate/internal/errors"
)

var (
	// ErrUserNotFound is returned when no user has the requested email.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned by Create when the email is already registered.
	ErrEmailTaken = errors.New("email already taken")

	// ErrDuplicateEmail is returned by lookups that find more than one user
	// for a single email, which means the uniqueness guarantee was broken.
	ErrDuplicateEmail = errors.New("multiple users share one email")
)

// UserRepository defines the operations the credential flow needs from a user store.
type UserRepository interface {
	// FindByEmail retrieves the single user registered with email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create persists a new user if and only if no user has the same email.
	// The check and the insert are atomic. On success user.ID and
	// user.CreatedAt are filled in.
	Create(ctx context.Context, user *entity.User) error
}
