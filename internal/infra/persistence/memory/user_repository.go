// Package memory is a process-local user store for development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"authgate/internal/domain/entity"
	"authgate/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type userRepository struct {
	mu      sync.RWMutex
	byEmail map[string]entity.User
	now     func() time.Time
}

// NewUserRepository returns an empty in-memory user store.
func NewUserRepository() repository.UserRepository {
	return &userRepository{
		byEmail: make(map[string]entity.User),
		now:     time.Now,
	}
}

// FindByEmail returns a copy of the stored user.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()

	user, ok := repo.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return &user, nil
}

// Create stores the user unless the email is already present.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, exists := repo.byEmail[user.Email]; exists {
		return errors.WithStack(repository.ErrEmailTaken)
	}

	user.ID = uuid.NewString()
	user.CreatedAt = repo.now().UTC()
	repo.byEmail[user.Email] = *user

	return nil
}
