// Package postgres contains the PostgreSQL user store built on GORM.
package postgres

import (
	"context"

	"authgate/internal/domain/entity"
	"authgate/internal/domain/repository"
	"authgate/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByEmail retrieves the single user with the given email.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var users []model.UserModel

	// Two rows are enough to detect a broken uniqueness guarantee.
	err := repo.db.WithContext(ctx).
		Where("email = ?", email).
		Limit(2).
		Find(&users).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user by email")
	}

	switch len(users) {
	case 0:
		return nil, repository.ErrUserNotFound
	case 1:
		return toUserDomain(&users[0]), nil
	default:
		return nil, errors.WithStack(repository.ErrDuplicateEmail)
	}
}

// Create inserts the user. The unique index on email rejects duplicates.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)
	if userM.ID == uuid.Nil {
		userM.ID = uuid.New()
	}

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return errors.WithStack(repository.ErrEmailTaken)
		}

		return errors.Wrap(err, "failed to create user")
	}

	user.ID = userM.ID.String()
	user.CreatedAt = userM.CreatedAt

	return nil
}

func toUserDomain(m *model.UserModel) *entity.User {
	return &entity.User{
		ID:           m.ID.String(),
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
	}
}

func fromUserDomain(u *entity.User) *model.UserModel {
	m := &model.UserModel{
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
	if id, err := uuid.Parse(u.ID); err == nil {
		m.ID = id
	}

	return m
}
