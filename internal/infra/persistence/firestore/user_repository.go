// Package firestore stores users in Cloud Firestore.
//
// Each user lives in the users collection under an auto-generated ID. Email
// uniqueness is held by a guard document in the email index collection whose
// ID is derived from the email; both are written in one transaction.
package firestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"authgate/config"
	"authgate/internal/domain/entity"
	"authgate/internal/domain/repository"
	"authgate/internal/errors"

	firestoreLib "cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type userDocument struct {
	Name      string    `firestore:"name"`
	Email     string    `firestore:"email"`
	Password  string    `firestore:"password"`
	CreatedAt time.Time `firestore:"createdAt,serverTimestamp"`
}

type emailGuardDocument struct {
	UserID    string    `firestore:"userId"`
	Email     string    `firestore:"email"`
	CreatedAt time.Time `firestore:"createdAt,serverTimestamp"`
}

type userRepository struct {
	client          *firestoreLib.Client
	usersCollection string
	emailCollection string
}

// NewUserRepository creates a Firestore-backed user repository.
func NewUserRepository(client *firestoreLib.Client, cfg *config.FirebaseConfig) repository.UserRepository {
	return &userRepository{
		client:          client,
		usersCollection: cfg.UsersCollection,
		emailCollection: cfg.EmailIndexCollection,
	}
}

// FindByEmail runs an equality query on email. Two matches are requested so
// that duplicates written outside this service are detected.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	snaps, err := repo.client.Collection(repo.usersCollection).
		Where("email", "==", email).
		Limit(2).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to query users by email")
	}

	switch len(snaps) {
	case 0:
		return nil, repository.ErrUserNotFound
	case 1:
	default:
		return nil, errors.WithStack(repository.ErrDuplicateEmail)
	}

	var doc userDocument
	if err := snaps[0].DataTo(&doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode user document")
	}

	return toEntity(snaps[0].Ref.ID, &doc), nil
}

// Create writes the email guard and the user document atomically. A guard
// that already exists makes the transaction fail with AlreadyExists.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userRef := repo.client.Collection(repo.usersCollection).NewDoc()
	guardRef := repo.client.Collection(repo.emailCollection).Doc(emailKey(user.Email))

	err := repo.client.RunTransaction(ctx, func(_ context.Context, tx *firestoreLib.Transaction) error {
		if err := tx.Create(guardRef, &emailGuardDocument{
			UserID: userRef.ID,
			Email:  user.Email,
		}); err != nil {
			return err
		}

		return tx.Create(userRef, &userDocument{
			Name:     user.Name,
			Email:    user.Email,
			Password: user.PasswordHash,
		})
	})
	if err != nil {
		if isEmailGuardConflict(err) {
			return errors.WithStack(repository.ErrEmailTaken)
		}

		return errors.Wrap(err, "failed to create user")
	}

	// The stored timestamp is assigned by the server; this is the local approximation.
	user.ID = userRef.ID
	user.CreatedAt = time.Now().UTC()

	return nil
}

// isEmailGuardConflict reports whether a commit failed because the email
// guard document already exists.
func isEmailGuardConflict(err error) bool {
	var grpcErr interface{ GRPCStatus() *status.Status }
	if errors.As(err, &grpcErr) {
		return grpcErr.GRPCStatus().Code() == codes.AlreadyExists
	}

	return false
}

// emailKey maps an email to a document ID. Raw emails may contain "/" which
// is not allowed in Firestore IDs.
func emailKey(email string) string {
	sum := sha256.Sum256([]byte(email))

	return hex.EncodeToString(sum[:])
}

func toEntity(id string, doc *userDocument) *entity.User {
	return &entity.User{
		ID:           id,
		Name:         doc.Name,
		Email:        doc.Email,
		PasswordHash: doc.Password,
		CreatedAt:    doc.CreatedAt,
	}
}
