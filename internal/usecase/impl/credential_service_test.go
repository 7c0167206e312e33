package impl

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"authgate/config"
	deliverycontext "authgate/internal/delivery/context"
	"authgate/internal/domain/entity"
	domainerrors "authgate/internal/domain/errors"
	"authgate/internal/domain/repository"
	"authgate/internal/domain/service"
	"authgate/internal/infra/auth"
	"authgate/internal/infra/persistence/memory"
	mockRepo "authgate/internal/mocks/repository"
	mockSvc "authgate/internal/mocks/service"
	"authgate/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// credentialServiceFixtures holds all test dependencies for credential service tests.
type credentialServiceFixtures struct {
	service   usecase.CredentialUsecase
	userRepo  *mockRepo.MockUserRepository
	hasher    *mockSvc.MockPasswordHasher
	publisher *mockSvc.MockEventPublisher
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createTestCredentialService(t *testing.T) credentialServiceFixtures {
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	publisher := mockSvc.NewMockEventPublisher(t)

	srv := NewCredentialService(CredentialServiceParams{
		UserRepo:  userRepo,
		Hasher:    hasher,
		Publisher: publisher,
		Config:    &config.Config{},
		Logger:    testLogger(),
	})

	return credentialServiceFixtures{
		service:   srv,
		userRepo:  userRepo,
		hasher:    hasher,
		publisher: publisher,
	}
}

// newMemoryCredentialService wires the service to the in-memory store and a
// real bcrypt hasher at the minimum cost.
func newMemoryCredentialService(t *testing.T) usecase.CredentialUsecase {
	t.Helper()

	publisher := mockSvc.NewMockEventPublisher(t)
	publisher.EXPECT().PublishUserRegistered(mock.Anything, mock.Anything).Return(nil).Maybe()

	return NewCredentialService(CredentialServiceParams{
		UserRepo:  memory.NewUserRepository(),
		Hasher:    auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		Publisher: publisher,
		Logger:    testLogger(),
	})
}

func requireAppError(t *testing.T, err error, want *domainerrors.BaseError, wantMessage string) {
	t.Helper()

	require.Error(t, err)
	assert.ErrorIs(t, err, want)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError in chain, got %v", err)
	assert.Equal(t, wantMessage, appErr.Message())
}

func TestCredentialService_Register_Success(t *testing.T) {
	fx := createTestCredentialService(t)

	ctx := deliverycontext.WithRequestID(context.Background(), "req-42")
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	input := &usecase.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"}

	fx.userRepo.EXPECT().FindByEmail(ctx, "a@x.com").Return(nil, repository.ErrUserNotFound).Once()
	fx.hasher.EXPECT().Hash("secret1").Return("hashed", nil).Once()
	fx.userRepo.EXPECT().
		Create(ctx, mock.MatchedBy(func(u *entity.User) bool {
			return u.Name == "A" && u.Email == "a@x.com" && u.PasswordHash == "hashed"
		})).
		Run(func(_ context.Context, u *entity.User) {
			u.ID = "user-1"
			u.CreatedAt = createdAt
		}).
		Return(nil).Once()
	fx.publisher.EXPECT().
		PublishUserRegistered(ctx, &service.UserRegisteredEvent{
			RequestID:    "req-42",
			UserID:       "user-1",
			Email:        "a@x.com",
			RegisteredAt: createdAt,
		}).
		Return(nil).Once()

	out, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, domainerrors.MsgUserRegistered, out.Message)
}

func TestCredentialService_Register_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.RegisterInput
		message string
	}{
		{"missing name", usecase.RegisterInput{Email: "a@x.com", Password: "secret1"}, domainerrors.MsgAllFieldsRequired},
		{"missing email", usecase.RegisterInput{Name: "A", Password: "secret1"}, domainerrors.MsgAllFieldsRequired},
		{"missing password", usecase.RegisterInput{Name: "A", Email: "a@x.com"}, domainerrors.MsgAllFieldsRequired},
		{"missing field wins over bad email", usecase.RegisterInput{Email: "bad", Password: "abc"}, domainerrors.MsgAllFieldsRequired},
		{"bad email", usecase.RegisterInput{Name: "A", Email: "not-an-email", Password: "secret1"}, domainerrors.MsgInvalidEmailFormat},
		{"email with space", usecase.RegisterInput{Name: "A", Email: "a b@x.com", Password: "secret1"}, domainerrors.MsgInvalidEmailFormat},
		{"bad email wins over short password", usecase.RegisterInput{Name: "A", Email: "a@x", Password: "abc"}, domainerrors.MsgInvalidEmailFormat},
		{"short password", usecase.RegisterInput{Name: "A", Email: "a@x.com", Password: "abc"}, domainerrors.MsgPasswordTooShort},
		{"long password", usecase.RegisterInput{Name: "A", Email: "a@x.com", Password: strings.Repeat("p", 73)}, domainerrors.MsgPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestCredentialService(t)

			out, err := fx.service.Register(context.Background(), &tt.input)

			assert.Nil(t, out)
			requireAppError(t, err, domainerrors.ErrValidationFailed, tt.message)
		})
	}
}

func TestCredentialService_Register_PasswordLengthCountsCharacters(t *testing.T) {
	fx := createTestCredentialService(t)
	ctx := context.Background()

	// Six characters, twelve bytes.
	password := "éééééé"
	fx.userRepo.EXPECT().FindByEmail(ctx, "a@x.com").Return(nil, repository.ErrUserNotFound).Once()
	fx.hasher.EXPECT().Hash(password).Return("hashed", nil).Once()
	fx.userRepo.EXPECT().Create(ctx, mock.Anything).Return(nil).Once()
	fx.publisher.EXPECT().PublishUserRegistered(ctx, mock.Anything).Return(nil).Once()

	_, err := fx.service.Register(ctx, &usecase.RegisterInput{Name: "A", Email: "a@x.com", Password: password})

	require.NoError(t, err)
}

func TestCredentialService_Register_EmailExists(t *testing.T) {
	fx := createTestCredentialService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByEmail(ctx, "a@x.com").Return(&entity.User{ID: "u1", Email: "a@x.com"}, nil).Once()

	out, err := fx.service.Register(ctx, &usecase.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})

	assert.Nil(t, out)
	requireAppError(t, err, domainerrors.ErrEmailAlreadyRegistered, domainerrors.MsgEmailAlreadyExists)
}

func TestCredentialService_Register_DuplicateRecords(t *testing.T) {
	fx := createTestCredentialService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByEmail(ctx, "a@x.com").Return(nil, errors.WithStack(repository.ErrDuplicateEmail)).Once()

	_, err := fx.service.Register(ctx, &usecase.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})

	requireAppError(t, err, domainerrors.ErrEmailAlreadyRegistered, domainerrors.MsgEmailAlreadyExists)
}

func TestCredentialService_Register_LostInsertRace(t *testing.T) {
	fx := createTestCredentialService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByEmail(ctx, "a@x.com").Return(nil, repository.ErrUserNotFound).Once()
	fx.hasher.EXPECT().Hash("secret1").Return("hashed", nil).Once()
	fx.userRepo.EXPECT().Create(ctx, mock.Anything).Return(errors.WithStack(repository.ErrEmailTaken)).Once()

	_, err := fx.service.Register(ctx, &usecase.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})

	requireAppError(t, err, domainerrors.ErrEmailAlreadyRegistered, domainerrors.MsgEmailAlreadyExists)
}

func TestCredentialService_Register_StoreFailures(t *testing.T) {
	storeErr := errors.New("connection reset")

	t.Run("lookup", func(t *testing.T) {
		fx := createTestCredentialService(t)
		ctx := context.Background()

		fx.userRepo.EXPECT().FindByEmail(ctx, "a@x.com").Return(nil, storeErr).Once()

		_, err := fx.service.Register(ctx, &usecase.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})

		require.ErrorIs(t, err, storeErr)
		var appErr domainerrors.AppError
		assert.False(t, errors.As(err, &appErr))
	})

	t.Run("hash", func(t *testing.T) {
		fx := createTestCredentialService(t)
		ctx := context.Background()

		fx.userRepo.EXPECT().FindByEmail(ctx, "a@x.com").Return(nil, repository.ErrUserNotFound).Once()
		fx.hasher.EXPECT().Hash("secret1").Return("", storeErr).Once()

		_, err := fx.service.Register(ctx, &usecase.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})

		require.ErrorIs(t, err, storeErr)
	})

	t.Run("insert", func(t *testing.T) {
		fx := createTestCredentialService(t)
		ctx := context.Background()

		fx.userRepo.EXPECT().FindByEmail(ctx, "a@x.com").Return(nil, repository.ErrUserNotFound).Once()
		fx.hasher.EXPECT().Hash("secret1").Return("hashed", nil).Once()
		fx.userRepo.EXPECT().Create(ctx, mock.Anything).Return(storeErr).Once()

		_, err := fx.service.Register(ctx, &usecase.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})

		require.ErrorIs(t, err, storeErr)
	})
}

func TestCredentialService_Register_PublishFailureIsIgnored(t *testing.T) {
	fx := createTestCredentialService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByEmail(ctx, "a@x.com").Return(nil, repository.ErrUserNotFound).Once()
	fx.hasher.EXPECT().Hash("secret1").Return("hashed", nil).Once()
	fx.userRepo.EXPECT().Create(ctx, mock.Anything).Return(nil).Once()
	fx.publisher.EXPECT().PublishUserRegistered(ctx, mock.Anything).Return(errors.New("broker down")).Once()

	out, err := fx.service.Register(ctx, &usecase.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})

	require.NoError(t, err)
	assert.Equal(t, domainerrors.MsgUserRegistered, out.Message)
}

func TestCredentialService_Register_EventOmitsPassword(t *testing.T) {
	fx := createTestCredentialService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByEmail(ctx, "a@x.com").Return(nil, repository.ErrUserNotFound).Once()
	fx.hasher.EXPECT().Hash("secret1").Return("hashed", nil).Once()
	fx.userRepo.EXPECT().Create(ctx, mock.Anything).Return(nil).Once()
	fx.publisher.EXPECT().
		PublishUserRegistered(ctx, mock.Anything).
		Run(func(_ context.Context, event *service.UserRegisteredEvent) {
			assert.Equal(t, "a@x.com", event.Email)
			assert.Empty(t, event.RequestID)
		}).
		Return(nil).Once()

	_, err := fx.service.Register(ctx, &usecase.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})

	require.NoError(t, err)
}

func TestCredentialService_Authenticate_Success(t *testing.T) {
	fx := createTestCredentialService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByEmail(ctx, "a@x.com").Return(&entity.User{ID: "u1", Email: "a@x.com", PasswordHash: "hashed"}, nil).Once()
	fx.hasher.EXPECT().Check("secret1", "hashed").Return(true).Once()

	out, err := fx.service.Authenticate(ctx, &usecase.AuthenticateInput{Email: "a@x.com", Password: "secret1"})

	require.NoError(t, err)
	assert.Equal(t, domainerrors.MsgLoginSuccessful, out.Message)
	assert.Equal(t, "/dashboard.html", out.Redirect)
}

func TestCredentialService_Authenticate_ConfiguredRedirect(t *testing.T) {
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	srv := NewCredentialService(CredentialServiceParams{
		UserRepo:  userRepo,
		Hasher:    hasher,
		Publisher: mockSvc.NewMockEventPublisher(t),
		Config:    &config.Config{Auth: &config.AuthConfig{LoginRedirect: "/home"}},
		Logger:    testLogger(),
	})
	ctx := context.Background()

	userRepo.EXPECT().FindByEmail(ctx, "a@x.com").Return(&entity.User{PasswordHash: "hashed"}, nil).Once()
	hasher.EXPECT().Check("secret1", "hashed").Return(true).Once()

	out, err := srv.Authenticate(ctx, &usecase.AuthenticateInput{Email: "a@x.com", Password: "secret1"})

	require.NoError(t, err)
	assert.Equal(t, "/home", out.Redirect)
}

func TestCredentialService_Authenticate_MissingFields(t *testing.T) {
	inputs := []usecase.AuthenticateInput{
		{},
		{Email: "a@x.com"},
		{Password: "secret1"},
	}

	for _, input := range inputs {
		fx := createTestCredentialService(t)

		_, err := fx.service.Authenticate(context.Background(), &input)

		requireAppError(t, err, domainerrors.ErrValidationFailed, domainerrors.MsgLoginFieldsRequired)
	}
}

func TestCredentialService_Authenticate_UnknownEmail(t *testing.T) {
	fx := createTestCredentialService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByEmail(ctx, "nobody@x.com").Return(nil, repository.ErrUserNotFound).Once()

	_, err := fx.service.Authenticate(ctx, &usecase.AuthenticateInput{Email: "nobody@x.com", Password: "secret1"})

	requireAppError(t, err, domainerrors.ErrInvalidCredentials, domainerrors.MsgInvalidCredentials)
}

func TestCredentialService_Authenticate_WrongPassword(t *testing.T) {
	fx := createTestCredentialService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByEmail(ctx, "a@x.com").Return(&entity.User{PasswordHash: "hashed"}, nil).Once()
	fx.hasher.EXPECT().Check("wrong", "hashed").Return(false).Once()

	_, err := fx.service.Authenticate(ctx, &usecase.AuthenticateInput{Email: "a@x.com", Password: "wrong"})

	requireAppError(t, err, domainerrors.ErrInvalidCredentials, domainerrors.MsgInvalidCredentials)
}

func TestCredentialService_Authenticate_DuplicateRecords(t *testing.T) {
	fx := createTestCredentialService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByEmail(ctx, "a@x.com").Return(nil, errors.WithStack(repository.ErrDuplicateEmail)).Once()

	_, err := fx.service.Authenticate(ctx, &usecase.AuthenticateInput{Email: "a@x.com", Password: "secret1"})

	require.ErrorIs(t, err, repository.ErrDuplicateEmail)
	var appErr domainerrors.AppError
	assert.False(t, errors.As(err, &appErr), "duplicate records must surface as an unexpected error")
}

func TestCredentialService_MemoryStore_Flow(t *testing.T) {
	srv := newMemoryCredentialService(t)
	ctx := context.Background()

	out, err := srv.Register(ctx, &usecase.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, domainerrors.MsgUserRegistered, out.Message)

	_, err = srv.Register(ctx, &usecase.RegisterInput{Name: "B", Email: "a@x.com", Password: "another1"})
	requireAppError(t, err, domainerrors.ErrEmailAlreadyRegistered, domainerrors.MsgEmailAlreadyExists)

	login, err := srv.Authenticate(ctx, &usecase.AuthenticateInput{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "/dashboard.html", login.Redirect)

	// The second signup must not have replaced the stored password.
	_, err = srv.Authenticate(ctx, &usecase.AuthenticateInput{Email: "a@x.com", Password: "another1"})
	requireAppError(t, err, domainerrors.ErrInvalidCredentials, domainerrors.MsgInvalidCredentials)

	_, err = srv.Authenticate(ctx, &usecase.AuthenticateInput{Email: "a@x.com", Password: "wrong"})
	requireAppError(t, err, domainerrors.ErrInvalidCredentials, domainerrors.MsgInvalidCredentials)

	_, err = srv.Authenticate(ctx, &usecase.AuthenticateInput{Email: "b@x.com", Password: "secret1"})
	requireAppError(t, err, domainerrors.ErrInvalidCredentials, domainerrors.MsgInvalidCredentials)
}

func TestCredentialService_MemoryStore_ConcurrentRegister(t *testing.T) {
	srv := newMemoryCredentialService(t)
	ctx := context.Background()

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := srv.Register(ctx, &usecase.RegisterInput{Name: "A", Email: "race@x.com", Password: "secret1"})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domainerrors.ErrEmailAlreadyRegistered):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
}
