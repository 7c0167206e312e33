// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	"authgate/config"
	deliverycontext "authgate/internal/delivery/context"
	"authgate/internal/domain/constants"
	"authgate/internal/domain/entity"
	domainerrors "authgate/internal/domain/errors"
	"authgate/internal/domain/repository"
	"authgate/internal/domain/service"
	"authgate/internal/infra/validation"
	"authgate/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// credentialService implements the CredentialUsecase interface.
type credentialService struct {
	userRepo      repository.UserRepository
	hasher        service.PasswordHasher
	publisher     service.EventPublisher
	validate      *validator.Validate
	loginRedirect string
	logger        *slog.Logger
}

// CredentialServiceParams holds dependencies for CredentialService, injected by Fx.
type CredentialServiceParams struct {
	fx.In

	UserRepo  repository.UserRepository
	Hasher    service.PasswordHasher
	Publisher service.EventPublisher
	Config    *config.Config
	Logger    *slog.Logger
}

// NewCredentialService is the constructor for credentialService. It receives all dependencies as interfaces.
func NewCredentialService(params CredentialServiceParams) usecase.CredentialUsecase {
	loginRedirect := constants.DefaultLoginRedirect
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.LoginRedirect != "" {
		loginRedirect = params.Config.Auth.LoginRedirect
	}

	return &credentialService{
		userRepo:      params.UserRepo,
		hasher:        params.Hasher,
		publisher:     params.Publisher,
		validate:      validation.New(),
		loginRedirect: loginRedirect,
		logger:        params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *credentialService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register validates the input, rejects known emails, hashes the password
// and stores the new user.
func (srv *credentialService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	if err := srv.validateRegister(input); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	_, err := srv.userRepo.FindByEmail(ctx, input.Email)
	switch {
	case err == nil, errors.Is(err, repository.ErrDuplicateEmail):
		srv.log(ctx).Warn("Registration rejected, email already registered", slog.String("email", input.Email))

		return nil, domainerrors.ErrEmailAlreadyRegistered.WrapMessage("register")
	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, errors.Wrap(err, "failed to look up user by email")
	}

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	user := &entity.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: passwordHash,
	}

	if err := srv.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			// A concurrent signup for the same email won between lookup and insert.
			srv.log(ctx).Warn("Registration lost insert race", slog.String("email", input.Email))

			return nil, domainerrors.ErrEmailAlreadyRegistered.WrapMessage("register")
		}

		return nil, errors.Wrap(err, "failed to create user")
	}

	srv.log(ctx).Info("Registration completed", slog.String("userID", user.ID))
	srv.publishRegistered(ctx, user)

	return &usecase.RegisterOutput{Message: domainerrors.MsgUserRegistered}, nil
}

// Authenticate checks the credentials. Unknown emails and wrong passwords
// produce the same error.
func (srv *credentialService) Authenticate(ctx context.Context, input *usecase.AuthenticateInput) (*usecase.AuthenticateOutput, error) {
	if err := srv.validate.Struct(input); err != nil {
		return nil, domainerrors.NewValidationError(domainerrors.MsgLoginFieldsRequired)
	}

	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.String("reason", "unknown email"))

			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
		}
		if errors.Is(err, repository.ErrDuplicateEmail) {
			srv.log(ctx).Error("Login refused, email maps to several users", slog.String("email", input.Email))
		}

		return nil, errors.Wrap(err, "failed to look up user by email")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.String("reason", "password mismatch"))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	srv.log(ctx).Debug("User logged in", slog.String("userID", user.ID))

	return &usecase.AuthenticateOutput{
		Message:  domainerrors.MsgLoginSuccessful,
		Redirect: srv.loginRedirect,
	}, nil
}

// validateRegister reports the first failing rule: missing fields, then
// email shape, then password length.
func (srv *credentialService) validateRegister(input *usecase.RegisterInput) error {
	err := srv.validate.Struct(input)
	if err == nil {
		if len(input.Password) > maxPasswordBytes {
			return domainerrors.NewValidationError(domainerrors.MsgPasswordTooLong)
		}

		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(err, "validate register input")
	}

	failed := make(map[string]bool, len(fieldErrs))
	for _, fe := range fieldErrs {
		failed[fe.Tag()] = true
	}

	switch {
	case failed["required"]:
		return domainerrors.NewValidationError(domainerrors.MsgAllFieldsRequired)
	case failed[validation.TagBasicEmail]:
		return domainerrors.NewValidationError(domainerrors.MsgInvalidEmailFormat)
	case failed["min"]:
		return domainerrors.NewValidationError(domainerrors.MsgPasswordTooShort)
	default:
		return domainerrors.ErrValidationFailed
	}
}

// publishRegistered emits the registration event. The user is already stored,
// so a publish failure is logged and swallowed.
func (srv *credentialService) publishRegistered(ctx context.Context, user *entity.User) {
	if srv.publisher == nil {
		return
	}

	event := &service.UserRegisteredEvent{
		RequestID:    deliverycontext.GetRequestIDFromContext(ctx),
		UserID:       user.ID,
		Email:        user.Email,
		RegisteredAt: user.CreatedAt,
	}

	if err := srv.publisher.PublishUserRegistered(ctx, event); err != nil {
		srv.log(ctx).Error("Failed to publish registration event", slog.String("userID", user.ID), slog.Any("error", err))
	}
}
