// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import "context"

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user.
type RegisterInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,basic_email"`
	Password string `validate:"required,min=6"`
}

// AuthenticateInput defines the data required for a user to log in.
type AuthenticateInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// --- Output DTOs ---

// RegisterOutput confirms a completed registration.
type RegisterOutput struct {
	Message string
}

// AuthenticateOutput carries the post-login redirect target.
type AuthenticateOutput struct {
	Message  string
	Redirect string
}

// CredentialUsecase defines user registration and authentication.
// This is the contract that the delivery layer depends on.
type CredentialUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
	Authenticate(ctx context.Context, input *AuthenticateInput) (*AuthenticateOutput, error)
}
