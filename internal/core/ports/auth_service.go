package ports

import (
	"context"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
)

// RegisterInput is the signup form.
type RegisterInput struct {
	FullName        string
	Email           string
	Password        string
	PasswordConfirm string
}

// UpdateProfileInput carries the editable profile fields.
type UpdateProfileInput struct {
	UserID   uint
	Username string
	Email    string
	Gender   string
}

// ResetPasswordInput completes a password reset.
type ResetPasswordInput struct {
	Token           string
	Password        string
	PasswordConfirm string
}

// Session is a freshly issued token and the principal it identifies.
type Session struct {
	Token string
	User  *domain.User
}

// AuthService covers the learner account lifecycle.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Profile(ctx context.Context, userID uint) (*domain.User, error)
	UpdateProfile(ctx context.Context, in UpdateProfileInput) (*Session, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, in ResetPasswordInput) error
}

// AdminAuthService authenticates back-office principals.
type AdminAuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.Admin, error)
}
