package domain

import (
	"errors"
	"strings"
)

var (
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrInvalidToken          = errors.New("invalid or expired session token")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired reset token")
	ErrForbidden             = errors.New("access forbidden")

	ErrUserNotFound     = errors.New("user not found")
	ErrAdminNotFound    = errors.New("admin not found")
	ErrDuplicateEmail   = errors.New("an account with this email already exists")
	ErrEmailTaken       = errors.New("that email is already in use by another account")
	ErrUsernameTaken    = errors.New("that username is already in use by another account")
	ErrDeletionFailed   = errors.New("failed to delete user")
	ErrCourseNotFound   = errors.New("course not found")
	ErrAlreadyEnrolled  = errors.New("already enrolled in this course")
	ErrMeetingNotFound  = errors.New("meeting not found")
	ErrUnsupportedImage = errors.New("unsupported image format, use JPG, PNG or WebP")

	ErrMailNotConfigured = errors.New("email service is not configured")
	ErrMailDelivery      = errors.New("failed to send email")
)

// ValidationError collects every problem found in a single input.
type ValidationError struct {
	Problems []string
}

// NewValidationError returns nil when problems is empty.
func NewValidationError(problems ...string) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
