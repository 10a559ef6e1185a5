package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
	"github.com/Goodness-MArcel/oasis/internal/core/ports"
)

const (
	registerHashCost = 10
	resetHashCost    = 12
	resetTokenBytes  = 32
	resetTokenTTL    = time.Hour

	// attempts to create a user when a concurrent signup takes the same username
	usernameAttempts = 3
)

// AuthService implements the learner account lifecycle.
type AuthService struct {
	users  ports.UserRepository
	tokens *TokenService
	mailer ports.Mailer
	tasks  ports.TaskQueue
	appURL string
	log    zerolog.Logger
	now    func() time.Time
}

func NewAuthService(
	users ports.UserRepository,
	tokens *TokenService,
	mailer ports.Mailer,
	tasks ports.TaskQueue,
	appURL string,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		mailer: mailer,
		tasks:  tasks,
		appURL: strings.TrimRight(appURL, "/"),
		log:    log.With().Str("component", "auth").Logger(),
		now:    time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)

	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), registerHashCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	var created *domain.User
	for attempt := 1; ; attempt++ {
		username, err := UniqueUsername(ctx, s.users, in.FullName, in.Email)
		if err != nil {
			return nil, fmt.Errorf("register: %w", err)
		}

		created, err = s.users.Create(ctx, &domain.User{
			Username:     username,
			Email:        in.Email,
			PasswordHash: string(hash),
			Role:         domain.RoleStudent,
		})
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrUsernameTaken) && attempt < usernameAttempts {
			continue
		}
		return nil, err
	}

	s.tasks.Submit(newActivityTask(created.Email, domain.Activity{
		Type:        domain.ActivityUserSignup,
		Description: fmt.Sprintf("New user %s (%s) registered", created.Username, created.Email),
		Metadata: map[string]any{
			domain.ActivityUserIDKey: created.ID,
			"username":               created.Username,
			"email":                  created.Email,
		},
	}))
	s.tasks.Submit(newWelcomeTask(created.Email, in.FullName))

	s.log.Info().Uint("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	email = strings.TrimSpace(email)
	var problems []string
	if email == "" {
		problems = append(problems, "email is required")
	}
	if password == "" {
		problems = append(problems, "password is required")
	}
	if err := domain.NewValidationError(problems...); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(domain.ClaimsForUser(user), UserTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &ports.Session{Token: token, User: user}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, in ports.UpdateProfileInput) (*ports.Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Gender = strings.TrimSpace(in.Gender)

	var problems []string
	if in.Username == "" {
		problems = append(problems, "username is required")
	} else if utf8.RuneCountInString(in.Username) > domain.MaxUsernameLen {
		problems = append(problems, fmt.Sprintf("username must be at most %d characters", domain.MaxUsernameLen))
	}
	if in.Email == "" {
		problems = append(problems, "email is required")
	} else if !domain.ValidEmail(in.Email) {
		problems = append(problems, "email must be a valid email")
	}
	if utf8.RuneCountInString(in.Gender) > domain.MaxGenderLen {
		problems = append(problems, fmt.Sprintf("gender must be at most %d characters", domain.MaxGenderLen))
	}
	if err := domain.NewValidationError(problems...); err != nil {
		return nil, err
	}

	taken, err := s.users.EmailTakenByOther(ctx, in.Email, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if taken {
		return nil, domain.ErrEmailTaken
	}
	taken, err = s.users.UsernameTakenByOther(ctx, in.Username, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if taken {
		return nil, domain.ErrUsernameTaken
	}

	user, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	user.Username = in.Username
	user.Email = in.Email
	user.Gender = in.Gender
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(domain.ClaimsForUser(user), UserTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &ports.Session{Token: token, User: user}, nil
}

// ForgotPassword stores a fresh reset token and mails the link. An unknown
// email returns nil so callers cannot tell accounts apart.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if !domain.ValidEmail(email) {
		return domain.NewValidationError("email must be a valid email")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("forgot password: %w", err)
	}

	token, err := newResetToken()
	if err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}
	expires := s.now().Add(resetTokenTTL)
	user.ResetToken = token
	user.ResetTokenExpires = &expires
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}

	resetURL := s.appURL + "/reset-password/" + token
	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Username, resetURL); err != nil {
		if errors.Is(err, domain.ErrMailNotConfigured) {
			return err
		}
		s.log.Error().Err(err).Uint("user_id", user.ID).Msg("password reset email failed")
		return fmt.Errorf("%w: %v", domain.ErrMailDelivery, err)
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, in ports.ResetPasswordInput) error {
	var problems []string
	if strings.TrimSpace(in.Token) == "" {
		problems = append(problems, "reset token is required")
	}
	problems = append(problems, passwordProblems(in.Password, in.PasswordConfirm)...)
	if err := domain.NewValidationError(problems...); err != nil {
		return err
	}

	user, err := s.users.FindByResetToken(ctx, in.Token, s.now())
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidOrExpiredToken
		}
		return fmt.Errorf("reset password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), resetHashCost)
	if err != nil {
		return fmt.Errorf("reset password: hash: %w", err)
	}
	user.PasswordHash = string(hash)
	user.ResetToken = ""
	user.ResetTokenExpires = nil
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	s.log.Info().Uint("user_id", user.ID).Msg("password reset")
	return nil
}

func validateRegistration(in ports.RegisterInput) error {
	var problems []string
	if !domain.ValidEmail(in.Email) {
		problems = append(problems, "email must be a valid email")
	}
	problems = append(problems, passwordProblems(in.Password, in.PasswordConfirm)...)
	return domain.NewValidationError(problems...)
}

func passwordProblems(password, confirm string) []string {
	var problems []string
	if !domain.StrongPassword(password) {
		problems = append(problems, "password must be at least 8 characters and include letters, numbers, and special characters")
	}
	if password != confirm {
		problems = append(problems, "passwords do not match")
	}
	return problems
}

func newResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
