package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
	"github.com/Goodness-MArcel/oasis/internal/core/ports"
)

const adminHashCost = 10

// AdminAuthService authenticates admins and seeds the default account.
type AdminAuthService struct {
	admins ports.AdminRepository
	tokens *TokenService
	log    zerolog.Logger
}

func NewAdminAuthService(admins ports.AdminRepository, tokens *TokenService, log zerolog.Logger) *AdminAuthService {
	return &AdminAuthService{admins: admins, tokens: tokens, log: log.With().Str("component", "admin_auth").Logger()}
}

func (s *AdminAuthService) Login(ctx context.Context, email, password string) (string, *domain.Admin, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("admin login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		s.log.Warn().Str("email", email).Msg("admin login rejected")
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(domain.SessionClaims{
		UserID: admin.ID,
		Email:  admin.Email,
		Role:   domain.RoleAdmin,
	}, AdminTokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("admin login: %w", err)
	}
	return token, admin, nil
}

// EnsureAdmin creates the admin account for email unless it already exists.
func (s *AdminAuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	if _, err := s.admins.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrAdminNotFound) {
		return fmt.Errorf("seed admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), adminHashCost)
	if err != nil {
		return fmt.Errorf("seed admin: hash: %w", err)
	}
	if err := s.admins.Create(ctx, &domain.Admin{Email: email, PasswordHash: string(hash)}); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	s.log.Info().Str("email", email).Msg("default admin created")
	return nil
}
