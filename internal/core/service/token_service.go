package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
	"github.com/Goodness-MArcel/oasis/internal/core/ports"
)

const (
	UserTokenTTL  = 7 * 24 * time.Hour
	AdminTokenTTL = 24 * time.Hour
)

type tokenClaims struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role"`
	Gender   string `json:"gender,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 session tokens.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), now: time.Now}
}

// Issue signs claims with an expiry ttl from now.
func (s *TokenService) Issue(claims domain.SessionClaims, ttl time.Duration) (string, error) {
	now := s.now()
	tc := tokenClaims{
		ID:       claims.UserID,
		Email:    claims.Email,
		Username: claims.Username,
		Role:     claims.Role,
		Gender:   claims.Gender,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(claims.UserID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses token and returns its claims. Any failure yields ErrInvalidToken.
func (s *TokenService) Verify(token string) (*domain.SessionClaims, error) {
	var tc tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &tc, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	return &domain.SessionClaims{
		UserID:   tc.ID,
		Email:    tc.Email,
		Username: tc.Username,
		Role:     tc.Role,
		Gender:   tc.Gender,
	}, nil
}

// UniqueUsername derives a username and appends -1, -2, ... until no existing
// account holds it.
func UniqueUsername(ctx context.Context, users ports.UserRepository, fullName, email string) (string, error) {
	base := domain.DeriveUsername(fullName, email)
	candidate := base
	for n := 1; ; n++ {
		exists, err := users.UsernameExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check username: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate = domain.UsernameWithSuffix(base, n)
	}
}
