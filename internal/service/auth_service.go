package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/anonrelay/internal/auth"
	"github.com/spec-kit/anonrelay/internal/config"
	"github.com/spec-kit/anonrelay/internal/repository"
	apperrors "github.com/spec-kit/anonrelay/pkg/util"
)

// AuthService authenticates administrators for the moderation console.
type AuthService struct {
	admins repository.AdminRepository
	tokens *auth.TokenManager
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, admins repository.AdminRepository) *AuthService {
	return &AuthService{
		admins: admins,
		tokens: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
	}
}

// Login verifies credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, adminID int64, password string) (string, time.Time, error) {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return "", time.Time{}, err
	}
	if auth.ComparePassword(admin.PasswordHash, password) != nil {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.tokens.GenerateToken(strconv.FormatInt(admin.ID, 10))
}

// TokenManager exposes the token manager for the auth middleware.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}
