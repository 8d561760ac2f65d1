package identity

import (
	"context"
	"log/slog"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/mwalkowski/travel-notes/pkg/errors"
)

// Config holds access-token validation settings.
type Config struct {
	Secret string
}

// User is the authenticated identity attached to a request.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Service resolves request credentials to an identity. The wider account
// lifecycle (registration, login, refresh) lives in the external identity
// provider; this service only validates the access tokens it issues.
type Service interface {
	Resolve(ctx context.Context, token string) (User, error)
}

type service struct {
	cfg    Config
	logger *slog.Logger
}

// NewService constructs a Service instance.
func NewService(cfg Config, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		logger: logger.With("component", "identity.service"),
	}
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (s *service) Resolve(_ context.Context, token string) (User, error) {
	if strings.TrimSpace(s.cfg.Secret) == "" {
		return User{}, apperrors.Wrap("config_error", "auth secret is not configured", nil)
	}
	if strings.TrimSpace(token) == "" {
		return User{}, apperrors.Wrap("invalid_token", "token missing", nil)
	}

	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return User{}, apperrors.Wrap("invalid_token", "token rejected", err)
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return User{}, apperrors.Wrap("invalid_token", "token claims invalid", nil)
	}

	return User{ID: claims.Subject, Email: claims.Email}, nil
}
