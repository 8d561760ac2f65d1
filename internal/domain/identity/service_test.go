package identity

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mwalkowski/travel-notes/pkg/errors"
)

const testSecret = "unit-test-secret"

func TestResolveValidToken(t *testing.T) {
	svc := newTestIdentity(t, testSecret)

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":   "user-1",
		"email": "traveler@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	user, err := svc.Resolve(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "user-1", user.ID)
	require.Equal(t, "traveler@example.com", user.Email)
}

func TestResolveExpiredToken(t *testing.T) {
	svc := newTestIdentity(t, testSecret)

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := svc.Resolve(context.Background(), token)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_token"))
}

func TestResolveWrongSecret(t *testing.T) {
	svc := newTestIdentity(t, testSecret)

	token := signToken(t, "other-secret", jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := svc.Resolve(context.Background(), token)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_token"))
}

func TestResolveMissingSubject(t *testing.T) {
	svc := newTestIdentity(t, testSecret)

	token := signToken(t, testSecret, jwt.MapClaims{
		"email": "traveler@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	_, err := svc.Resolve(context.Background(), token)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_token"))
}

func TestResolveRejectsUnexpectedAlgorithm(t *testing.T) {
	svc := newTestIdentity(t, testSecret)

	raw := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err := raw.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), token)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_token"))
}

func TestResolveMissingSecret(t *testing.T) {
	svc := newTestIdentity(t, "")

	_, err := svc.Resolve(context.Background(), "whatever")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "config_error"))
}

func TestResolveEmptyToken(t *testing.T) {
	svc := newTestIdentity(t, testSecret)

	_, err := svc.Resolve(context.Background(), "   ")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_token"))
}

func newTestIdentity(t *testing.T, secret string) Service {
	t.Helper()
	return NewService(Config{Secret: secret}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}
