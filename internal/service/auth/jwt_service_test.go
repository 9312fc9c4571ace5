package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret-that-is-32-chars-long"

var fixedTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func testAuthConfig(secret string) config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   secret,
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
	}
}

func newTestService(t *testing.T, secret string, now time.Time) *hmacJWTService {
	t.Helper()
	svc, err := newHMACJWTService(testAuthConfig(secret), func() time.Time { return now })
	require.NoError(t, err)
	return svc
}

func TestNewJWTService(t *testing.T) {
	_, err := NewJWTService(testAuthConfig("short"))
	assert.Error(t, err)

	cfg := testAuthConfig(testSecret)
	cfg.TokenLifetimeMinutes = 0
	_, err = NewJWTService(cfg)
	assert.Error(t, err)

	svc, err := NewJWTService(testAuthConfig(testSecret))
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, testSecret, fixedTime)
	userID := uuid.New()

	token, err := svc.GenerateToken(context.Background(), userID, "alice@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken_Failures(t *testing.T) {
	t.Parallel()
	gen := newTestService(t, testSecret, fixedTime)
	userID := uuid.New()

	access, err := gen.GenerateToken(context.Background(), userID, "a@example.com")
	require.NoError(t, err)
	refresh, err := gen.GenerateRefreshToken(context.Background(), userID, "a@example.com")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"uid": userID.String(), "type": "access"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		svc     *hmacJWTService
		token   string
		wantErr error
	}{
		{"expired", newTestService(t, testSecret, fixedTime.Add(2*time.Hour)), access, ErrExpiredToken},
		{"within clock skew", newTestService(t, testSecret, fixedTime.Add(time.Hour+time.Minute)), access, nil},
		{"wrong secret", newTestService(t, "another-secret-that-is-long-enough!!", fixedTime), access, ErrInvalidToken},
		{"malformed", gen, "this.is.not.a.valid.jwt", ErrInvalidToken},
		{"empty", gen, "", ErrInvalidToken},
		{"alg none", gen, noneToken, ErrInvalidToken},
		{"refresh as access", gen, refresh, ErrWrongTokenType},
		{"issued in the future", newTestService(t, testSecret, fixedTime.Add(-time.Hour)), access, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tt.svc.ValidateToken(context.Background(), tt.token)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, userID, claims.UserID)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, claims)
		})
	}
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()
	gen := newTestService(t, testSecret, fixedTime)
	userID := uuid.New()

	refresh, err := gen.GenerateRefreshToken(context.Background(), userID, "b@example.com")
	require.NoError(t, err)
	access, err := gen.GenerateToken(context.Background(), userID, "b@example.com")
	require.NoError(t, err)

	claims, err := gen.ValidateRefreshToken(context.Background(), refresh)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	assert.Equal(t, fixedTime.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())

	_, err = gen.ValidateRefreshToken(context.Background(), access)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	later := newTestService(t, testSecret, fixedTime.Add(25*time.Hour))
	_, err = later.ValidateRefreshToken(context.Background(), refresh)
	assert.ErrorIs(t, err, ErrExpiredRefreshToken)

	tampered := refresh[:len(refresh)-2] + strings.Repeat("x", 2)
	_, err = gen.ValidateRefreshToken(context.Background(), tampered)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestTokensAreUnique(t *testing.T) {
	svc := newTestService(t, testSecret, fixedTime)
	userID := uuid.New()

	a, err := svc.GenerateToken(context.Background(), userID, "c@example.com")
	require.NoError(t, err)
	b, err := svc.GenerateToken(context.Background(), userID, "c@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "jti differs per token")
}
