package jwt

import (
	"Foodgram-Backend/domain"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, secret string) JWTService {
	t.Helper()
	svc, err := NewJWTServiceWithSecret(secret)
	require.NoError(t, err)
	return svc
}

func TestGenerateAndParseToken(t *testing.T) {
	svc := newService(t, "secret")

	token, err := svc.GenerateTokenUser(42, domain.RoleAdmin)
	require.NoError(t, err)

	id, role, err := svc.GetUserIDByToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, domain.RoleAdmin, role)
}

func TestEmptySecretIsRejected(t *testing.T) {
	for _, secret := range []string{"", "   "} {
		svc, err := NewJWTServiceWithSecret(secret)
		assert.ErrorIs(t, err, domain.ErrJWTSecretEmpty)
		assert.Nil(t, svc)
	}
}

func TestNewJWTServiceWithoutConfiguredSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	svc, err := NewJWTService()
	assert.ErrorIs(t, err, domain.ErrJWTSecretEmpty)
	assert.Nil(t, svc)
}

func TestTokenSignedWithEmptyKeyIsInvalid(t *testing.T) {
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"role":    domain.RoleAdmin,
		"iss":     "FOODGRAM",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(""))
	require.NoError(t, err)

	_, _, err = newService(t, "secret").GetUserIDByToken(forged)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestTokenSignedWithOtherSecretIsInvalid(t *testing.T) {
	token, err := newService(t, "one").GenerateTokenUser(1, domain.RoleUser)
	require.NoError(t, err)

	_, _, err = newService(t, "two").GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestExpiredToken(t *testing.T) {
	claims := jwtUserClaim{
		UserID: 1,
		Role:   domain.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, _, err = newService(t, "secret").GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestGarbageToken(t *testing.T) {
	_, _, err := newService(t, "secret").GetUserIDByToken("not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
