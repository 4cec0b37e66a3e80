package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veritas-legal/casefile-api/internal/config"
)

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer(&config.AuthConfig{
		JWTSecret:     "test-secret-key-for-jwt-signing",
		TokenTTLHours: 1,
	})
}

func TestIssueAndValidate(t *testing.T) {
	issuer := newTestIssuer()
	userID := uuid.New()

	token, err := issuer.Issue(userID, "jane@example.com", "Jane Doe")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	uc, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID, uc.UserID)
	assert.Equal(t, "jane@example.com", uc.Email)
	assert.Equal(t, "Jane Doe", uc.DisplayName)
}

func TestValidate_ExpiredToken(t *testing.T) {
	issuer := newTestIssuer()
	issuer.ttl = -time.Hour

	token, err := issuer.Issue(uuid.New(), "jane@example.com", "Jane Doe")
	require.NoError(t, err)

	_, err = issuer.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidate_WrongSecret(t *testing.T) {
	issuer := newTestIssuer()
	token, err := issuer.Issue(uuid.New(), "jane@example.com", "Jane Doe")
	require.NoError(t, err)

	other := NewTokenIssuer(&config.AuthConfig{
		JWTSecret:     "a-different-secret",
		TokenTTLHours: 1,
	})
	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Garbage(t *testing.T) {
	issuer := newTestIssuer()

	_, err := issuer.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_RejectsUnsignedToken(t *testing.T) {
	issuer := newTestIssuer()
	userID := uuid.New()

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = issuer.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_RejectsNonUUIDSubject(t *testing.T) {
	issuer := newTestIssuer()

	signed := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "not-a-uuid",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := signed.SignedString(issuer.secret)
	require.NoError(t, err)

	_, err = issuer.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
