package security_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linemk/coin-trader/internal/domain/models"
	security "github.com/linemk/coin-trader/internal/jwt-new"
)

func TestNewToken_RoundTrip(t *testing.T) {
	key := &models.Key{PublicKey: "pub-1", SecretKey: "secret-1"}

	token, err := security.NewToken(key, time.Hour)
	require.NoError(t, err)

	publicKey, err := security.PublicKeyFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "pub-1", publicKey)

	assert.NoError(t, security.VerifyToken(token, "secret-1"))
	assert.ErrorIs(t, security.VerifyToken(token, "other-secret"), jwt.ErrTokenSignatureInvalid)
}

func TestVerifyToken_Expired(t *testing.T) {
	claims := jwt.MapClaims{
		security.PublicKeyClaim: "pub-1",
		"exp":                   time.Now().Add(-time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret-1"))
	require.NoError(t, err)

	assert.ErrorIs(t, security.VerifyToken(token, "secret-1"), jwt.ErrTokenExpired)
}

func TestPublicKeyFromToken_MissingClaim(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"}).SignedString([]byte("s"))
	require.NoError(t, err)

	_, err = security.PublicKeyFromToken(token)
	assert.ErrorIs(t, err, security.ErrNoPublicKey)
}

func TestPublicKeyFromToken_Garbage(t *testing.T) {
	_, err := security.PublicKeyFromToken("invalid.token.value")
	assert.Error(t, err)
}
