package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/linemk/coin-trader/internal/domain/models"
)

// PublicKeyClaim - claim, по которому сервер находит ключ для проверки подписи
const PublicKeyClaim = "publicKey"

var ErrNoPublicKey = errors.New("token has no publicKey claim")

// NewToken подписывает токен секретом ключа. При ttl <= 0 токен бессрочный.
func NewToken(key *models.Key, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		PublicKeyClaim: key.PublicKey,
		"iat":          now.Unix(),
	}
	if ttl > 0 {
		claims["exp"] = now.Add(ttl).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(key.SecretKey))
}

// PublicKeyFromToken достаёт publicKey без проверки подписи:
// секрет для проверки ещё предстоит найти по этому значению.
func PublicKeyFromToken(tokenStr string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return "", err
	}
	publicKey, ok := claims[PublicKeyClaim].(string)
	if !ok || publicKey == "" {
		return "", ErrNoPublicKey
	}
	return publicKey, nil
}

// VerifyToken проверяет подпись (только HS256) и срок действия
func VerifyToken(tokenStr, secret string) error {
	_, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return err
}
