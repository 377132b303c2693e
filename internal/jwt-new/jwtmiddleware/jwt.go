package jwtmiddleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/linemk/coin-trader/internal/domain/models"
	security "github.com/linemk/coin-trader/internal/jwt-new"
	"github.com/linemk/coin-trader/internal/lib/api/response"
	"github.com/linemk/coin-trader/internal/storage"
)

type contextKey string

const UserIDKey contextKey = "userID"

// KeyFinder ищет ключ по его публичной части
type KeyFinder interface {
	GetKeyByPublicKey(ctx context.Context, publicKey string) (*models.Key, error)
}

// UserFinder ищет владельца ключа
type UserFinder interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// NewJWTMiddleware создаёт middleware для проверки bearer-токена.
// Токен несёт publicKey; подпись проверяется секретом найденного по нему ключа.
func NewJWTMiddleware(log *slog.Logger, keys KeyFinder, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "jwtmiddleware.NewJWTMiddleware"
			logger := log.With(slog.String("op", op))

			// Извлекаем токен из заголовка Authorization (формат: "Bearer <token>")
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Fail(w, http.StatusUnauthorized, "missing token")
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				response.Fail(w, http.StatusUnauthorized, "Wrong Authorization")
				return
			}
			tokenStr := parts[1]

			publicKey, err := security.PublicKeyFromToken(tokenStr)
			if err != nil {
				response.Fail(w, http.StatusUnauthorized, "invalid token")
				return
			}

			key, err := keys.GetKeyByPublicKey(r.Context(), publicKey)
			if err != nil {
				if errors.Is(err, storage.ErrKeyNotFound) {
					response.Fail(w, http.StatusNotFound, "Cannot find key")
					return
				}
				logger.Error("failed to get key", slog.Any("error", err))
				response.Fail(w, http.StatusInternalServerError, "internal server error")
				return
			}

			if err := security.VerifyToken(tokenStr, key.SecretKey); err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					response.Fail(w, http.StatusForbidden, "JWT expired")
					return
				}
				response.Fail(w, http.StatusForbidden, "Invalid signature")
				return
			}

			user, err := users.GetUserByID(r.Context(), key.UserID)
			if err != nil {
				if errors.Is(err, storage.ErrUserNotFound) {
					response.Fail(w, http.StatusNotFound, "Cannot find user")
					return
				}
				logger.Error("failed to get user", slog.Any("error", err))
				response.Fail(w, http.StatusInternalServerError, "internal server error")
				return
			}

			// Устанавливаем userID в контекст запроса
			ctx := context.WithValue(r.Context(), UserIDKey, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext извлекает userID из контекста.
func FromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserIDKey).(int64)
	return id, ok
}
