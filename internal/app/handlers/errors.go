package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/linemk/coin-trader/internal/lib/api/response"
	"github.com/linemk/coin-trader/internal/price"
	"github.com/linemk/coin-trader/internal/service"
	"github.com/linemk/coin-trader/internal/storage"
	"github.com/linemk/coin-trader/internal/trading"
)

// errorStatus сопоставляет ошибку сервисного слоя с HTTP-статусом и текстом для клиента.
// Внутренние подробности наружу не отдаются.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, trading.ErrInvalidQuantity):
		return http.StatusBadRequest, "Orders are limited to 4 decimal places"
	case errors.Is(err, trading.ErrInsufficientBalance):
		return http.StatusBadRequest, "Insufficient balance"
	case errors.Is(err, storage.ErrUserExists):
		return http.StatusBadRequest, "Email or name is already registered"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest, "Wrong email or password"
	case errors.Is(err, price.ErrCoinNotFound),
		errors.Is(err, storage.ErrAssetNotFound),
		errors.Is(err, service.ErrNotTradable):
		return http.StatusNotFound, "Cannot find coin"
	case errors.Is(err, storage.ErrUserNotFound):
		return http.StatusNotFound, "Cannot find user"
	case errors.Is(err, storage.ErrAssetLocked):
		return http.StatusConflict, "Balance is busy, try again"
	case errors.Is(err, price.ErrUnavailable):
		return http.StatusBadGateway, "Price service is unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status, msg := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", slog.Any("error", err))
	} else {
		logger.Warn("request rejected", slog.Int("status", status), slog.Any("error", err))
	}
	response.Fail(w, status, msg)
}
