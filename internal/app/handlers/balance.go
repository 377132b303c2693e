package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/linemk/coin-trader/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/coin-trader/internal/lib/api/response"
	"github.com/linemk/coin-trader/internal/service"
)

// BalanceHandler обрабатывает GET /balance.
// Нулевые балансы в ответ не попадают.
func BalanceHandler(log *slog.Logger, accounts service.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.BalanceHandler"
		logger := log.With(slog.String("op", op))

		// userID кладёт JWT middleware
		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			response.Fail(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		balances, err := accounts.Balances(r.Context(), userID)
		if err != nil {
			writeError(w, logger, err)
			return
		}

		if err := response.JSON(w, http.StatusOK, balances); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// TradesHandler обрабатывает GET /trades?limit=N - журнал сделок пользователя
func TradesHandler(log *slog.Logger, trades service.TradeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.TradesHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			response.Fail(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				response.Fail(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = n
		}

		history, err := trades.History(r.Context(), userID, limit)
		if err != nil {
			writeError(w, logger, err)
			return
		}

		if err := response.JSON(w, http.StatusOK, history); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}
