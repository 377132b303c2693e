package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/linemk/coin-trader/internal/lib/api/response"
	"github.com/linemk/coin-trader/internal/service"
)

type PriceResponse struct {
	Price decimal.Decimal `json:"price"`
}

// IndexHandler - проверка, что сервис жив
func IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// CoinsHandler обрабатывает GET /coins
func CoinsHandler(log *slog.Logger, market service.MarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CoinsHandler"
		logger := log.With(slog.String("op", op))

		coins, err := market.ActiveCoins(r.Context())
		if err != nil {
			writeError(w, logger, err)
			return
		}

		if err := response.JSON(w, http.StatusOK, coins); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// PriceHandler обрабатывает GET /coins/{coin}
func PriceHandler(log *slog.Logger, market service.MarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.PriceHandler"
		logger := log.With(slog.String("op", op))

		coin := chi.URLParam(r, "coin")
		if coin == "" {
			response.Fail(w, http.StatusBadRequest, "coin parameter is required")
			return
		}

		p, err := market.Price(r.Context(), coin)
		if err != nil {
			writeError(w, logger.With(slog.String("coin", coin)), err)
			return
		}

		if err := response.JSON(w, http.StatusOK, PriceResponse{Price: p}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}
