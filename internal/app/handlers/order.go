package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/linemk/coin-trader/internal/domain/models"
	"github.com/linemk/coin-trader/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/coin-trader/internal/lib/api/response"
	"github.com/linemk/coin-trader/internal/service"
)

// allFlag принимает как true, так и "true"
type allFlag bool

func (f *allFlag) UnmarshalJSON(b []byte) error {
	v, err := strconv.ParseBool(strings.Trim(string(b), `"`))
	if err != nil {
		return err
	}
	*f = allFlag(v)
	return nil
}

// OrderRequest - тело запроса на покупку/продажу.
// Без all количество обязательно.
type OrderRequest struct {
	All      allFlag          `json:"all"`
	Quantity *decimal.Decimal `json:"quantity" validate:"required_without=All"`
}

type orderFunc func(ctx context.Context, userID int64, coin string, req models.OrderRequest) (*models.OrderResult, error)

// BuyHandler обрабатывает POST /coin/{coin}/buy
func BuyHandler(log *slog.Logger, trades service.TradeService) http.HandlerFunc {
	return orderHandler(log, models.SideBuy, trades.Buy)
}

// SellHandler обрабатывает POST /coin/{coin}/sell
func SellHandler(log *slog.Logger, trades service.TradeService) http.HandlerFunc {
	return orderHandler(log, models.SideSell, trades.Sell)
}

func orderHandler(log *slog.Logger, side models.Side, execute orderFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orderHandler"
		logger := log.With(slog.String("op", op), slog.String("side", string(side)))

		coin := chi.URLParam(r, "coin")
		if coin == "" {
			logger.Warn("coin parameter is missing")
			response.Fail(w, http.StatusBadRequest, "coin parameter is required")
			return
		}

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			response.Fail(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		logger = logger.With(slog.String("coin", coin), slog.Int64("userID", userID))

		var req OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			logger.Warn("invalid request: decoding error", slog.Any("error", err))
			response.Fail(w, http.StatusBadRequest, "invalid request")
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Warn("invalid request: validation error", slog.Any("error", err))
			response.Fail(w, http.StatusBadRequest, "quantity is required unless all is set")
			return
		}

		order := models.OrderRequest{All: bool(req.All)}
		if req.Quantity != nil {
			order.Quantity = *req.Quantity
		}

		result, err := execute(r.Context(), userID, coin, order)
		if err != nil {
			writeError(w, logger, err)
			return
		}

		if err := response.JSON(w, http.StatusCreated, result); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}
