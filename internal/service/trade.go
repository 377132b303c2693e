package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/linemk/coin-trader/internal/domain/models"
	"github.com/linemk/coin-trader/internal/price"
	"github.com/linemk/coin-trader/internal/storage"
	"github.com/linemk/coin-trader/internal/trading"
)

var ErrNotTradable = errors.New("asset is not tradable")

// DefaultHistoryLimit - сколько сделок отдаём, если клиент не указал limit
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// TradeService исполняет покупки и продажи монет за валюту котировки
type TradeService interface {
	Buy(ctx context.Context, userID int64, coin string, req models.OrderRequest) (*models.OrderResult, error)
	Sell(ctx context.Context, userID int64, coin string, req models.OrderRequest) (*models.OrderResult, error)
	History(ctx context.Context, userID int64, limit int) ([]*models.Trade, error)
}

type tradeService struct {
	log           *slog.Logger
	db            *sql.DB
	assetRepo     storage.AssetStorage
	tradeRepo     storage.TradeStorage
	prices        price.Provider
	quoteCurrency string
}

func NewTradeService(log *slog.Logger, db *sql.DB, assetRepo storage.AssetStorage, tradeRepo storage.TradeStorage, prices price.Provider, quoteCurrency string) TradeService {
	return &tradeService{
		log:           log,
		db:            db,
		assetRepo:     assetRepo,
		tradeRepo:     tradeRepo,
		prices:        prices,
		quoteCurrency: quoteCurrency,
	}
}

func (s *tradeService) Buy(ctx context.Context, userID int64, coin string, req models.OrderRequest) (*models.OrderResult, error) {
	return s.trade(ctx, models.SideBuy, userID, coin, req)
}

func (s *tradeService) Sell(ctx context.Context, userID int64, coin string, req models.OrderRequest) (*models.OrderResult, error) {
	return s.trade(ctx, models.SideSell, userID, coin, req)
}

// trade получает цену до начала транзакции, чтобы не держать блокировки
// во время внешнего запроса, затем блокирует обе строки баланса,
// исполняет сделку и пишет оба баланса одним коммитом.
func (s *tradeService) trade(ctx context.Context, side models.Side, userID int64, coin string, req models.OrderRequest) (*models.OrderResult, error) {
	const op = "service.TradeService.trade"
	logger := s.log.With(
		slog.String("op", op),
		slog.String("side", string(side)),
		slog.Int64("userID", userID),
		slog.String("coin", coin),
		slog.Bool("all", req.All),
	)

	if coin == "" || strings.EqualFold(coin, s.quoteCurrency) {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrNotTradable, coin)
	}

	p, err := s.prices.Price(ctx, coin)
	if err != nil {
		logger.Error("failed to get price", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger = logger.With(slog.String("price", p.String()))
	logger.Info("starting trade transaction")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	quoteAsset, err := s.assetRepo.LockAssetTx(ctx, tx, userID, s.quoteCurrency)
	if err != nil {
		rollback(tx, logger)
		logger.Error("failed to get quote balance", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get %s balance: %w", op, s.quoteCurrency, err)
	}

	coinAsset, err := s.assetRepo.LockAssetTx(ctx, tx, userID, coin)
	if err != nil {
		rollback(tx, logger)
		logger.Error("failed to get coin balance", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get %s balance: %w", op, coin, err)
	}

	result, err := trading.Execute(side, p, req, trading.Balances{Quote: quoteAsset, Coin: coinAsset})
	if err != nil {
		rollback(tx, logger)
		logger.Warn("order rejected", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.assetRepo.UpdateAssetBalance(ctx, tx, quoteAsset.ID, quoteAsset.Balance); err != nil {
		rollback(tx, logger)
		logger.Error("failed to update quote balance", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to update %s balance: %w", op, s.quoteCurrency, err)
	}

	if err := s.assetRepo.UpdateAssetBalance(ctx, tx, coinAsset.ID, coinAsset.Balance); err != nil {
		rollback(tx, logger)
		logger.Error("failed to update coin balance", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to update %s balance: %w", op, coin, err)
	}

	// нулевая сделка балансы не меняет, в журнал её не пишем
	if !result.Quantity.IsZero() {
		err := s.tradeRepo.CreateTrade(ctx, tx, &models.Trade{
			UserID:   userID,
			Coin:     coin,
			Side:     side,
			Price:    result.Price,
			Quantity: result.Quantity,
		})
		if err != nil {
			rollback(tx, logger)
			logger.Error("failed to record trade", slog.Any("error", err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("trade completed", slog.String("quantity", result.Quantity.String()))
	return result, nil
}

// History возвращает последние сделки пользователя.
// limit вне (0, MaxHistoryLimit] заменяется на DefaultHistoryLimit.
func (s *tradeService) History(ctx context.Context, userID int64, limit int) ([]*models.Trade, error) {
	const op = "service.TradeService.History"

	if limit <= 0 || limit > MaxHistoryLimit {
		limit = DefaultHistoryLimit
	}

	trades, err := s.tradeRepo.GetTradesByUserID(ctx, userID, limit)
	if err != nil {
		s.log.Error("failed to get trades", slog.String("op", op), slog.Int64("userID", userID), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if trades == nil {
		trades = []*models.Trade{}
	}
	return trades, nil
}
