package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/linemk/coin-trader/internal/price"
	"github.com/linemk/coin-trader/internal/storage"
)

// MarketService - справочник монет и текущие цены
type MarketService interface {
	ActiveCoins(ctx context.Context) ([]string, error)
	Price(ctx context.Context, coin string) (decimal.Decimal, error)
}

type marketService struct {
	log      *slog.Logger
	coinRepo storage.CoinStorage
	prices   price.Provider
}

func NewMarketService(log *slog.Logger, coinRepo storage.CoinStorage, prices price.Provider) MarketService {
	return &marketService{log: log, coinRepo: coinRepo, prices: prices}
}

func (s *marketService) ActiveCoins(ctx context.Context) ([]string, error) {
	const op = "service.MarketService.ActiveCoins"

	coins, err := s.coinRepo.ListActiveCoins(ctx)
	if err != nil {
		s.log.Error("failed to list coins", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	names := make([]string, 0, len(coins))
	for _, coin := range coins {
		names = append(names, coin.Name)
	}
	return names, nil
}

func (s *marketService) Price(ctx context.Context, coin string) (decimal.Decimal, error) {
	const op = "service.MarketService.Price"

	p, err := s.prices.Price(ctx, coin)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}
