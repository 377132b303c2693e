package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/linemk/coin-trader/internal/storage"
)

// AccountService отдаёт балансы пользователя
type AccountService interface {
	Balances(ctx context.Context, userID int64) (map[string]decimal.Decimal, error)
}

type accountService struct {
	log       *slog.Logger
	assetRepo storage.AssetStorage
}

func NewAccountService(log *slog.Logger, assetRepo storage.AssetStorage) AccountService {
	return &accountService{log: log, assetRepo: assetRepo}
}

// Balances возвращает ненулевые балансы по имени актива
func (s *accountService) Balances(ctx context.Context, userID int64) (map[string]decimal.Decimal, error) {
	const op = "service.AccountService.Balances"
	s.log.Info("getting balances", slog.String("op", op), slog.Int64("userID", userID))

	assets, err := s.assetRepo.GetAssetsByUserID(ctx, userID)
	if err != nil {
		s.log.Error("failed to get assets", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get assets: %w", op, err)
	}

	balances := make(map[string]decimal.Decimal, len(assets))
	for _, asset := range assets {
		if asset.Balance.IsZero() {
			continue
		}
		balances[asset.Name] = asset.Balance
	}
	return balances, nil
}
