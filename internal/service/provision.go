package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/linemk/coin-trader/internal/storage"
)

// Provisioner заводит балансы нового пользователя: валюта котировки со
// стартовой суммой и нулевой баланс по каждой активной монете.
type Provisioner struct {
	assetRepo      storage.AssetStorage
	coinRepo       storage.CoinStorage
	quoteCurrency  string
	initialBalance decimal.Decimal
}

func NewProvisioner(assetRepo storage.AssetStorage, coinRepo storage.CoinStorage, quoteCurrency string, initialBalance decimal.Decimal) *Provisioner {
	return &Provisioner{
		assetRepo:      assetRepo,
		coinRepo:       coinRepo,
		quoteCurrency:  quoteCurrency,
		initialBalance: initialBalance,
	}
}

// Provision выполняется внутри транзакции регистрации.
// Повторные записи отсекает уникальный индекс (user_id, name).
func (p *Provisioner) Provision(ctx context.Context, tx *sql.Tx, userID int64) error {
	const op = "service.Provisioner.Provision"

	if err := p.assetRepo.CreateAsset(ctx, tx, userID, p.quoteCurrency, p.initialBalance); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	coins, err := p.coinRepo.ListActiveCoins(ctx)
	if err != nil {
		return fmt.Errorf("%s: failed to list coins: %w", op, err)
	}
	for _, coin := range coins {
		if err := p.assetRepo.CreateAsset(ctx, tx, userID, coin.Name, decimal.Zero); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}
