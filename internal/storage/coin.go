package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/linemk/coin-trader/internal/domain/models"
)

// CoinStorage - справочник отслеживаемых монет. Наполняется миграциями.
type CoinStorage interface {
	ListActiveCoins(ctx context.Context) ([]*models.Coin, error)
}

type coinRepository struct {
	db *sql.DB
}

func NewCoinRepository(db *sql.DB) CoinStorage {
	return &coinRepository{db: db}
}

func (r *coinRepository) ListActiveCoins(ctx context.Context) ([]*models.Coin, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, is_active FROM coins WHERE is_active = TRUE ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query coins: %w", err)
	}
	defer rows.Close()

	var coins []*models.Coin
	for rows.Next() {
		coin := &models.Coin{}
		if err := rows.Scan(&coin.ID, &coin.Name, &coin.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan coin: %w", err)
		}
		coins = append(coins, coin)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return coins, nil
}
