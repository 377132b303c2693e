package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/linemk/coin-trader/internal/domain/models"
)

// TradeStorage - журнал сделок
type TradeStorage interface {
	// CreateTrade пишет сделку в той же транзакции, что и балансы
	CreateTrade(ctx context.Context, tx *sql.Tx, trade *models.Trade) error
	// GetTradesByUserID - сделки пользователя, новые первыми
	GetTradesByUserID(ctx context.Context, userID int64, limit int) ([]*models.Trade, error)
}

type tradeRepository struct {
	db *sql.DB
}

func NewTradeRepository(db *sql.DB) TradeStorage {
	return &tradeRepository{db: db}
}

func (r *tradeRepository) CreateTrade(ctx context.Context, tx *sql.Tx, trade *models.Trade) error {
	query := `INSERT INTO trades (user_id, coin, side, price, quantity)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := tx.ExecContext(ctx, query, trade.UserID, trade.Coin, string(trade.Side), trade.Price, trade.Quantity)
	if err != nil {
		return fmt.Errorf("failed to create trade: %w", err)
	}
	return nil
}

func (r *tradeRepository) GetTradesByUserID(ctx context.Context, userID int64, limit int) ([]*models.Trade, error) {
	query := `
		SELECT id, user_id, coin, side, price, quantity, created_at
		FROM trades
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get trades: %w", err)
	}
	defer rows.Close()

	trades := make([]*models.Trade, 0)
	for rows.Next() {
		trade := &models.Trade{}
		var side string
		if err := rows.Scan(&trade.ID, &trade.UserID, &trade.Coin, &side, &trade.Price, &trade.Quantity, &trade.CreatedAt); err != nil {
			return nil, err
		}
		trade.Side = models.Side(side)
		trades = append(trades, trade)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return trades, nil
}
