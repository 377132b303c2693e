package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/linemk/coin-trader/internal/domain/models"
)

var (
	ErrAssetNotFound = errors.New("asset not found")
	ErrAssetLocked   = errors.New("resource is locked, please try again")
)

// AssetStorage описывает методы для работы с балансами пользователей.
type AssetStorage interface {
	// CreateAsset создаёт запись баланса в транзакции регистрации.
	CreateAsset(ctx context.Context, tx *sql.Tx, userID int64, name string, balance decimal.Decimal) error
	// GetAssetsByUserID возвращает все балансы пользователя.
	GetAssetsByUserID(ctx context.Context, userID int64) ([]*models.Asset, error)
	// LockAssetTx читает баланс с блокировкой строки до конца транзакции.
	LockAssetTx(ctx context.Context, tx *sql.Tx, userID int64, name string) (*models.Asset, error)
	// UpdateAssetBalance записывает новый баланс.
	UpdateAssetBalance(ctx context.Context, tx *sql.Tx, id int64, balance decimal.Decimal) error
}

type assetRepository struct {
	db *sql.DB
}

func NewAssetRepository(db *sql.DB) AssetStorage {
	return &assetRepository{db: db}
}

func (r *assetRepository) CreateAsset(ctx context.Context, tx *sql.Tx, userID int64, name string, balance decimal.Decimal) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO assets (user_id, name, balance) VALUES ($1, $2, $3)",
		userID, name, balance,
	)
	if err != nil {
		return fmt.Errorf("failed to create asset %s: %w", name, err)
	}
	return nil
}

func (r *assetRepository) GetAssetsByUserID(ctx context.Context, userID int64) ([]*models.Asset, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, name, balance FROM assets WHERE user_id = $1 ORDER BY id", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	var assets []*models.Asset
	for rows.Next() {
		asset := &models.Asset{}
		if err := rows.Scan(&asset.ID, &asset.UserID, &asset.Name, &asset.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *assetRepository) LockAssetTx(ctx context.Context, tx *sql.Tx, userID int64, name string) (*models.Asset, error) {
	asset := &models.Asset{}
	row := tx.QueryRowContext(ctx,
		"SELECT id, user_id, name, balance FROM assets WHERE user_id = $1 AND name = $2 FOR UPDATE NOWAIT",
		userID, name)
	if err := row.Scan(&asset.ID, &asset.UserID, &asset.Name, &asset.Balance); err != nil {
		if isPQCode(err, pqLockNotAvailable) {
			return nil, fmt.Errorf("%w: %v", ErrAssetLocked, err)
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}
	return asset, nil
}

func (r *assetRepository) UpdateAssetBalance(ctx context.Context, tx *sql.Tx, id int64, balance decimal.Decimal) error {
	res, err := tx.ExecContext(ctx, "UPDATE assets SET balance = $1 WHERE id = $2", balance, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAssetNotFound
	}
	return nil
}
