package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/coin-trader/internal/domain/models"
)

var ErrKeyNotFound = errors.New("key not found")

// KeyStorage хранит пары ключей, выданные при логине
type KeyStorage interface {
	CreateKey(ctx context.Context, key *models.Key) (*models.Key, error)
	GetKeyByPublicKey(ctx context.Context, publicKey string) (*models.Key, error)
}

type keyRepository struct {
	db *sql.DB
}

func NewKeyRepository(db *sql.DB) KeyStorage {
	return &keyRepository{db: db}
}

func (r *keyRepository) CreateKey(ctx context.Context, key *models.Key) (*models.Key, error) {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO keys (user_id, public_key, secret_key) VALUES ($1, $2, $3) RETURNING id, created_at",
		key.UserID, key.PublicKey, key.SecretKey,
	).Scan(&key.ID, &key.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create key: %w", err)
	}
	return key, nil
}

func (r *keyRepository) GetKeyByPublicKey(ctx context.Context, publicKey string) (*models.Key, error) {
	key := &models.Key{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, public_key, secret_key, created_at FROM keys WHERE public_key = $1", publicKey)
	if err := row.Scan(&key.ID, &key.UserID, &key.PublicKey, &key.SecretKey, &key.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return key, nil
}
