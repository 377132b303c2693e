package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/linemk/coin-trader/internal/domain/models"
	"github.com/linemk/coin-trader/internal/storage"
)

var userCols = []string{"id", "name", "email", "pass_hash", "created_at"}

func TestGetUserByID_Success(t *testing.T) {
	// Создаем sqlmock для эмуляции базы данных.
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)
	ctx := context.Background()
	userID := int64(1)
	created := time.Now()

	rows := sqlmock.NewRows(userCols).
		AddRow(userID, "alice", "alice@example.com", []byte("hashed-password"), created)

	mock.ExpectQuery("SELECT id, name, email, pass_hash, created_at FROM users WHERE id = \\$1").
		WithArgs(userID).WillReturnRows(rows)

	user, err := repo.GetUserByID(ctx, userID)
	assert.NoError(t, err, "Expected no error when user is found")
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, []byte("hashed-password"), user.PassHash)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByID_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)

	mock.ExpectQuery("SELECT id, name, email, pass_hash, created_at FROM users WHERE id = \\$1").
		WithArgs(int64(2)).WillReturnRows(sqlmock.NewRows(userCols))

	user, err := repo.GetUserByID(context.Background(), 2)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
	assert.Nil(t, user, "User should be nil when not found")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)

	// Эмулируем ошибку выполнения запроса.
	mock.ExpectQuery("SELECT id, name, email, pass_hash, created_at FROM users WHERE email = \\$1").
		WithArgs("alice@example.com").WillReturnError(errors.New("db error"))

	user, err := repo.GetUserByEmail(context.Background(), "alice@example.com")
	assert.Error(t, err, "Expected error when query fails")
	assert.Nil(t, user)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	repo := storage.NewUserRepository(db)
	tx, err := db.Begin()
	assert.NoError(t, err)

	mock.ExpectQuery("INSERT INTO users \\(name, email, pass_hash\\) VALUES \\(\\$1, \\$2, \\$3\\) RETURNING id, created_at").
		WithArgs("alice", "alice@example.com", []byte("hash")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), time.Now()))

	user, err := repo.CreateUser(context.Background(), tx, &models.User{
		Name: "alice", Email: "alice@example.com", PassHash: []byte("hash"),
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)

	mock.ExpectCommit()
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_Duplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	repo := storage.NewUserRepository(db)
	tx, err := db.Begin()
	assert.NoError(t, err)

	// нарушение уникальности email
	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	user, err := repo.CreateUser(context.Background(), tx, &models.User{
		Name: "alice", Email: "alice@example.com", PassHash: []byte("hash"),
	})
	assert.ErrorIs(t, err, storage.ErrUserExists)
	assert.Nil(t, user)

	mock.ExpectRollback()
	assert.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListActiveCoins(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewCoinRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "is_active"}).
		AddRow(int64(1), "bitcoin", true).
		AddRow(int64(2), "ethereum", true)
	mock.ExpectQuery("SELECT id, name, is_active FROM coins WHERE is_active = TRUE ORDER BY id").
		WillReturnRows(rows)

	coins, err := repo.ListActiveCoins(context.Background())
	assert.NoError(t, err)
	assert.Len(t, coins, 2)
	assert.Equal(t, "bitcoin", coins[0].Name)
	assert.Equal(t, "ethereum", coins[1].Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAsset(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	repo := storage.NewAssetRepository(db)
	tx, err := db.Begin()
	assert.NoError(t, err)

	mock.ExpectExec("INSERT INTO assets \\(user_id, name, balance\\) VALUES \\(\\$1, \\$2, \\$3\\)").
		WithArgs(int64(1), "USD", decimal.NewFromInt(10000)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.CreateAsset(context.Background(), tx, 1, "USD", decimal.NewFromInt(10000))
	assert.NoError(t, err)

	mock.ExpectCommit()
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAssetsByUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewAssetRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "balance"}).
		AddRow(int64(1), int64(5), "USD", "9876.5432").
		AddRow(int64(2), int64(5), "bitcoin", "0.00006789")
	mock.ExpectQuery("SELECT id, user_id, name, balance FROM assets WHERE user_id = \\$1 ORDER BY id").
		WithArgs(int64(5)).WillReturnRows(rows)

	assets, err := repo.GetAssetsByUserID(context.Background(), 5)
	assert.NoError(t, err)
	assert.Len(t, assets, 2)
	assert.Equal(t, "9876.5432", assets[0].Balance.String())
	assert.Equal(t, "0.00006789", assets[1].Balance.String())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockAssetTx_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	repo := storage.NewAssetRepository(db)
	tx, err := db.Begin()
	assert.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "balance"}).
		AddRow(int64(3), int64(1), "bitcoin", "1.5")
	mock.ExpectQuery("SELECT id, user_id, name, balance FROM assets WHERE user_id = \\$1 AND name = \\$2 FOR UPDATE NOWAIT").
		WithArgs(int64(1), "bitcoin").WillReturnRows(rows)

	asset, err := repo.LockAssetTx(context.Background(), tx, 1, "bitcoin")
	assert.NoError(t, err)
	assert.Equal(t, int64(3), asset.ID)
	assert.Equal(t, "1.5", asset.Balance.String())

	mock.ExpectCommit()
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockAssetTx_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	repo := storage.NewAssetRepository(db)
	tx, err := db.Begin()
	assert.NoError(t, err)

	mock.ExpectQuery("SELECT id, user_id, name, balance FROM assets").
		WithArgs(int64(1), "notacoin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "balance"}))

	asset, err := repo.LockAssetTx(context.Background(), tx, 1, "notacoin")
	assert.ErrorIs(t, err, storage.ErrAssetNotFound)
	assert.Nil(t, asset)

	mock.ExpectRollback()
	assert.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockAssetTx_Locked(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	repo := storage.NewAssetRepository(db)
	tx, err := db.Begin()
	assert.NoError(t, err)

	mock.ExpectQuery("SELECT id, user_id, name, balance FROM assets").
		WillReturnError(&pq.Error{Code: "55P03", Message: "could not obtain lock"})

	asset, err := repo.LockAssetTx(context.Background(), tx, 1, "bitcoin")
	assert.ErrorIs(t, err, storage.ErrAssetLocked)
	assert.Nil(t, asset)

	mock.ExpectRollback()
	assert.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAssetBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	repo := storage.NewAssetRepository(db)
	tx, err := db.Begin()
	assert.NoError(t, err)

	mock.ExpectExec("UPDATE assets SET balance = \\$1 WHERE id = \\$2").
		WithArgs(decimal.RequireFromString("5000"), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpdateAssetBalance(context.Background(), tx, 3, decimal.RequireFromString("5000"))
	assert.NoError(t, err)

	mock.ExpectCommit()
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAssetBalance_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	repo := storage.NewAssetRepository(db)
	tx, err := db.Begin()
	assert.NoError(t, err)

	mock.ExpectExec("UPDATE assets SET balance").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateAssetBalance(context.Background(), tx, 99, decimal.Zero)
	assert.ErrorIs(t, err, storage.ErrAssetNotFound)

	mock.ExpectRollback()
	assert.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewKeyRepository(db)

	mock.ExpectQuery("INSERT INTO keys \\(user_id, public_key, secret_key\\) VALUES \\(\\$1, \\$2, \\$3\\) RETURNING id, created_at").
		WithArgs(int64(1), "pub", "sec").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(10), time.Now()))

	key, err := repo.CreateKey(context.Background(), &models.Key{UserID: 1, PublicKey: "pub", SecretKey: "sec"})
	assert.NoError(t, err)
	assert.Equal(t, int64(10), key.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetKeyByPublicKey_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewKeyRepository(db)

	mock.ExpectQuery("SELECT id, user_id, public_key, secret_key, created_at FROM keys WHERE public_key = \\$1").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "public_key", "secret_key", "created_at"}))

	key, err := repo.GetKeyByPublicKey(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
	assert.Nil(t, key)

	assert.NoError(t, mock.ExpectationsWereMet())
}

var tradeCols = []string{"id", "user_id", "coin", "side", "price", "quantity", "created_at"}

func TestCreateTrade(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewTradeRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO trades").
		WithArgs(int64(1), "bitcoin", "buy", decimal.RequireFromString("2500"), decimal.RequireFromString("0.5")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	assert.NoError(t, err)
	err = repo.CreateTrade(ctx, tx, &models.Trade{
		UserID:   1,
		Coin:     "bitcoin",
		Side:     models.SideBuy,
		Price:    decimal.RequireFromString("2500"),
		Quantity: decimal.RequireFromString("0.5"),
	})
	assert.NoError(t, err)
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTradesByUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewTradeRepository(db)
	created := time.Now()

	rows := sqlmock.NewRows(tradeCols).
		AddRow(int64(2), int64(1), "bitcoin", "sell", "2600", "0.25", created).
		AddRow(int64(1), int64(1), "bitcoin", "buy", "2500", "0.5", created)
	mock.ExpectQuery("SELECT id, user_id, coin, side, price, quantity, created_at FROM trades").
		WithArgs(int64(1), 50).WillReturnRows(rows)

	trades, err := repo.GetTradesByUserID(context.Background(), 1, 50)
	assert.NoError(t, err)
	assert.Len(t, trades, 2)
	assert.Equal(t, models.SideSell, trades[0].Side)
	assert.Equal(t, "2600", trades[0].Price.String())
	assert.Equal(t, "0.5", trades[1].Quantity.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTradesByUserID_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewTradeRepository(db)
	mock.ExpectQuery("SELECT id, user_id, coin, side, price, quantity, created_at FROM trades").
		WithArgs(int64(9), 50).WillReturnRows(sqlmock.NewRows(tradeCols))

	trades, err := repo.GetTradesByUserID(context.Background(), 9, 50)
	assert.NoError(t, err)
	assert.NotNil(t, trades)
	assert.Empty(t, trades)
	assert.NoError(t, mock.ExpectationsWereMet())
}
