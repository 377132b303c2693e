package app

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/linemk/coin-trader/internal/config"
	"github.com/linemk/coin-trader/internal/price"
	"github.com/linemk/coin-trader/internal/service"
	"github.com/linemk/coin-trader/internal/storage"
)

// Services - всё, что нужно HTTP-слою
type Services struct {
	Auth     service.AuthServiceInterface
	Accounts service.AccountService
	Market   service.MarketService
	Trades   service.TradeService
}

type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *sql.DB
	Services *Services

	// нужны JWT middleware для поиска ключа и пользователя
	Keys  storage.KeyStorage
	Users storage.UserStorage
}

// NewApp подключается к БД и собирает репозитории и сервисы
func NewApp(log *slog.Logger, cfg *config.Config) (*App, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN(nil))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	userRepo := storage.NewUserRepository(db)
	keyRepo := storage.NewKeyRepository(db)
	assetRepo := storage.NewAssetRepository(db)
	coinRepo := storage.NewCoinRepository(db)
	tradeRepo := storage.NewTradeRepository(db)

	prices := price.NewClient(log, cfg.Price.BaseURL, cfg.Price.VsCurrency, cfg.Price.Timeout)
	provisioner := service.NewProvisioner(
		assetRepo,
		coinRepo,
		cfg.Exchange.QuoteCurrency,
		decimal.NewFromInt(cfg.Exchange.InitialBalance),
	)

	return &App{
		Config: cfg,
		Logger: log,
		DB:     db,
		Services: &Services{
			Auth: service.NewAuthService(log, db, userRepo, keyRepo, provisioner,
				time.Duration(cfg.JWT.TokenTTL)*time.Minute),
			Accounts: service.NewAccountService(log, assetRepo),
			Market:   service.NewMarketService(log, coinRepo, prices),
			Trades:   service.NewTradeService(log, db, assetRepo, tradeRepo, prices, cfg.Exchange.QuoteCurrency),
		},
		Keys:  keyRepo,
		Users: userRepo,
	}, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}
