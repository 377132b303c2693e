package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/linemk/coin-trader/internal/domain/models"
	security "github.com/linemk/coin-trader/internal/jwt-new"
	"github.com/linemk/coin-trader/internal/storage"
)

var ErrInvalidCredentials = errors.New("wrong email or password")

// Credentials - пара ключей, выданная при логине, и готовый токен на её основе
type Credentials struct {
	PublicKey string
	SecretKey string
	Token     string
}

type AuthServiceInterface interface {
	Register(ctx context.Context, name, email, password string) error
	Login(ctx context.Context, email, password string) (*Credentials, error)
}

type AuthService struct {
	log         *slog.Logger
	db          *sql.DB
	userRepo    storage.UserStorage
	keyRepo     storage.KeyStorage
	provisioner *Provisioner
	tokenTTL    time.Duration
}

var _ AuthServiceInterface = (*AuthService)(nil)

func NewAuthService(log *slog.Logger, db *sql.DB, userRepo storage.UserStorage, keyRepo storage.KeyStorage, provisioner *Provisioner, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		log:         log,
		db:          db,
		userRepo:    userRepo,
		keyRepo:     keyRepo,
		provisioner: provisioner,
		tokenTTL:    tokenTTL,
	}
}

// Register создаёт пользователя и его балансы в одной транзакции.
// Пароль хэшируется через bcrypt (соль добавляется автоматически).
func (a *AuthService) Register(ctx context.Context, name, email, password string) error {
	const op = "service.AuthService.Register"
	logger := a.log.With(
		slog.String("op", op),
		slog.String("name", name),
		slog.String("email", email),
	)
	logger.Info("registering user")

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		return fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	user, err := a.userRepo.CreateUser(ctx, tx, &models.User{
		Name:     name,
		Email:    email,
		PassHash: passHash,
	})
	if err != nil {
		rollback(tx, logger)
		if errors.Is(err, storage.ErrUserExists) {
			logger.Warn("user already exists")
		} else {
			logger.Error("failed to create user", slog.Any("error", err))
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := a.provisioner.Provision(ctx, tx, user.ID); err != nil {
		rollback(tx, logger)
		logger.Error("failed to provision assets", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("user registered", slog.Int64("userID", user.ID))
	return nil
}

// Login проверяет пароль и выдаёт новую пару ключей.
// Каждый логин создаёт отдельный ключ, старые продолжают действовать.
func (a *AuthService) Login(ctx context.Context, email, password string) (*Credentials, error) {
	const op = "service.AuthService.Login"
	logger := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)
	logger.Info("checking user")

	user, err := a.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Warn("user not found")
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		logger.Warn("invalid password")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	secret, err := newSecret()
	if err != nil {
		logger.Error("failed to generate secret", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to generate secret: %w", op, err)
	}

	key, err := a.keyRepo.CreateKey(ctx, &models.Key{
		UserID:    user.ID,
		PublicKey: uuid.NewString(),
		SecretKey: secret,
	})
	if err != nil {
		logger.Error("failed to save key", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to save key: %w", op, err)
	}

	token, err := security.NewToken(key, a.tokenTTL)
	if err != nil {
		logger.Error("failed to generate token", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to generate token: %w", op, err)
	}

	logger.Info("user logged in successfully", slog.Int64("userID", user.ID))
	return &Credentials{
		PublicKey: key.PublicKey,
		SecretKey: key.SecretKey,
		Token:     token,
	}, nil
}

func newSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func rollback(tx *sql.Tx, logger *slog.Logger) {
	if err := tx.Rollback(); err != nil {
		logger.Error("transaction rollback failed", slog.Any("error", err))
	}
}
