package price

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrCoinNotFound = errors.New("coin price not found")
	ErrUnavailable  = errors.New("price service unavailable")
)

// Provider возвращает текущую цену монеты в валюте котировки
type Provider interface {
	Price(ctx context.Context, coin string) (decimal.Decimal, error)
}

// Client - клиент публичного API CoinGecko (/simple/price)
type Client struct {
	log        *slog.Logger
	httpClient *http.Client
	baseURL    string
	vsCurrency string
}

var _ Provider = (*Client)(nil)

// NewClient создаёт клиента; timeout ограничивает каждый запрос целиком
func NewClient(log *slog.Logger, baseURL, vsCurrency string, timeout time.Duration) *Client {
	return &Client{
		log:        log,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		vsCurrency: strings.ToLower(vsCurrency),
	}
}

// Price запрашивает цену монеты. Неизвестная монета - ErrCoinNotFound,
// сетевые ошибки и ответы не 2xx - ErrUnavailable.
func (c *Client) Price(ctx context.Context, coin string) (decimal.Decimal, error) {
	const op = "price.Client.Price"
	logger := c.log.With(slog.String("op", op), slog.String("coin", coin))

	if coin == "" {
		return decimal.Zero, fmt.Errorf("%s: %w", op, ErrCoinNotFound)
	}

	query := url.Values{}
	query.Set("ids", coin)
	query.Set("vs_currencies", c.vsCurrency)
	endpoint := fmt.Sprintf("%s/simple/price?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("price request failed", slog.Any("error", err))
		return decimal.Zero, fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Error("unexpected price response", slog.Int("status", resp.StatusCode))
		return decimal.Zero, fmt.Errorf("%s: %w: status %d", op, ErrUnavailable, resp.StatusCode)
	}

	// ответ вида {"bitcoin": {"usd": 67187.33}}
	var body map[string]map[string]decimal.Decimal
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		logger.Error("failed to decode price response", slog.Any("error", err))
		return decimal.Zero, fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}

	quotes, ok := body[coin]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s: %w", op, ErrCoinNotFound)
	}
	p, ok := quotes[c.vsCurrency]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s: %w", op, ErrCoinNotFound)
	}
	if !p.IsPositive() {
		logger.Warn("non-positive price received", slog.String("price", p.String()))
		return decimal.Zero, fmt.Errorf("%s: %w: non-positive price", op, ErrUnavailable)
	}

	logger.Debug("price resolved", slog.String("price", p.String()))
	return p, nil
}
