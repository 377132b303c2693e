package trading

import (
	"errors"
	"fmt"

	"github.com/linemk/coin-trader/internal/domain/models"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidPrice        = errors.New("invalid price")
	ErrUnknownSide         = errors.New("unknown order side")
)

// Balances - пара уже загруженных балансов, участвующих в одной сделке.
// Execute меняет их только при успешном исполнении; сохраняет вызывающий.
type Balances struct {
	Quote *models.Asset
	Coin  *models.Asset
}

// Execute исполняет сделку по цене price и возвращает фактические цену и количество.
// При отказе балансы не изменяются.
func Execute(side models.Side, price decimal.Decimal, req models.OrderRequest, b Balances) (*models.OrderResult, error) {
	const op = "trading.Execute"

	if !price.IsPositive() {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidPrice)
	}

	var quantity decimal.Decimal
	switch side {
	case models.SideBuy:
		if req.All {
			// QuoRem усекает частное до Precision знаков, перерасхода не бывает
			quantity, _ = b.Quote.Balance.QuoRem(price, Precision)
			break
		}
		if err := checkQuantity(req.Quantity); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if b.Quote.Balance.LessThan(price.Mul(req.Quantity)) {
			return nil, fmt.Errorf("%s: %w", op, ErrInsufficientBalance)
		}
		quantity = req.Quantity

	case models.SideSell:
		if req.All {
			quantity = Quantize(b.Coin.Balance)
			break
		}
		if err := checkQuantity(req.Quantity); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if b.Coin.Balance.LessThan(req.Quantity) {
			return nil, fmt.Errorf("%s: %w", op, ErrInsufficientBalance)
		}
		quantity = req.Quantity

	default:
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnknownSide, side)
	}

	// "все" при отрицательном балансе не должно превращаться в обратную сделку
	if quantity.IsNegative() {
		quantity = decimal.Zero
	}

	cost := price.Mul(quantity)
	if side == models.SideBuy {
		b.Quote.Balance = b.Quote.Balance.Sub(cost)
		b.Coin.Balance = b.Coin.Balance.Add(quantity)
	} else {
		b.Quote.Balance = b.Quote.Balance.Add(cost)
		b.Coin.Balance = b.Coin.Balance.Sub(quantity)
	}

	return &models.OrderResult{Price: price, Quantity: quantity}, nil
}

// checkQuantity отклоняет отрицательные количества и количества точнее 10^-4.
// Ноль допустим: такая сделка ничего не меняет.
func checkQuantity(q decimal.Decimal) error {
	if q.IsNegative() || !IsQuantized(q) {
		return ErrInvalidQuantity
	}
	return nil
}
