package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade - запись журнала исполненных сделок
type Trade struct {
	ID        int64           `json:"-"`
	UserID    int64           `json:"-"`
	Coin      string          `json:"coin"`
	Side      Side            `json:"side"`
	Price     decimal.Decimal `json:"price"`
	Quantity  decimal.Decimal `json:"quantity"`
	CreatedAt time.Time       `json:"createdAt"`
}
