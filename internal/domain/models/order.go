package models

import "github.com/shopspring/decimal"

// Side - направление сделки
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// OrderRequest описывает, сколько купить или продать.
// При All количество вычисляется из доступного баланса, Quantity игнорируется.
type OrderRequest struct {
	All      bool
	Quantity decimal.Decimal
}

// OrderResult возвращается клиенту после исполнения сделки
type OrderResult struct {
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}
