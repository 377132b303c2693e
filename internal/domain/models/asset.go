package models

import "github.com/shopspring/decimal"

// Asset представляет баланс пользователя по одному активу.
// На пару (user, name) приходится ровно одна запись, включая валюту котировки.
type Asset struct {
	ID      int64
	UserID  int64
	Name    string
	Balance decimal.Decimal
}
