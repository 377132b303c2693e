package trading

import "github.com/shopspring/decimal"

// Precision - число знаков после запятой для торгуемых количеств
const Precision int32 = 4

// Quantize отбрасывает всё, что меньше 10^-4 (floor, не округление),
// поэтому вычисленная трата никогда не превышает доступный баланс.
func Quantize(x decimal.Decimal) decimal.Decimal {
	return x.RoundFloor(Precision)
}

// IsQuantized сообщает, представимо ли x ровно с точностью Precision
func IsQuantized(x decimal.Decimal) bool {
	return x.Equal(Quantize(x))
}
