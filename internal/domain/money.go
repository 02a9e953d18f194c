package domain

import "github.com/shopspring/decimal"

// FormatBRL форматирует сумму как "R$ 39.80".
func FormatBRL(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}
