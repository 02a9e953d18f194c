package domain

import "strings"

// PixConfig — реквизиты для приёма оплаты, одни на весь сервер.
type PixConfig struct {
	Key   string
	Name  string
	City  string
	QRURL string
}

// IsComplete сообщает, можно ли оформлять заказы с этими реквизитами.
func (p PixConfig) IsComplete() bool {
	return strings.TrimSpace(p.Key) != "" &&
		strings.TrimSpace(p.Name) != "" &&
		strings.TrimSpace(p.City) != ""
}
