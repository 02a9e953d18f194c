package domain

import (
	"strings"
	"time"

	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxPrice — верхняя граница цены товара в реалах.
var maxPrice = decimal.NewFromInt(1_000_000_000)

// Product описывает товар витрины. ChannelID задаёт канал, в котором товар виден.
// Цена и название не меняются после создания, удаление только мягкое (Active = false).
type Product struct {
	ID          string
	ChannelID   string
	Name        string
	Price       decimal.Decimal
	Description string
	ImageURL    string
	Delivery    string // содержимое, которое отправляется покупателю после подтверждения заказа
	Active      bool
	CreatedAt   time.Time
}

func NewProduct(channelID, name string, price decimal.Decimal, description, imageURL, delivery string, now time.Time) *Product {
	return &Product{
		ID:          NewProductID(),
		ChannelID:   channelID,
		Name:        strings.TrimSpace(name),
		Price:       price,
		Description: description,
		ImageURL:    imageURL,
		Delivery:    delivery,
		Active:      true,
		CreatedAt:   now.UTC(),
	}
}

func NewProductID() string {
	return "p_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// InScope сообщает, виден ли товар в каталоге канала scope.
func (p *Product) InScope(scope string) bool {
	return p.Active && p.ChannelID == scope
}

// ParsePrice разбирает цену вида "19.90", "19,90" или "20".
// Возвращает ошибку, если формат неверный, цена отрицательная, больше maxPrice
// или содержит больше двух знаков после запятой.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, e.ErrInvalidPrice
	}

	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, e.ErrInvalidPrice
	}

	return d, ValidatePrice(d)
}

func ValidatePrice(d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThan(maxPrice) {
		return e.ErrInvalidPrice
	}

	if !d.Equal(d.Round(2)) {
		return e.ErrPricePrecision
	}

	return nil
}
