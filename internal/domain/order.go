package domain

import (
	"time"

	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending OrderStatus = "PENDING"
	OrderPaid    OrderStatus = "PAID"
)

// Order — запись журнала заказов. Название и цена товара копируются в момент покупки.
type Order struct {
	ID          string
	ProductID   string
	ProductName string
	Price       decimal.Decimal
	BuyerID     string
	ChannelID   string // канал тикета
	Status      OrderStatus
	CreatedAt   time.Time
	PaidAt      *time.Time
}

func NewOrder(product *Product, buyerID, ticketChannelID string, now time.Time) *Order {
	return &Order{
		ID:          uuid.NewString(),
		ProductID:   product.ID,
		ProductName: product.Name,
		Price:       product.Price,
		BuyerID:     buyerID,
		ChannelID:   ticketChannelID,
		Status:      OrderPending,
		CreatedAt:   now.UTC(),
	}
}

// MarkPaid переводит заказ PENDING -> PAID. Повторное подтверждение отклоняется, PaidAt не меняется.
func (o *Order) MarkPaid(now time.Time) error {
	if o.Status == OrderPaid {
		return e.ErrOrderAlreadyPaid
	}

	paidAt := now.UTC()
	o.Status = OrderPaid
	o.PaidAt = &paidAt

	return nil
}
