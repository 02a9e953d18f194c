package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventTicketOpened       EventType = "ticket.opened"
	EventTicketPaidSignaled EventType = "ticket.paid_signaled"
	EventTicketClosed       EventType = "ticket.closed"
	EventOrderCreated       EventType = "order.created"
	EventOrderPaid          EventType = "order.paid"
)

// Event — событие жизненного цикла заказа или тикета для внешних подписчиков.
type Event struct {
	ID         string
	Type       EventType
	BuyerID    string
	ChannelID  string
	OrderID    string
	Total      decimal.Decimal
	OccurredAt time.Time
}

func NewEvent(t EventType, buyerID, channelID, orderID string, total decimal.Decimal, now time.Time) *Event {
	return &Event{
		ID:         uuid.NewString(),
		Type:       t,
		BuyerID:    buyerID,
		ChannelID:  channelID,
		OrderID:    orderID,
		Total:      total,
		OccurredAt: now.UTC(),
	}
}
