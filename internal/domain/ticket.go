package domain

import (
	"time"

	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
)

type TicketState string

const (
	TicketAwaitingPayment TicketState = "AWAITING_PAYMENT"
	TicketPaidSignaled    TicketState = "PAID_SIGNALED"
	TicketClosing         TicketState = "CLOSING"
	TicketClosed          TicketState = "CLOSED"
)

// Ticket — приватный канал покупки, видимый покупателю и администраторам.
type Ticket struct {
	ChannelID string
	OwnerID   string
	OrderID   string // пусто для заказов из корзины
	State     TicketState
	CreatedAt time.Time

	resumeState TicketState
}

func NewTicket(channelID, ownerID, orderID string, now time.Time) *Ticket {
	return &Ticket{
		ChannelID: channelID,
		OwnerID:   ownerID,
		OrderID:   orderID,
		State:     TicketAwaitingPayment,
		CreatedAt: now.UTC(),
	}
}

// IsOpen сообщает, принимает ли тикет сигналы оплаты.
func (t *Ticket) IsOpen() bool {
	return t.State == TicketAwaitingPayment || t.State == TicketPaidSignaled
}

// MarkPaidSignaled фиксирует, что покупатель сообщил об оплате.
func (t *Ticket) MarkPaidSignaled() error {
	if !t.IsOpen() {
		return e.ErrTicketClosing
	}

	t.State = TicketPaidSignaled
	return nil
}

// BeginClose переводит тикет в ожидание удаления канала.
func (t *Ticket) BeginClose() error {
	if !t.IsOpen() {
		return e.ErrTicketClosing
	}

	t.resumeState = t.State
	t.State = TicketClosing
	return nil
}

// CancelClose возвращает тикет в состояние, в котором он был до BeginClose.
func (t *Ticket) CancelClose() error {
	if t.State != TicketClosing {
		return e.ErrTicketNotClosing
	}

	t.State = t.resumeState
	return nil
}
