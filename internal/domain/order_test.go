package domain_test

import (
	"testing"
	"time"

	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_MarkPaidOnce(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	product := domain.NewProduct("C1", "Gift Card", decimal.RequireFromString("19.90"), "", "", "", created)
	order := domain.NewOrder(product, "U1", "T1", created)

	require.Equal(t, domain.OrderPending, order.Status)
	require.Nil(t, order.PaidAt)

	paidAt := created.Add(time.Hour)
	require.NoError(t, order.MarkPaid(paidAt))
	assert.Equal(t, domain.OrderPaid, order.Status)
	assert.Equal(t, paidAt, *order.PaidAt)

	err := order.MarkPaid(paidAt.Add(time.Hour))
	assert.ErrorIs(t, err, e.ErrOrderAlreadyPaid)
	assert.Equal(t, paidAt, *order.PaidAt)
}

func TestPixConfig_IsComplete(t *testing.T) {
	assert.False(t, domain.PixConfig{Key: "", Name: "Ana", City: "SP"}.IsComplete())
	assert.False(t, domain.PixConfig{Key: "k", Name: " ", City: "SP"}.IsComplete())
	assert.True(t, domain.PixConfig{Key: "k", Name: "Ana", City: "SP"}.IsComplete())
}

func TestCartSummary_Text(t *testing.T) {
	product := domain.NewProduct("C1", "Gift Card", decimal.RequireFromString("19.90"), "", "", "", time.Now())
	line := domain.NewCartLine(product, 2)
	summary := &domain.CartSummary{Lines: []domain.CartLine{line}, Total: line.Subtotal}

	assert.Equal(t, "Gift Card x2 — R$ 39.80", line.String())
	assert.Equal(t, "• Gift Card x2 — R$ 39.80\n\nTotal: R$ 39.80", summary.Text())
	assert.False(t, summary.IsEmpty())

	empty := &domain.CartSummary{Total: decimal.Zero}
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, domain.EmptyCartText, empty.Text())
}

func TestTicket_CloseLifecycle(t *testing.T) {
	ticket := domain.NewTicket("T1", "U1", "", time.Now())
	require.NoError(t, ticket.MarkPaidSignaled())

	require.NoError(t, ticket.BeginClose())
	assert.Equal(t, domain.TicketClosing, ticket.State)
	assert.ErrorIs(t, ticket.BeginClose(), e.ErrTicketClosing)
	assert.ErrorIs(t, ticket.MarkPaidSignaled(), e.ErrTicketClosing)

	require.NoError(t, ticket.CancelClose())
	assert.Equal(t, domain.TicketPaidSignaled, ticket.State)
	assert.ErrorIs(t, ticket.CancelClose(), e.ErrTicketNotClosing)
}
