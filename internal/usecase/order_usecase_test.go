package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
	"github.com/DRSN-tech/pix-shop-bot/internal/usecase"
	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buyReq(name string) *usecase.BuyReq {
	return &usecase.BuyReq{BuyerID: "U1", Username: "bob", ScopeID: "C1", ProductName: name}
}

func TestBuy_CreatesPendingOrderWithTicket(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Hour)
	env.configurePix(t)
	gift := env.addProduct(t, "C1", "Gift Card", "19.90")

	res, err := env.order.Buy(ctx, buyReq("gift card"))
	require.NoError(t, err)
	assert.Equal(t, "T1", res.ChannelID)
	assert.Equal(t, domain.OrderPending, res.Order.Status)
	assert.Equal(t, gift.ID, res.Order.ProductID)
	assert.Equal(t, "T1", res.Order.ChannelID)

	stored, err := env.order.Get(ctx, res.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gift Card", stored.ProductName)

	msg := env.platform.instructions["T1"]
	require.NotNil(t, msg)
	assert.Equal(t, res.Order.ID, msg.OrderID)
	assert.Equal(t, "• Gift Card x1 — R$ 19.90\n\nTotal: R$ 19.90", msg.Summary.Text())
	assert.Equal(t, "ticket-bob", env.platform.created[0].Name)

	assert.Equal(t, []domain.EventType{domain.EventOrderCreated}, env.publisher.types())
}

func TestBuy_Preconditions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Hour)
	env.addProduct(t, "C1", "Gift Card", "19.90")

	_, err := env.order.Buy(ctx, buyReq("Unknown"))
	assert.ErrorIs(t, err, e.ErrProductNotFound)

	_, err = env.order.Buy(ctx, &usecase.BuyReq{BuyerID: "U1", ScopeID: "C2", ProductName: "Gift Card"})
	assert.ErrorIs(t, err, e.ErrProductNotFound)

	_, err = env.order.Buy(ctx, buyReq("Gift Card"))
	assert.ErrorIs(t, err, e.ErrPixNotConfigured)

	assert.Empty(t, env.platform.created)
}

func TestBuy_PersistFailureRemovesChannel(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Hour, func(env *testEnv) {
		env.orders = failingOrderRepo{OrderRepository: env.orders}
	})
	env.configurePix(t)
	env.addProduct(t, "C1", "Gift Card", "19.90")

	_, err := env.order.Buy(ctx, buyReq("Gift Card"))
	require.Error(t, err)

	assert.Equal(t, []string{"T1"}, env.platform.deletedChannels())
	assert.Equal(t, 0, env.tickets.Len())
	assert.Empty(t, env.publisher.types())
}

func TestBuy_MessageFailureRemovesChannelWithoutOrder(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Hour)
	env.configurePix(t)
	env.addProduct(t, "C1", "Gift Card", "19.90")
	env.platform.sendErr = errPlatform

	_, err := env.order.Buy(ctx, buyReq("Gift Card"))
	assert.ErrorIs(t, err, e.ErrTicketMessageSend)
	assert.Equal(t, []string{"T1"}, env.platform.deletedChannels())
}

func TestConfirm_DeliversOnce(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Hour)
	env.configurePix(t)
	_, err := env.catalog.AddProduct(ctx, &usecase.AddProductReq{
		ChannelID: "C1", Name: "Gift Card", Price: "19.90", Delivery: "CODE-123",
	})
	require.NoError(t, err)

	res, err := env.order.Buy(ctx, buyReq("Gift Card"))
	require.NoError(t, err)

	order, err := env.order.Confirm(ctx, res.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPaid, order.Status)
	require.NotNil(t, order.PaidAt)
	paidAt := *order.PaidAt

	deliveries := env.platform.deliveries["T1"]
	require.Len(t, deliveries, 1)
	assert.Equal(t, "CODE-123", deliveries[0].Content)
	assert.Equal(t, "U1", deliveries[0].BuyerID)

	_, err = env.order.Confirm(ctx, res.Order.ID)
	assert.ErrorIs(t, err, e.ErrOrderAlreadyPaid)
	assert.Len(t, env.platform.deliveries["T1"], 1)

	stored, err := env.order.Get(ctx, res.Order.ID)
	require.NoError(t, err)
	assert.True(t, stored.PaidAt.Equal(paidAt))

	_, err = env.order.Confirm(ctx, "missing")
	assert.ErrorIs(t, err, e.ErrOrderNotFound)
}

func TestConfirm_DeliveryFailureKeepsPaidStatus(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Hour)
	env.configurePix(t)
	env.addProduct(t, "C1", "Gift Card", "19.90")

	res, err := env.order.Buy(ctx, buyReq("Gift Card"))
	require.NoError(t, err)

	env.platform.deliveryErr = errPlatform
	order, err := env.order.Confirm(ctx, res.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPaid, order.Status)
	assert.Contains(t, env.publisher.types(), domain.EventOrderPaid)
}
