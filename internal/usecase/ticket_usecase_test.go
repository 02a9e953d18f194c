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

func checkoutReq() *usecase.CheckoutReq {
	return &usecase.CheckoutReq{CustomerID: "U1", Username: "Alice Smith!", ScopeID: "C1"}
}

func (env *testEnv) fillCart(t *testing.T) *domain.Product {
	t.Helper()
	gift := env.addProduct(t, "C1", "Gift Card", "19.90")
	for i := 0; i < 2; i++ {
		_, err := env.cart.Add(context.Background(), domain.NewCartKey("U1", "C1"), gift.ID)
		require.NoError(t, err)
	}
	return gift
}

func TestCheckout_PreconditionOrder(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Hour)

	_, err := env.ticket.Checkout(ctx, checkoutReq())
	assert.ErrorIs(t, err, e.ErrPixNotConfigured)

	env.configurePix(t)
	_, err = env.ticket.Checkout(ctx, checkoutReq())
	assert.ErrorIs(t, err, e.ErrEmptyCart)

	gift := env.fillCart(t)
	env.platform.categoryExists = false
	_, err = env.ticket.Checkout(ctx, checkoutReq())
	assert.ErrorIs(t, err, e.ErrTicketCategoryMissing)

	assert.Empty(t, env.platform.created)
	items, err := env.carts.Items(ctx, domain.NewCartKey("U1", "C1"))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{gift.ID: 2}, items)
}

func TestCheckout_OpensTicketAndClearsCart(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Hour)
	env.configurePix(t)
	env.fillCart(t)

	res, err := env.ticket.Checkout(ctx, checkoutReq())
	require.NoError(t, err)
	assert.Equal(t, "T1", res.ChannelID)
	assert.Equal(t, "• Gift Card x2 — R$ 39.80\n\nTotal: R$ 39.80", res.Summary.Text())

	require.Len(t, env.platform.created, 1)
	created := env.platform.created[0]
	assert.Equal(t, "ticket-alice-smith", created.Name)
	assert.Equal(t, "sales", created.ParentID)
	assert.Equal(t, "U1", created.OwnerID)
	assert.Equal(t, "admins", created.AdminRoleID)

	msg := env.platform.instructions["T1"]
	require.NotNil(t, msg)
	assert.Equal(t, "key@pix", msg.Pix.Key)
	assert.Equal(t, "Loja", msg.Pix.Name)
	assert.Equal(t, "Sao Paulo", msg.Pix.City)
	assert.Equal(t, "U1", msg.OwnerID)
	assert.Empty(t, msg.OrderID)

	summary, err := env.cart.Summarize(ctx, domain.NewCartKey("U1", "C1"))
	require.NoError(t, err)
	assert.True(t, summary.IsEmpty())

	assert.Equal(t, []domain.EventType{domain.EventTicketOpened}, env.publisher.types())
	assert.Equal(t, 1, env.tickets.Len())
}

func TestCheckout_MessageFailureRemovesChannelAndKeepsCart(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Hour)
	env.configurePix(t)
	env.fillCart(t)
	env.platform.sendErr = errPlatform

	_, err := env.ticket.Checkout(ctx, checkoutReq())
	assert.ErrorIs(t, err, e.ErrTicketMessageSend)
	assert.ErrorIs(t, err, errPlatform)

	assert.Equal(t, []string{"T1"}, env.platform.deletedChannels())
	summary, err := env.cart.Summarize(ctx, domain.NewCartKey("U1", "C1"))
	require.NoError(t, err)
	assert.False(t, summary.IsEmpty())
	assert.Equal(t, 0, env.tickets.Len())
}

func TestCheckout_ChannelCreateFailureKeepsCart(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Hour)
	env.configurePix(t)
	env.fillCart(t)
	env.platform.createErr = errPlatform

	_, err := env.ticket.Checkout(ctx, checkoutReq())
	assert.ErrorIs(t, err, e.ErrTicketChannelCreate)

	summary, err := env.cart.Summarize(ctx, domain.NewCartKey("U1", "C1"))
	require.NoError(t, err)
	assert.False(t, summary.IsEmpty())
	assert.Empty(t, env.publisher.types())
}

func TestReview_EmptyCart(t *testing.T) {
	env := newTestEnv(t, time.Hour)

	_, err := env.ticket.Review(context.Background(), domain.NewCartKey("U1", "C1"))
	assert.ErrorIs(t, err, e.ErrEmptyCart)
}

func TestMarkPaid_OnlyOwner(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Hour)

	err := env.ticket.MarkPaid(ctx, &usecase.TicketActionReq{ChannelID: "T1", OwnerID: "U1", ActorID: "U2", ActorIsAdmin: true})
	assert.ErrorIs(t, err, e.ErrNotTicketOwner)
	assert.Empty(t, env.publisher.types())

	err = env.ticket.MarkPaid(ctx, &usecase.TicketActionReq{ChannelID: "T1", OwnerID: "U1", ActorID: "U1"})
	require.NoError(t, err)
	assert.Equal(t, []domain.EventType{domain.EventTicketPaidSignaled}, env.publisher.types())
}

func TestClose_DeletesChannelAfterDelay(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, 20*time.Millisecond)
	require.NoError(t, env.tickets.Create(ctx, domain.NewTicket("T1", "U1", "", time.Now())))

	_, err := env.ticket.Close(ctx, &usecase.TicketActionReq{ChannelID: "T1", OwnerID: "U1", ActorID: "U2"})
	assert.ErrorIs(t, err, e.ErrCannotCloseTicket)

	delay, err := env.ticket.Close(ctx, &usecase.TicketActionReq{ChannelID: "T1", OwnerID: "U1", ActorID: "A1", ActorIsAdmin: true})
	require.NoError(t, err)
	assert.Equal(t, 20*time.Millisecond, delay)

	_, err = env.ticket.Close(ctx, &usecase.TicketActionReq{ChannelID: "T1", OwnerID: "U1", ActorID: "U1"})
	assert.ErrorIs(t, err, e.ErrTicketClosing)

	err = env.ticket.MarkPaid(ctx, &usecase.TicketActionReq{ChannelID: "T1", OwnerID: "U1", ActorID: "U1"})
	assert.ErrorIs(t, err, e.ErrTicketClosing)

	assert.Eventually(t, func() bool {
		return len(env.platform.deletedChannels()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"T1"}, env.platform.deletedChannels())
	assert.Eventually(t, func() bool { return env.tickets.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestKeepOpen_CancelsPendingDeletion(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Hour)
	req := &usecase.TicketActionReq{ChannelID: "T1", OwnerID: "U1", ActorID: "U1"}

	err := env.ticket.KeepOpen(ctx, req)
	assert.ErrorIs(t, err, e.ErrTicketNotClosing)

	require.NoError(t, env.ticket.MarkPaid(ctx, req))
	_, err = env.ticket.Close(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, env.scheduler.Pending())

	err = env.ticket.KeepOpen(ctx, &usecase.TicketActionReq{ChannelID: "T1", OwnerID: "U1", ActorID: "U2"})
	assert.ErrorIs(t, err, e.ErrCannotReopenTicket)

	require.NoError(t, env.ticket.KeepOpen(ctx, req))
	assert.Equal(t, 0, env.scheduler.Pending())
	assert.Empty(t, env.platform.deletedChannels())

	_, err = env.ticket.Close(ctx, req)
	require.NoError(t, err)
}
