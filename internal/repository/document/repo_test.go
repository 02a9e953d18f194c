package document_test

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
	"github.com/DRSN-tech/pix-shop-bot/internal/repository/document"
	"github.com/DRSN-tech/pix-shop-bot/internal/repository/document/converter"
	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repos struct {
	products *document.ProductRepo
	orders   *document.OrderRepo
	payments *document.PaymentRepo
}

func newRepos(t *testing.T) repos {
	t.Helper()
	store, _ := newFileStore(t)
	conv := converter.NewDocumentConverter()
	return repos{
		products: document.NewProductRepo(store, conv),
		orders:   document.NewOrderRepo(store, conv),
		payments: document.NewPaymentRepo(store, conv),
	}
}

func TestProductRepo_ScopeAndOrder(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)
	now := time.Now()

	first := domain.NewProduct("C1", "First", decimal.RequireFromString("19.90"), "", "", "", now)
	other := domain.NewProduct("C2", "Other", decimal.NewFromInt(5), "", "", "", now)
	second := domain.NewProduct("C1", "Second", decimal.NewFromInt(3), "", "", "", now)
	for _, p := range []*domain.Product{first, other, second} {
		require.NoError(t, r.products.Create(ctx, p))
	}

	list, err := r.products.ListActive(ctx, "C1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
	assert.True(t, list[0].Price.Equal(decimal.RequireFromString("19.90")))

	_, err = r.products.FindActive(ctx, other.ID, "C1")
	assert.ErrorIs(t, err, e.ErrProductNotFound)

	found, err := r.products.FindActiveByName(ctx, "first", "C1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

func TestProductRepo_DeactivateKeepsOrderSnapshot(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)
	now := time.Now()

	product := domain.NewProduct("C1", "Gift Card", decimal.RequireFromString("19.90"), "", "", "CODE-123", now)
	require.NoError(t, r.products.Create(ctx, product))

	order := domain.NewOrder(product, "U1", "T1", now)
	require.NoError(t, r.orders.Create(ctx, order))

	removed, err := r.products.Deactivate(ctx, product.ID, "C1")
	require.NoError(t, err)
	assert.False(t, removed.Active)

	_, err = r.products.Deactivate(ctx, product.ID, "C1")
	assert.ErrorIs(t, err, e.ErrProductNotFound)

	list, err := r.products.ListActive(ctx, "C1")
	require.NoError(t, err)
	assert.Empty(t, list)

	stored, err := r.products.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "CODE-123", stored.Delivery)

	got, err := r.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gift Card", got.ProductName)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("19.90")))
	assert.Equal(t, domain.OrderPending, got.Status)
}

func TestProductRepo_DeactivateOtherScope(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)

	product := domain.NewProduct("C1", "Gift Card", decimal.NewFromInt(1), "", "", "", time.Now())
	require.NoError(t, r.products.Create(ctx, product))

	_, err := r.products.Deactivate(ctx, product.ID, "C2")
	assert.ErrorIs(t, err, e.ErrProductNotFound)

	list, err := r.products.ListActive(ctx, "C1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestOrderRepo_MarkPaidOnce(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)

	product := domain.NewProduct("C1", "Gift Card", decimal.NewFromInt(10), "", "", "", time.Now())
	order := domain.NewOrder(product, "U1", "T1", time.Now())
	require.NoError(t, r.orders.Create(ctx, order))

	paidAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	paid, err := r.orders.MarkPaid(ctx, order.ID, paidAt)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPaid, paid.Status)

	_, err = r.orders.MarkPaid(ctx, order.ID, paidAt.Add(time.Hour))
	assert.ErrorIs(t, err, e.ErrOrderAlreadyPaid)

	got, err := r.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PaidAt)
	assert.True(t, got.PaidAt.Equal(paidAt))

	_, err = r.orders.MarkPaid(ctx, "missing", paidAt)
	assert.ErrorIs(t, err, e.ErrOrderNotFound)
}

func TestPaymentRepo_SetReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)

	require.NoError(t, r.payments.Set(ctx, domain.PixConfig{Key: "k", Name: "n", City: "c", QRURL: "http://qr"}))
	require.NoError(t, r.payments.Set(ctx, domain.PixConfig{Key: "k2", Name: "n2", City: "c2"}))

	pix, err := r.payments.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PixConfig{Key: "k2", Name: "n2", City: "c2"}, pix)
}
