package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
)

type CatalogUC interface {
	AddProduct(ctx context.Context, req *AddProductReq) (*domain.Product, error)
	ListActive(ctx context.Context, scopeID string) ([]domain.Product, error)
	FindActive(ctx context.Context, id, scopeID string) (*domain.Product, error)
	RemoveProduct(ctx context.Context, id, scopeID string) (*domain.Product, error)
}

type PaymentUC interface {
	SetPix(ctx context.Context, req *SetPixReq) (domain.PixConfig, error)
	GetPix(ctx context.Context) (domain.PixConfig, error)
}

type CartUC interface {
	Add(ctx context.Context, key domain.CartKey, productID string) (*AddToCartRes, error)
	Clear(ctx context.Context, key domain.CartKey) error
	Summarize(ctx context.Context, key domain.CartKey) (*domain.CartSummary, error)
}

type TicketUC interface {
	Review(ctx context.Context, key domain.CartKey) (*domain.CartSummary, error)
	Checkout(ctx context.Context, req *CheckoutReq) (*CheckoutRes, error)
	MarkPaid(ctx context.Context, req *TicketActionReq) error
	Close(ctx context.Context, req *TicketActionReq) (time.Duration, error)
	KeepOpen(ctx context.Context, req *TicketActionReq) error
}

type OrderUC interface {
	Buy(ctx context.Context, req *BuyReq) (*BuyRes, error)
	Confirm(ctx context.Context, orderID string) (*domain.Order, error)
	Get(ctx context.Context, orderID string) (*domain.Order, error)
}

type MediaUC interface {
	Persist(ctx context.Context, url, folder string) string
}
