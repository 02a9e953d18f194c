package usecase

import (
	"context"

	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/DRSN-tech/pix-shop-bot/pkg/logger"
	"github.com/shopspring/decimal"
)

// CartUseCase ведёт корзины покупателей. Корзина привязана к паре (покупатель, канал).
type CartUseCase struct {
	cartStore   CartStore
	productRepo ProductRepository
	logger      logger.Logger
}

func NewCartUC(cartStore CartStore, productRepo ProductRepository, logger logger.Logger) *CartUseCase {
	return &CartUseCase{cartStore: cartStore, productRepo: productRepo, logger: logger}
}

// Add увеличивает количество товара на единицу. Товар должен быть активен в канале корзины.
func (c *CartUseCase) Add(ctx context.Context, key domain.CartKey, productID string) (*AddToCartRes, error) {
	const op = "CartUseCase.Add"

	product, err := c.productRepo.FindActive(ctx, productID, key.ScopeID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if _, err := c.cartStore.Increment(ctx, key, product.ID); err != nil {
		return nil, e.Wrap(op, err)
	}

	summary, err := c.Summarize(ctx, key)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &AddToCartRes{Product: product, Summary: summary}, nil
}

func (c *CartUseCase) Clear(ctx context.Context, key domain.CartKey) error {
	const op = "CartUseCase.Clear"

	if err := c.cartStore.Clear(ctx, key); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// Summarize сопоставляет корзину с активным каталогом. Позиции, чьи товары
// удалены, пропускаются. Строки идут в порядке каталога.
func (c *CartUseCase) Summarize(ctx context.Context, key domain.CartKey) (*domain.CartSummary, error) {
	const op = "CartUseCase.Summarize"

	items, err := c.cartStore.Items(ctx, key)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	summary := &domain.CartSummary{Total: decimal.Zero}
	if len(items) == 0 {
		return summary, nil
	}

	products, err := c.productRepo.ListActive(ctx, key.ScopeID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	for i := range products {
		qty := items[products[i].ID]
		if qty <= 0 {
			continue
		}

		line := domain.NewCartLine(&products[i], qty)
		summary.Lines = append(summary.Lines, line)
		summary.Total = summary.Total.Add(line.Subtotal)
	}

	return summary, nil
}
