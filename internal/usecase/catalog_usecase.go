package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/DRSN-tech/pix-shop-bot/pkg/logger"
)

const productImagesFolder = "products"

// CatalogUseCase управляет каталогами товаров, привязанными к каналам.
type CatalogUseCase struct {
	productRepo ProductRepository
	media       MediaUC
	logger      logger.Logger
	now         func() time.Time
}

func NewCatalogUC(productRepo ProductRepository, media MediaUC, logger logger.Logger) *CatalogUseCase {
	return &CatalogUseCase{
		productRepo: productRepo,
		media:       media,
		logger:      logger,
		now:         time.Now,
	}
}

// AddProduct проверяет ввод и сохраняет новый активный товар в каталоге канала req.ChannelID.
func (c *CatalogUseCase) AddProduct(ctx context.Context, req *AddProductReq) (*domain.Product, error) {
	const op = "CatalogUseCase.AddProduct"

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, e.Wrap(op, e.ErrProductNameRequired)
	}

	price, err := domain.ParsePrice(req.Price)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	imageURL := c.media.Persist(ctx, req.ImageURL, productImagesFolder)
	product := domain.NewProduct(req.ChannelID, name, price, strings.TrimSpace(req.Description), imageURL, req.Delivery, c.now())

	if err := c.productRepo.Create(ctx, product); err != nil {
		return nil, e.Wrap(op, err)
	}

	c.logger.Infof("product %s (%s) added to channel %s", product.ID, product.Name, product.ChannelID)
	return product, nil
}

func (c *CatalogUseCase) ListActive(ctx context.Context, scopeID string) ([]domain.Product, error) {
	const op = "CatalogUseCase.ListActive"

	products, err := c.productRepo.ListActive(ctx, scopeID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

func (c *CatalogUseCase) FindActive(ctx context.Context, id, scopeID string) (*domain.Product, error) {
	const op = "CatalogUseCase.FindActive"

	product, err := c.productRepo.FindActive(ctx, id, scopeID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return product, nil
}

// RemoveProduct мягко удаляет товар: он пропадает из меню, но заказы сохраняют свои данные.
func (c *CatalogUseCase) RemoveProduct(ctx context.Context, id, scopeID string) (*domain.Product, error) {
	const op = "CatalogUseCase.RemoveProduct"

	product, err := c.productRepo.Deactivate(ctx, strings.TrimSpace(id), scopeID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.logger.Infof("product %s removed from channel %s", product.ID, scopeID)
	return product, nil
}
