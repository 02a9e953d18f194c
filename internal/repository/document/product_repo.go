package document

import (
	"context"
	"strings"

	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
	"github.com/DRSN-tech/pix-shop-bot/internal/repository/document/converter"
	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/jimlawless/whereami"
)

// ProductRepo реализует каталог товаров поверх документа.
type ProductRepo struct {
	store Store
	conv  converter.DocumentConverter
}

func NewProductRepo(store Store, conv converter.DocumentConverter) *ProductRepo {
	return &ProductRepo{store: store, conv: conv}
}

func (r *ProductRepo) Create(ctx context.Context, product *domain.Product) error {
	err := r.store.Update(ctx, func(doc *converter.DocumentModel) error {
		doc.Products = append(doc.Products, r.conv.ToProductModel(product))
		return nil
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// ListActive возвращает активные товары канала в порядке хранения.
func (r *ProductRepo) ListActive(ctx context.Context, scopeID string) ([]domain.Product, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	products := make([]domain.Product, 0, len(doc.Products))
	for i := range doc.Products {
		m := &doc.Products[i]
		if !m.Active || m.ChannelID != scopeID {
			continue
		}

		p, err := r.conv.ToProduct(m)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		products = append(products, *p)
	}

	return products, nil
}

func (r *ProductRepo) FindActive(ctx context.Context, id, scopeID string) (*domain.Product, error) {
	return r.find(ctx, func(p *domain.Product) bool {
		return p.ID == id && p.InScope(scopeID)
	})
}

// FindActiveByName ищет активный товар канала по названию без учёта регистра.
func (r *ProductRepo) FindActiveByName(ctx context.Context, name, scopeID string) (*domain.Product, error) {
	return r.find(ctx, func(p *domain.Product) bool {
		return strings.EqualFold(p.Name, name) && p.InScope(scopeID)
	})
}

func (r *ProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.find(ctx, func(p *domain.Product) bool {
		return p.ID == id
	})
}

// Deactivate снимает товар с витрины канала. Запись остаётся в документе.
func (r *ProductRepo) Deactivate(ctx context.Context, id, scopeID string) (*domain.Product, error) {
	var product *domain.Product
	err := r.store.Update(ctx, func(doc *converter.DocumentModel) error {
		for i := range doc.Products {
			m := &doc.Products[i]
			if m.ID != id || m.ChannelID != scopeID || !m.Active {
				continue
			}

			m.Active = false
			p, err := r.conv.ToProduct(m)
			if err != nil {
				return err
			}
			product = p
			return nil
		}

		return e.ErrProductNotFound
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return product, nil
}

func (r *ProductRepo) find(ctx context.Context, match func(p *domain.Product) bool) (*domain.Product, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	for i := range doc.Products {
		p, err := r.conv.ToProduct(&doc.Products[i])
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		if match(p) {
			return p, nil
		}
	}

	return nil, e.ErrProductNotFound
}
