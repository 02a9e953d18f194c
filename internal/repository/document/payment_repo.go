package document

import (
	"context"

	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
	"github.com/DRSN-tech/pix-shop-bot/internal/repository/document/converter"
	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/jimlawless/whereami"
)

// PaymentRepo хранит настройки PIX в документе.
type PaymentRepo struct {
	store Store
	conv  converter.DocumentConverter
}

func NewPaymentRepo(store Store, conv converter.DocumentConverter) *PaymentRepo {
	return &PaymentRepo{store: store, conv: conv}
}

func (r *PaymentRepo) Get(ctx context.Context) (domain.PixConfig, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return domain.PixConfig{}, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToPix(doc.Pix), nil
}

func (r *PaymentRepo) Set(ctx context.Context, pix domain.PixConfig) error {
	err := r.store.Update(ctx, func(doc *converter.DocumentModel) error {
		doc.Pix = r.conv.ToPixModel(pix)
		return nil
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
