package document

import (
	"context"
	"time"

	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
	"github.com/DRSN-tech/pix-shop-bot/internal/repository/document/converter"
	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/jimlawless/whereami"
)

// OrderRepo — журнал заказов в документе.
type OrderRepo struct {
	store Store
	conv  converter.DocumentConverter
}

func NewOrderRepo(store Store, conv converter.DocumentConverter) *OrderRepo {
	return &OrderRepo{store: store, conv: conv}
}

func (r *OrderRepo) Create(ctx context.Context, order *domain.Order) error {
	err := r.store.Update(ctx, func(doc *converter.DocumentModel) error {
		doc.Orders = append(doc.Orders, r.conv.ToOrderModel(order))
		return nil
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (r *OrderRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	for i := range doc.Orders {
		if doc.Orders[i].ID == id {
			return r.conv.ToOrder(&doc.Orders[i])
		}
	}

	return nil, e.Wrap(whereami.WhereAmI(), e.ErrOrderNotFound)
}

// MarkPaid переводит заказ в PAID внутри одного Update, так что два одновременных
// подтверждения не пройдут оба.
func (r *OrderRepo) MarkPaid(ctx context.Context, id string, now time.Time) (*domain.Order, error) {
	var order *domain.Order
	err := r.store.Update(ctx, func(doc *converter.DocumentModel) error {
		for i := range doc.Orders {
			if doc.Orders[i].ID != id {
				continue
			}

			o, err := r.conv.ToOrder(&doc.Orders[i])
			if err != nil {
				return err
			}
			if err := o.MarkPaid(now); err != nil {
				return err
			}

			doc.Orders[i] = r.conv.ToOrderModel(o)
			order = o
			return nil
		}

		return e.ErrOrderNotFound
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return order, nil
}
