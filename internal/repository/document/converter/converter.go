package converter

import (
	"encoding/json"
	"time"

	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

// DocumentConverter переводит записи документа в доменные сущности и обратно.
type DocumentConverter struct{}

func NewDocumentConverter() DocumentConverter {
	return DocumentConverter{}
}

func (DocumentConverter) ToProductModel(p *domain.Product) ProductModel {
	var createdAt *time.Time
	if !p.CreatedAt.IsZero() {
		t := p.CreatedAt
		createdAt = &t
	}

	return ProductModel{
		ID:          p.ID,
		ChannelID:   p.ChannelID,
		Name:        p.Name,
		Price:       toNumber(p.Price),
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Delivery:    p.Delivery,
		Active:      p.Active,
		CreatedAt:   createdAt,
	}
}

func (DocumentConverter) ToProduct(m *ProductModel) (*domain.Product, error) {
	price, err := fromNumber(m.Price)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	p := &domain.Product{
		ID:          m.ID,
		ChannelID:   m.ChannelID,
		Name:        m.Name,
		Price:       price,
		Description: m.Description,
		ImageURL:    m.ImageURL,
		Delivery:    m.Delivery,
		Active:      m.Active,
	}
	if m.CreatedAt != nil {
		p.CreatedAt = *m.CreatedAt
	}

	return p, nil
}

func (DocumentConverter) ToPixModel(p domain.PixConfig) PixModel {
	return PixModel{Key: p.Key, Name: p.Name, City: p.City, QRURL: p.QRURL}
}

func (DocumentConverter) ToPix(m PixModel) domain.PixConfig {
	return domain.PixConfig{Key: m.Key, Name: m.Name, City: m.City, QRURL: m.QRURL}
}

func (DocumentConverter) ToOrderModel(o *domain.Order) OrderModel {
	return OrderModel{
		ID:          o.ID,
		ProductID:   o.ProductID,
		ProductName: o.ProductName,
		Price:       toNumber(o.Price),
		BuyerID:     o.BuyerID,
		ChannelID:   o.ChannelID,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt,
		PaidAt:      o.PaidAt,
	}
}

func (DocumentConverter) ToOrder(m *OrderModel) (*domain.Order, error) {
	price, err := fromNumber(m.Price)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &domain.Order{
		ID:          m.ID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Price:       price,
		BuyerID:     m.BuyerID,
		ChannelID:   m.ChannelID,
		Status:      domain.OrderStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		PaidAt:      m.PaidAt,
	}, nil
}

// toNumber сохраняет цену JSON-числом с двумя знаками после запятой.
func toNumber(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func fromNumber(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}

	return decimal.NewFromString(n.String())
}
