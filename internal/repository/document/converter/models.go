package converter

import (
	"encoding/json"
	"time"
)

// DocumentModel — единственный JSON-документ магазина.
type DocumentModel struct {
	Products []ProductModel `json:"products"`
	Pix      PixModel       `json:"pix"`
	Orders   []OrderModel   `json:"orders"`
}

type ProductModel struct {
	ID          string      `json:"id"`
	ChannelID   string      `json:"channelId,omitempty"`
	Name        string      `json:"name"`
	Price       json.Number `json:"price"`
	Description string      `json:"description"`
	ImageURL    string      `json:"imageUrl"`
	Delivery    string      `json:"delivery,omitempty"`
	Active      bool        `json:"active"`
	CreatedAt   *time.Time  `json:"createdAt,omitempty"`
}

type PixModel struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	City  string `json:"city"`
	QRURL string `json:"qrUrl"`
}

type OrderModel struct {
	ID          string      `json:"id"`
	ProductID   string      `json:"productId"`
	ProductName string      `json:"productName"`
	Price       json.Number `json:"price"`
	BuyerID     string      `json:"buyerId"`
	ChannelID   string      `json:"channelId"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	PaidAt      *time.Time  `json:"paidAt,omitempty"`
}

// NewDocument возвращает документ по умолчанию: пустые списки и пустые настройки PIX.
func NewDocument() *DocumentModel {
	return &DocumentModel{
		Products: []ProductModel{},
		Orders:   []OrderModel{},
	}
}

// Normalize заменяет отсутствующие списки пустыми, чтобы документ всегда сериализовался в полной форме.
func (d *DocumentModel) Normalize() {
	if d.Products == nil {
		d.Products = []ProductModel{}
	}
	if d.Orders == nil {
		d.Orders = []OrderModel{}
	}
}
