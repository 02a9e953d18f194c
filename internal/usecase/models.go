package usecase

import (
	"time"

	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
)

// CATALOG

// AddProductReq — запрос администратора на добавление товара в каталог канала.
type AddProductReq struct {
	ChannelID   string
	Name        string
	Price       string // как ввёл администратор: "19.90" или "19,90"
	Description string
	ImageURL    string
	Delivery    string
}

// PAYMENT

type SetPixReq struct {
	Key   string
	Name  string
	City  string
	QRURL string
}

// CART

type AddToCartRes struct {
	Product *domain.Product
	Summary *domain.CartSummary
}

// TICKETS

type CheckoutReq struct {
	CustomerID string
	Username   string
	ScopeID    string
}

type CheckoutRes struct {
	ChannelID string
	Summary   *domain.CartSummary
}

// TicketActionReq — нажатие кнопки внутри канала тикета.
type TicketActionReq struct {
	ChannelID    string
	OwnerID      string // владелец из токена кнопки
	ActorID      string
	ActorIsAdmin bool
}

// ORDERS

type BuyReq struct {
	BuyerID     string
	Username    string
	ScopeID     string
	ProductName string
}

type BuyRes struct {
	Order     *domain.Order
	ChannelID string
}

// INFRASTRUCTURE

type CreateTicketChannelReq struct {
	Name        string
	ParentID    string
	OwnerID     string
	AdminRoleID string
}

// PaymentInstructions — первое сообщение в канале тикета.
type PaymentInstructions struct {
	OwnerID     string
	AdminRoleID string
	OrderID     string // пусто для заказов из корзины
	Summary     *domain.CartSummary
	Pix         domain.PixConfig
}

type DeliveryMessage struct {
	BuyerID     string
	OrderID     string
	ProductName string
	Content     string
}

type MirrorImageReq struct {
	URL    string
	Folder string
}

// TicketSettings — параметры создания и закрытия тикетов.
type TicketSettings struct {
	SalesCategoryID string
	AdminRoleID     string
	NamePrefix      string
	CloseDelay      time.Duration
}

// MAPPERS

func NewCheckoutRes(channelID string, summary *domain.CartSummary) *CheckoutRes {
	return &CheckoutRes{ChannelID: channelID, Summary: summary}
}

func NewBuyRes(order *domain.Order, channelID string) *BuyRes {
	return &BuyRes{Order: order, ChannelID: channelID}
}

func NewMirrorImageReq(url, folder string) *MirrorImageReq {
	return &MirrorImageReq{URL: url, Folder: folder}
}

// NewSingleLineSummary описывает покупку одного товара как корзину из одной строки.
func NewSingleLineSummary(p *domain.Product) *domain.CartSummary {
	line := domain.NewCartLine(p, 1)
	return &domain.CartSummary{Lines: []domain.CartLine{line}, Total: line.Subtotal}
}
