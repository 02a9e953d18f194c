package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/DRSN-tech/pix-shop-bot/pkg/logger"
)

// OrderUseCase — журнал заказов: покупка одного товара и подтверждение оплаты администратором.
type OrderUseCase struct {
	productRepo ProductRepository
	orderRepo   OrderRepository
	paymentRepo PaymentRepository
	ticketRepo  TicketRepository
	platform    TicketPlatform
	publisher   EventPublisher
	settings    TicketSettings
	logger      logger.Logger
	now         func() time.Time
}

func NewOrderUC(
	productRepo ProductRepository,
	orderRepo OrderRepository,
	paymentRepo PaymentRepository,
	ticketRepo TicketRepository,
	platform TicketPlatform,
	publisher EventPublisher,
	settings TicketSettings,
	logger logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		ticketRepo:  ticketRepo,
		platform:    platform,
		publisher:   publisher,
		settings:    settings,
		logger:      logger,
		now:         time.Now,
	}
}

// Buy создаёт заказ PENDING на товар из каталога канала и открывает тикет с инструкциями по оплате.
// Если заказ не удалось сохранить, созданный канал удаляется.
func (o *OrderUseCase) Buy(ctx context.Context, req *BuyReq) (*BuyRes, error) {
	const op = "OrderUseCase.Buy"

	product, err := o.productRepo.FindActiveByName(ctx, strings.TrimSpace(req.ProductName), req.ScopeID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	pix, err := requirePix(ctx, o.paymentRepo)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	channelID, err := openTicketChannel(ctx, o.platform, o.settings, req.BuyerID, req.Username)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	order := domain.NewOrder(product, req.BuyerID, channelID, o.now())
	msg := &PaymentInstructions{
		OwnerID:     req.BuyerID,
		AdminRoleID: o.settings.AdminRoleID,
		OrderID:     order.ID,
		Summary:     NewSingleLineSummary(product),
		Pix:         pix,
	}
	if err := o.platform.SendPaymentInstructions(ctx, channelID, msg); err != nil {
		discardChannel(o.platform, o.logger, channelID)
		return nil, e.Wrap(op, fmt.Errorf("%w: %w", e.ErrTicketMessageSend, err))
	}

	if err := o.orderRepo.Create(ctx, order); err != nil {
		discardChannel(o.platform, o.logger, channelID)
		return nil, e.Wrap(op, err)
	}

	if err := o.ticketRepo.Create(ctx, domain.NewTicket(channelID, req.BuyerID, order.ID, o.now())); err != nil {
		o.logger.Warnf("%s: failed to register ticket %s: %v", op, channelID, err)
	}

	publish(ctx, o.publisher, o.logger, domain.EventOrderCreated, req.BuyerID, channelID, order.ID, order.Price, o.now())
	o.logger.Infof("order %s created for %s: %s %s", order.ID, req.BuyerID, order.ProductName, domain.FormatBRL(order.Price))

	return NewBuyRes(order, channelID), nil
}

// Confirm переводит заказ в PAID и отправляет покупателю содержимое товара.
// Ошибка доставки не откатывает подтверждение.
func (o *OrderUseCase) Confirm(ctx context.Context, orderID string) (*domain.Order, error) {
	const op = "OrderUseCase.Confirm"

	order, err := o.orderRepo.MarkPaid(ctx, strings.TrimSpace(orderID), o.now())
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var content string
	product, err := o.productRepo.FindByID(ctx, order.ProductID)
	if err != nil {
		o.logger.Warnf("%s: product %s of order %s not found: %v", op, order.ProductID, order.ID, err)
	} else {
		content = product.Delivery
	}

	delivery := &DeliveryMessage{
		BuyerID:     order.BuyerID,
		OrderID:     order.ID,
		ProductName: order.ProductName,
		Content:     content,
	}
	if err := o.platform.SendDelivery(ctx, order.ChannelID, delivery); err != nil {
		o.logger.Errorf(e.Wrap(op, err), "order %s confirmed but delivery to channel %s failed", order.ID, order.ChannelID)
	}

	publish(ctx, o.publisher, o.logger, domain.EventOrderPaid, order.BuyerID, order.ChannelID, order.ID, order.Price, o.now())
	o.logger.Infof("order %s paid", order.ID)

	return order, nil
}

func (o *OrderUseCase) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	const op = "OrderUseCase.Get"

	order, err := o.orderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return order, nil
}
