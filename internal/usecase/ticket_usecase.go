package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/DRSN-tech/pix-shop-bot/pkg/logger"
	"github.com/shopspring/decimal"
)

// TicketUseCase реализует оформление корзины в приватный канал и жизненный цикл тикета.
type TicketUseCase struct {
	cart        CartUC
	paymentRepo PaymentRepository
	ticketRepo  TicketRepository
	platform    TicketPlatform
	scheduler   CloseScheduler
	publisher   EventPublisher
	settings    TicketSettings
	logger      logger.Logger
	now         func() time.Time
}

func NewTicketUC(
	cart CartUC,
	paymentRepo PaymentRepository,
	ticketRepo TicketRepository,
	platform TicketPlatform,
	scheduler CloseScheduler,
	publisher EventPublisher,
	settings TicketSettings,
	logger logger.Logger,
) *TicketUseCase {
	return &TicketUseCase{
		cart:        cart,
		paymentRepo: paymentRepo,
		ticketRepo:  ticketRepo,
		platform:    platform,
		scheduler:   scheduler,
		publisher:   publisher,
		settings:    settings,
		logger:      logger,
		now:         time.Now,
	}
}

// Review возвращает корзину для экрана подтверждения. Пустая корзина — ошибка.
func (t *TicketUseCase) Review(ctx context.Context, key domain.CartKey) (*domain.CartSummary, error) {
	const op = "TicketUseCase.Review"

	summary, err := t.cart.Summarize(ctx, key)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if summary.IsEmpty() {
		return nil, e.Wrap(op, e.ErrEmptyCart)
	}

	return summary, nil
}

// Checkout открывает канал тикета с инструкциями по оплате и очищает корзину.
// Проверки выполняются в порядке: PIX, корзина, категория. При ошибке корзина не меняется.
func (t *TicketUseCase) Checkout(ctx context.Context, req *CheckoutReq) (*CheckoutRes, error) {
	const op = "TicketUseCase.Checkout"

	pix, err := requirePix(ctx, t.paymentRepo)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	key := domain.NewCartKey(req.CustomerID, req.ScopeID)
	summary, err := t.Review(ctx, key)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	channelID, err := openTicketChannel(ctx, t.platform, t.settings, req.CustomerID, req.Username)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	msg := &PaymentInstructions{
		OwnerID:     req.CustomerID,
		AdminRoleID: t.settings.AdminRoleID,
		Summary:     summary,
		Pix:         pix,
	}
	if err := t.platform.SendPaymentInstructions(ctx, channelID, msg); err != nil {
		t.discardChannel(channelID)
		return nil, e.Wrap(op, fmt.Errorf("%w: %w", e.ErrTicketMessageSend, err))
	}

	if err := t.cart.Clear(ctx, key); err != nil {
		t.logger.Warnf("%s: ticket %s opened but cart %s was not cleared: %v", op, channelID, key, err)
	}

	if err := t.ticketRepo.Create(ctx, domain.NewTicket(channelID, req.CustomerID, "", t.now())); err != nil {
		t.logger.Warnf("%s: failed to register ticket %s: %v", op, channelID, err)
	}

	publish(ctx, t.publisher, t.logger, domain.EventTicketOpened, req.CustomerID, channelID, "", summary.Total, t.now())
	t.logger.Infof("ticket %s opened for %s, total %s", channelID, req.CustomerID, domain.FormatBRL(summary.Total))

	return NewCheckoutRes(channelID, summary), nil
}

// MarkPaid фиксирует сигнал об оплате. Нажать кнопку может только владелец тикета.
func (t *TicketUseCase) MarkPaid(ctx context.Context, req *TicketActionReq) error {
	const op = "TicketUseCase.MarkPaid"

	if req.ActorID != req.OwnerID {
		return e.Wrap(op, e.ErrNotTicketOwner)
	}

	ticket, err := t.ticketRepo.Update(ctx, req.ChannelID, req.OwnerID, func(ticket *domain.Ticket) error {
		return ticket.MarkPaidSignaled()
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	publish(ctx, t.publisher, t.logger, domain.EventTicketPaidSignaled, ticket.OwnerID, ticket.ChannelID, ticket.OrderID, decimal.Zero, t.now())
	return nil
}

// Close планирует удаление канала через settings.CloseDelay.
// Закрыть тикет может владелец или администратор. Возвращает задержку до удаления.
func (t *TicketUseCase) Close(ctx context.Context, req *TicketActionReq) (time.Duration, error) {
	const op = "TicketUseCase.Close"

	if req.ActorID != req.OwnerID && !req.ActorIsAdmin {
		return 0, e.Wrap(op, e.ErrCannotCloseTicket)
	}

	ticket, err := t.ticketRepo.Update(ctx, req.ChannelID, req.OwnerID, func(ticket *domain.Ticket) error {
		return ticket.BeginClose()
	})
	if err != nil {
		return 0, e.Wrap(op, err)
	}

	ownerID, orderID := ticket.OwnerID, ticket.OrderID
	t.scheduler.Schedule(req.ChannelID, t.settings.CloseDelay, func() {
		t.deleteTicket(req.ChannelID, ownerID, orderID)
	})

	t.logger.Infof("ticket %s closing in %s by %s", req.ChannelID, t.settings.CloseDelay, req.ActorID)
	return t.settings.CloseDelay, nil
}

// KeepOpen отменяет запланированное удаление канала.
func (t *TicketUseCase) KeepOpen(ctx context.Context, req *TicketActionReq) error {
	const op = "TicketUseCase.KeepOpen"

	if req.ActorID != req.OwnerID && !req.ActorIsAdmin {
		return e.Wrap(op, e.ErrCannotReopenTicket)
	}

	if !t.scheduler.Cancel(req.ChannelID) {
		return e.Wrap(op, e.ErrTicketNotClosing)
	}

	if _, err := t.ticketRepo.Update(ctx, req.ChannelID, req.OwnerID, func(ticket *domain.Ticket) error {
		return ticket.CancelClose()
	}); err != nil {
		return e.Wrap(op, err)
	}

	t.logger.Infof("ticket %s kept open by %s", req.ChannelID, req.ActorID)
	return nil
}

func (t *TicketUseCase) deleteTicket(channelID, ownerID, orderID string) {
	const op = "TicketUseCase.deleteTicket"

	ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
	defer cancel()

	if err := t.platform.DeleteChannel(ctx, channelID); err != nil {
		t.logger.Errorf(e.Wrap(op, err), "failed to delete ticket channel %s", channelID)
	}

	if err := t.ticketRepo.Delete(ctx, channelID); err != nil {
		t.logger.Warnf("%s: %v", op, err)
	}

	publish(ctx, t.publisher, t.logger, domain.EventTicketClosed, ownerID, channelID, orderID, decimal.Zero, t.now())
}

// discardChannel удаляет канал тикета, который не удалось довести до рабочего состояния.
func (t *TicketUseCase) discardChannel(channelID string) {
	discardChannel(t.platform, t.logger, channelID)
}

func discardChannel(platform TicketPlatform, log logger.Logger, channelID string) {
	ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
	defer cancel()

	if err := platform.DeleteChannel(ctx, channelID); err != nil {
		log.Errorf(err, "failed to delete orphaned ticket channel %s", channelID)
	}
}

// requirePix возвращает настройки PIX или ErrPixNotConfigured.
func requirePix(ctx context.Context, repo PaymentRepository) (domain.PixConfig, error) {
	pix, err := repo.Get(ctx)
	if err != nil {
		return domain.PixConfig{}, err
	}

	if !pix.IsComplete() {
		return domain.PixConfig{}, e.ErrPixNotConfigured
	}

	return pix, nil
}

// openTicketChannel проверяет категорию продаж и создаёт приватный канал покупателя.
func openTicketChannel(ctx context.Context, platform TicketPlatform, settings TicketSettings, ownerID, username string) (string, error) {
	if settings.SalesCategoryID == "" {
		return "", e.ErrTicketCategoryMissing
	}

	exists, err := platform.CategoryExists(ctx, settings.SalesCategoryID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", e.ErrTicketCategoryMissing
	}

	channelID, err := platform.CreateTicketChannel(ctx, &CreateTicketChannelReq{
		Name:        ticketChannelName(settings.NamePrefix, username),
		ParentID:    settings.SalesCategoryID,
		OwnerID:     ownerID,
		AdminRoleID: settings.AdminRoleID,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", e.ErrTicketChannelCreate, err)
	}

	return channelID, nil
}
