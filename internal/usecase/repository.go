package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	// ListActive возвращает активные товары канала в порядке добавления.
	ListActive(ctx context.Context, scopeID string) ([]domain.Product, error)
	FindActive(ctx context.Context, id, scopeID string) (*domain.Product, error)
	FindActiveByName(ctx context.Context, name, scopeID string) (*domain.Product, error)
	// FindByID ищет товар, в том числе неактивный.
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	Deactivate(ctx context.Context, id, scopeID string) (*domain.Product, error)
}

type PaymentRepository interface {
	Get(ctx context.Context) (domain.PixConfig, error)
	Set(ctx context.Context, pix domain.PixConfig) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	Get(ctx context.Context, id string) (*domain.Order, error)
	// MarkPaid атомарно переводит заказ в PAID.
	MarkPaid(ctx context.Context, id string, now time.Time) (*domain.Order, error)
}

// CartStore хранит количества товаров по корзинам. Содержимое не переживает рестарт.
type CartStore interface {
	Increment(ctx context.Context, key domain.CartKey, productID string) (int, error)
	Items(ctx context.Context, key domain.CartKey) (map[string]int, error)
	Clear(ctx context.Context, key domain.CartKey) error
}

// TicketRepository — реестр открытых тикетов.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	// Update выполняет fn над тикетом под блокировкой. Если тикета нет в реестре
	// (например, после рестарта), он восстанавливается с владельцем ownerID.
	Update(ctx context.Context, channelID, ownerID string, fn func(t *domain.Ticket) error) (*domain.Ticket, error)
	Delete(ctx context.Context, channelID string) error
}

type ImageRepository interface {
	// Upload сохраняет изображение и возвращает ключ объекта.
	Upload(ctx context.Context, image *domain.Image) (string, error)
}
