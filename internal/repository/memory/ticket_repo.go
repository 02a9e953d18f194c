package memory

import (
	"context"
	"sync"
	"time"

	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
)

// TicketRepo — реестр тикетов текущего процесса.
type TicketRepo struct {
	mu      sync.Mutex
	tickets map[string]*domain.Ticket
	now     func() time.Time
}

func NewTicketRepo() *TicketRepo {
	return &TicketRepo{tickets: make(map[string]*domain.Ticket), now: time.Now}
}

func (r *TicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tickets[ticket.ChannelID] = ticket
	return nil
}

// Update применяет fn к тикету под блокировкой. Неизвестный тикет восстанавливается
// в состоянии AWAITING_PAYMENT. Если fn вернула ошибку, тикет не меняется.
func (r *TicketRepo) Update(_ context.Context, channelID, ownerID string, fn func(t *domain.Ticket) error) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.tickets[channelID]
	if !ok {
		current = domain.NewTicket(channelID, ownerID, "", r.now())
	}

	next := *current
	if err := fn(&next); err != nil {
		return nil, err
	}

	r.tickets[channelID] = &next
	result := next
	return &result, nil
}

func (r *TicketRepo) Delete(_ context.Context, channelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tickets, channelID)
	return nil
}

// Len возвращает число тикетов в реестре.
func (r *TicketRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.tickets)
}
