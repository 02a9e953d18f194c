package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
	"github.com/DRSN-tech/pix-shop-bot/internal/repository/memory"
	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartStore_IncrementAndClear(t *testing.T) {
	ctx := context.Background()
	store := memory.NewCartStore()
	key := domain.NewCartKey("U1", "C1")

	qty, err := store.Increment(ctx, key, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, qty)

	qty, err = store.Increment(ctx, key, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, qty)

	other, err := store.Items(ctx, domain.NewCartKey("U1", "C2"))
	require.NoError(t, err)
	assert.Empty(t, other)

	items, err := store.Items(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"p1": 2}, items)

	items["p1"] = 100
	again, _ := store.Items(ctx, key)
	assert.Equal(t, 2, again["p1"])

	require.NoError(t, store.Clear(ctx, key))
	items, err = store.Items(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartStore_ConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	store := memory.NewCartStore()
	key := domain.NewCartKey("U1", "C1")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Increment(ctx, key, "p1")
		}()
	}
	wg.Wait()

	items, err := store.Items(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 50, items["p1"])
}

func TestTicketRepo_UpdateRecoversUnknownTicket(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewTicketRepo()

	ticket, err := repo.Update(ctx, "T1", "U1", func(t *domain.Ticket) error {
		return t.MarkPaidSignaled()
	})
	require.NoError(t, err)
	assert.Equal(t, "U1", ticket.OwnerID)
	assert.Equal(t, domain.TicketPaidSignaled, ticket.State)
	assert.Equal(t, 1, repo.Len())
}

func TestTicketRepo_FailedUpdateKeepsState(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewTicketRepo()
	require.NoError(t, repo.Create(ctx, domain.NewTicket("T1", "U1", "o1", time.Now())))

	_, err := repo.Update(ctx, "T1", "U1", func(t *domain.Ticket) error { return t.BeginClose() })
	require.NoError(t, err)

	_, err = repo.Update(ctx, "T1", "U1", func(t *domain.Ticket) error { return t.BeginClose() })
	assert.ErrorIs(t, err, e.ErrTicketClosing)

	ticket, err := repo.Update(ctx, "T1", "U1", func(t *domain.Ticket) error { return t.CancelClose() })
	require.NoError(t, err)
	assert.Equal(t, domain.TicketAwaitingPayment, ticket.State)
	assert.Equal(t, "o1", ticket.OrderID)

	require.NoError(t, repo.Delete(ctx, "T1"))
	assert.Equal(t, 0, repo.Len())
}
