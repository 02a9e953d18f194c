package memory

import (
	"context"
	"sync"

	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
)

// CartStore держит корзины в памяти процесса.
type CartStore struct {
	mu    sync.Mutex
	carts map[domain.CartKey]map[string]int
}

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[domain.CartKey]map[string]int)}
}

func (s *CartStore) Increment(_ context.Context, key domain.CartKey, productID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[key]
	if !ok {
		cart = make(map[string]int)
		s.carts[key] = cart
	}
	cart[productID]++

	return cart[productID], nil
}

// Items возвращает копию содержимого корзины.
func (s *CartStore) Items(_ context.Context, key domain.CartKey) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make(map[string]int, len(s.carts[key]))
	for id, qty := range s.carts[key] {
		items[id] = qty
	}

	return items, nil
}

func (s *CartStore) Clear(_ context.Context, key domain.CartKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, key)
	return nil
}
