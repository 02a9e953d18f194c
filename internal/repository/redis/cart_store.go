package redis

import (
	"context"
	"strconv"

	"github.com/DRSN-tech/pix-shop-bot/internal/cfg"
	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
	"github.com/DRSN-tech/pix-shop-bot/pkg/clients"
	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/DRSN-tech/pix-shop-bot/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// CartStore хранит каждую корзину в Redis-хэше productID -> количество.
// Корзина истекает через cfg.CartTTL после последнего изменения.
type CartStore struct {
	client *clients.RedisClient
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCartStore(client *clients.RedisClient, cfg *cfg.RedisCfg, logger logger.Logger) *CartStore {
	return &CartStore{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Increment атомарно увеличивает количество товара и продлевает TTL корзины.
func (s *CartStore) Increment(ctx context.Context, key domain.CartKey, productID string) (int, error) {
	cartKey := s.cartKey(key)

	var incr *r.IntCmd
	_, err := s.client.Client.TxPipelined(ctx, func(pipe r.Pipeliner) error {
		incr = pipe.HIncrBy(ctx, cartKey, productID, 1)
		if s.cfg.CartTTL > 0 {
			pipe.Expire(ctx, cartKey, s.cfg.CartTTL)
		}
		return nil
	})
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return int(incr.Val()), nil
}

// Items возвращает содержимое корзины. Повреждённые значения пропускаются с предупреждением.
func (s *CartStore) Items(ctx context.Context, key domain.CartKey) (map[string]int, error) {
	values, err := s.client.Client.HGetAll(ctx, s.cartKey(key)).Result()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	items := make(map[string]int, len(values))
	for productID, raw := range values {
		qty, err := strconv.Atoi(raw)
		if err != nil {
			s.logger.Warnf("Invalid cart quantity: cart: %s, product: %s, value: %q", key, productID, raw)
			continue
		}

		if qty > 0 {
			items[productID] = qty
		}
	}

	return items, nil
}

func (s *CartStore) Clear(ctx context.Context, key domain.CartKey) error {
	if err := s.client.Client.Del(ctx, s.cartKey(key)).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// cartKey возвращает Redis-ключ корзины
func (s *CartStore) cartKey(key domain.CartKey) string {
	return s.client.Key("cart", key.CustomerID, key.ScopeID)
}
