package clients

import (
	"context"
	"strings"

	"github.com/DRSN-tech/pix-shop-bot/internal/cfg"
	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const (
	clientName   = "pix-shop-bot"
	keySeparator = ":"
)

// RedisClient — подключение к Redis с пространством имён ключей бота.
type RedisClient struct {
	Client    *r.Client
	keyPrefix string
}

func NewRedisClient(cfg *cfg.RedisCfg) *RedisClient {
	client := r.NewClient(&r.Options{
		Addr:         cfg.Addr,
		ClientName:   clientName,
		Username:     cfg.User,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	return &RedisClient{
		Client:    client,
		keyPrefix: cfg.KeyPrefix,
	}
}

// Key собирает ключ "prefix:part1:part2...". Без префикса части склеиваются как есть.
func (c *RedisClient) Key(parts ...string) string {
	if c.keyPrefix != "" {
		parts = append([]string{c.keyPrefix}, parts...)
	}

	return strings.Join(parts, keySeparator)
}

// Ping проверяет соединение при старте приложения.
func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *RedisClient) Close(context.Context) error {
	if err := c.Client.Close(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
