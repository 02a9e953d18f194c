package infrastructure

import (
	"context"

	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
	"github.com/DRSN-tech/pix-shop-bot/pkg/logger"
)

// LogPublisher пишет события в лог. Используется, когда Kafka не настроена.
type LogPublisher struct {
	logger logger.Logger
}

func NewLogPublisher(logger logger.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event *domain.Event) error {
	p.logger.Debugf("event %s: channel=%s buyer=%s order=%s total=%s",
		event.Type, event.ChannelID, event.BuyerID, event.OrderID, event.Total.StringFixed(2))
	return nil
}
