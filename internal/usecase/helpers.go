package usecase

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
	"github.com/DRSN-tech/pix-shop-bot/pkg/logger"
	"github.com/shopspring/decimal"
)

const (
	maxChannelNameLen = 90
	fallbackUsername  = "customer"
	backgroundTimeout = 10 * time.Second
)

var channelNameDisallowed = regexp.MustCompile(`[^a-z0-9-]+`)

// ticketChannelName строит имя канала из префикса и имени пользователя
// в допустимом для Discord виде: нижний регистр, цифры и дефисы.
func ticketChannelName(prefix, username string) string {
	name := strings.ToLower(strings.TrimSpace(username))
	name = channelNameDisallowed.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	if name == "" {
		name = fallbackUsername
	}

	full := prefix + name
	if len(full) > maxChannelNameLen {
		full = strings.TrimRight(full[:maxChannelNameLen], "-")
	}

	return full
}

// publish отправляет событие, не прерывая основной сценарий при ошибке.
func publish(ctx context.Context, publisher EventPublisher, log logger.Logger, t domain.EventType, buyerID, channelID, orderID string, total decimal.Decimal, now time.Time) {
	event := domain.NewEvent(t, buyerID, channelID, orderID, total, now)
	if err := publisher.Publish(ctx, event); err != nil {
		log.Warnf("failed to publish %s event for channel %s: %v", t, channelID, err)
	}
}
