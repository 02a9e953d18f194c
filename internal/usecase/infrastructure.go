package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
)

// TicketPlatform — операции чат-платформы, нужные для работы с тикетами.
type TicketPlatform interface {
	CategoryExists(ctx context.Context, categoryID string) (bool, error)
	CreateTicketChannel(ctx context.Context, req *CreateTicketChannelReq) (string, error)
	SendPaymentInstructions(ctx context.Context, channelID string, msg *PaymentInstructions) error
	SendDelivery(ctx context.Context, channelID string, msg *DeliveryMessage) error
	DeleteChannel(ctx context.Context, channelID string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event *domain.Event) error
}

// ImageMirror копирует изображение во внешнее хранилище и возвращает постоянный URL.
type ImageMirror interface {
	Mirror(ctx context.Context, req *MirrorImageReq) (string, error)
}

// CloseScheduler откладывает удаление канала тикета.
type CloseScheduler interface {
	Schedule(key string, delay time.Duration, fn func())
	// Cancel возвращает false, если задача уже выполнилась или не существовала.
	Cancel(key string) bool
}
