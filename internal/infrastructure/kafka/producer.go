package kafka

import (
	"context"
	"time"

	"github.com/DRSN-tech/pix-shop-bot/internal/cfg"
	"github.com/DRSN-tech/pix-shop-bot/internal/domain"
	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/DRSN-tech/pix-shop-bot/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const eventTypeHeader = "event-type"

// Producer публикует события жизненного цикла заказов и тикетов в Kafka.
type Producer struct {
	writer *kafka.Writer
	logger logger.Logger
	cfg    *cfg.KafkaCfg
}

func NewProducer(logger logger.Logger, cfg *cfg.KafkaCfg) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchSize:              10,
		BatchTimeout:           cfg.BatchTimeout,
		WriteTimeout:           cfg.WriteTimeout,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warnf("Kafka producer error: %d message(s) lost: %s", len(messages), err.Error())
			}
		},
	}

	return &Producer{
		writer: writer,
		logger: logger,
		cfg:    cfg,
	}
}

// Publish ставит событие в очередь отправки. Ключ сообщения — канал тикета,
// поэтому события одного тикета попадают в одну партицию.
func (p *Producer) Publish(ctx context.Context, event *domain.Event) error {
	value, err := EncodeEvent(event)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ChannelID),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: eventTypeHeader, Value: []byte(event.Type)},
		},
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (p *Producer) Close(context.Context) error {
	return p.writer.Close()
}

// EncodeEvent сериализует событие в protobuf google.protobuf.Struct.
func EncodeEvent(event *domain.Event) ([]byte, error) {
	payload, err := structpb.NewStruct(map[string]any{
		"id":          event.ID,
		"type":        string(event.Type),
		"buyer_id":    event.BuyerID,
		"channel_id":  event.ChannelID,
		"order_id":    event.OrderID,
		"total":       event.Total.StringFixed(2),
		"occurred_at": event.OccurredAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, err
	}

	return proto.Marshal(payload)
}
