package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	sharedBus "github.com/davicafu/billingbridge/internal/shared/infra/platform/bus"
)

// Writer es el subconjunto de kafka.Writer que necesitamos; permite inyectar uno falso en tests.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publica todos los eventos en un único topic (el "exchange") y lleva la
// routing key en una cabecera.
type KafkaPublisher struct {
	writer   Writer
	exchange string
	log      *zap.Logger
	now      func() time.Time
}

// NewKafkaWriter crea un writer síncrono que espera el ack de todas las réplicas.
func NewKafkaWriter(brokers []string, exchange string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  exchange,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		Async:                  false,
		AllowAutoTopicCreation: true,
	}
}

func NewKafkaPublisher(writer Writer, exchange string, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, exchange: exchange, log: log, now: time.Now}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	var key []byte
	if keyer, ok := event.(sharedBus.Keyer); ok {
		key = []byte(keyer.PartitionKey())
	}

	publishedAt := p.now().UTC()
	msg := kafka.Message{
		Key:   key,
		Value: data,
		Time:  publishedAt,
		Headers: []kafka.Header{
			{Key: HeaderRoutingKey, Value: []byte(topic)},
			{Key: HeaderTimestamp, Value: []byte(strconv.FormatInt(publishedAt.Unix(), 10))},
			{Key: HeaderContentType, Value: []byte(ContentTypeJSON)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("Error publishing to Kafka",
			zap.String("exchange", p.exchange),
			zap.String("routing_key", topic),
			zap.Error(err),
		)
		return err
	}

	p.log.Debug("Event published successfully", zap.String("routing_key", topic), zap.ByteString("key", key))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Verificación estática
var _ sharedBus.EventBus = (*KafkaPublisher)(nil)
