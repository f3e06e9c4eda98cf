package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	sharedBus "github.com/davicafu/billingbridge/internal/shared/infra/platform/bus"
)

// ErrPublishNacked: el broker respondió nack a la confirmación.
var ErrPublishNacked = errors.New("broker did not acknowledge the message")

// Confirmer publica un mensaje y espera la confirmación del broker; permite inyectar uno
// falso en tests.
type Confirmer interface {
	PublishConfirmed(ctx context.Context, exchange, routingKey string, msg amqp.Publishing) (acked bool, err error)
	Close() error
}

// channelConfirmer es el Confirmer real: una conexión y un canal en modo confirm.
type channelConfirmer struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func (c *channelConfirmer) PublishConfirmed(ctx context.Context, exchange, routingKey string, msg amqp.Publishing) (bool, error) {
	confirmation, err := c.ch.PublishWithDeferredConfirmWithContext(
		ctx,
		exchange,   // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		msg,
	)
	if err != nil {
		return false, err
	}
	return confirmation.WaitContext(ctx)
}

func (c *channelConfirmer) Close() error {
	if err := c.ch.Close(); err != nil {
		return err
	}
	return c.conn.Close()
}

// RabbitMQPublisher publica en un exchange topic durable con confirmaciones de publisher.
// Una conexión y un canal compartidos por todas las peticiones.
type RabbitMQPublisher struct {
	confirmer Confirmer
	exchange  string
	log       *zap.Logger
	now       func() time.Time
}

// NewRabbitMQPublisher abre la conexión, declara el exchange y pone el canal en modo confirm.
func NewRabbitMQPublisher(url, exchange string, log *zap.Logger) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := DeclareExchange(ch, exchange); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("enable publisher confirms: %w", err)
	}

	return NewRabbitMQPublisherWithConfirmer(&channelConfirmer{conn: conn, ch: ch}, exchange, log), nil
}

func NewRabbitMQPublisherWithConfirmer(confirmer Confirmer, exchange string, log *zap.Logger) *RabbitMQPublisher {
	return &RabbitMQPublisher{confirmer: confirmer, exchange: exchange, log: log, now: time.Now}
}

// DeclareExchange declara el exchange topic durable del dominio.
func DeclareExchange(ch *amqp.Channel, exchange string) error {
	err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-delete
		false,    // internal
		false,    // no-wait
		nil,      // args
	)
	if err != nil {
		return fmt.Errorf("declare exchange %q: %w", exchange, err)
	}
	return nil
}

// Publish espera al ack del broker antes de volver.
func (p *RabbitMQPublisher) Publish(ctx context.Context, topic string, event interface{}) error {
	msg, err := buildPublishing(topic, event, p.now().UTC())
	if err != nil {
		return err
	}

	acked, err := p.confirmer.PublishConfirmed(ctx, p.exchange, topic, msg)
	if err != nil {
		p.log.Error("Error publishing to RabbitMQ", zap.String("routing_key", topic), zap.Error(err))
		return err
	}
	if !acked {
		p.log.Warn("⚠️ RabbitMQ nack", zap.String("routing_key", topic))
		return ErrPublishNacked
	}

	p.log.Debug("Event published successfully", zap.String("exchange", p.exchange), zap.String("routing_key", topic))
	return nil
}

// Close cierra canal y conexión.
func (p *RabbitMQPublisher) Close() error {
	return p.confirmer.Close()
}

func buildPublishing(topic string, event interface{}, publishedAt time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, err
	}

	headers := amqp.Table{
		HeaderTimestamp:  publishedAt.Unix(),
		HeaderRoutingKey: topic,
	}
	if keyer, ok := event.(sharedBus.Keyer); ok {
		headers["partition_key"] = keyer.PartitionKey()
	}

	return amqp.Publishing{
		ContentType:  ContentTypeJSON,
		DeliveryMode: amqp.Persistent,
		Timestamp:    publishedAt,
		Type:         topic,
		Headers:      headers,
		Body:         body,
	}, nil
}

// Verificación estática
var _ sharedBus.EventBus = (*RabbitMQPublisher)(nil)
