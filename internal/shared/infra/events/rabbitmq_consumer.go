package events

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// RabbitMQConsumer enlaza una cola exclusiva al exchange con un patrón de routing key.
type RabbitMQConsumer struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	queue   string
	handler MessageHandler
	log     *zap.Logger
}

func NewRabbitMQConsumer(url, exchange, bindingKey string, handler MessageHandler, log *zap.Logger) (*RabbitMQConsumer, error) {
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
		_ = conn.Close()
		return nil, err
	}

	q, err := ch.QueueDeclare(
		"",    // name: lo genera el broker
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, bindingKey, exchange, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	return &RabbitMQConsumer{conn: conn, ch: ch, queue: q.Name, handler: handler, log: log}, nil
}

// Start consume en una goroutine hasta que se cancele el contexto.
func (c *RabbitMQConsumer) Start(ctx context.Context) error {
	msgs, err := c.ch.Consume(
		c.queue, // queue
		"",      // consumer
		false,   // auto-ack
		true,    // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return err
	}

	c.log.Info("🎧 Iniciando consumidor de RabbitMQ...", zap.String("queue", c.queue))

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.log.Info("Consumidor de RabbitMQ detenido.")
				return
			case d, ok := <-msgs:
				if !ok {
					c.log.Warn("⚠️ Canal de entregas cerrado por el broker")
					return
				}
				c.handler.HandleMessage(ctx, d.RoutingKey, d.Body)
				if err := d.Ack(false); err != nil {
					c.log.Warn("No se pudo confirmar la entrega", zap.Error(err))
				}
			}
		}
	}()
	return nil
}

func (c *RabbitMQConsumer) Close() error {
	if err := c.ch.Close(); err != nil {
		return err
	}
	return c.conn.Close()
}
