package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/billingbridge/internal/shared/domain"
	sharedBus "github.com/davicafu/billingbridge/internal/shared/infra/platform/bus"
)

// Routing keys de los eventos de dominio.
const (
	TopicUsageEventProcessed = "usage_event.processed"
	TopicPaymentCreated      = "payment.created"
	TopicInvoiceRetrieved    = "invoice.retrieved"
	TopicInvoiceDownloaded   = "invoice.downloaded"
)

// PublishTimeout acota la publicación que sigue a una llamada al motor ya confirmada.
const PublishTimeout = 10 * time.Second

// AfterCommit devuelve el contexto con el que se publica tras un éxito del motor: conserva los
// valores de ctx pero no su cancelación, de modo que un llamador que se desconecta no deja sin
// evento una operación ya hecha en el motor.
func AfterCommit(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), PublishTimeout)
}

// EventPublisher es el puerto que usan los casos de uso para emitir eventos de dominio.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, payload interface{}) error
}

// DomainEventPublisher publica un evento por cada operación confirmada por el motor.
// No reintenta ni compensa: si falla, la operación del motor ya está hecha.
type DomainEventPublisher struct {
	bus sharedBus.EventBus
	log *zap.Logger
}

var _ EventPublisher = (*DomainEventPublisher)(nil)

func NewDomainEventPublisher(bus sharedBus.EventBus, log *zap.Logger) *DomainEventPublisher {
	return &DomainEventPublisher{bus: bus, log: log}
}

// Publish devuelve *sharedDomain.PublishError si el broker no confirmó o si el contexto
// ya estaba cancelado (en ese caso no se intenta publicar).
func (p *DomainEventPublisher) Publish(ctx context.Context, topic string, payload interface{}) error {
	if err := ctx.Err(); err != nil {
		p.log.Warn("Publicación omitida: petición cancelada", zap.String("topic", topic), zap.Error(err))
		return &sharedDomain.PublishError{Topic: topic, Err: err}
	}

	if err := p.bus.Publish(ctx, topic, payload); err != nil {
		p.log.Error("❌ No se pudo publicar evento de dominio", zap.String("topic", topic), zap.Error(err))
		return &sharedDomain.PublishError{Topic: topic, Err: err}
	}

	p.log.Info("✅ Evento de dominio publicado", zap.String("topic", topic))
	return nil
}
