package events

import (
	"context"
	"encoding/json"
	"sync"

	sharedBus "github.com/davicafu/billingbridge/internal/shared/infra/platform/bus"
)

// Message es lo que recibe un suscriptor del bus en memoria.
type Message struct {
	Topic   string
	Payload []byte
}

// InMemoryEventBus reparte cada evento a todos los suscriptores (canales de Go).
type InMemoryEventBus struct {
	subscribers []chan Message
	mu          sync.RWMutex
}

// Verifica en tiempo de compilación que cumple la interfaz
var _ sharedBus.EventBus = (*InMemoryEventBus)(nil)

func NewInMemoryEventBus() *InMemoryEventBus {
	return &InMemoryEventBus{
		subscribers: make([]chan Message, 0),
	}
}

// Publish serializa el evento y lo entrega a todos los suscriptores. Un suscriptor lleno
// no bloquea la publicación: el mensaje se descarta para ese canal.
func (b *InMemoryEventBus) Publish(ctx context.Context, topic string, event interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payloadBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	msg := Message{Topic: topic, Payload: payloadBytes}
	for _, subChan := range b.subscribers {
		select {
		case subChan <- msg:
		default:
		}
	}
	return nil
}

// Subscribe suscribe un nuevo oyente a este bus.
func (b *InMemoryEventBus) Subscribe(bufferSize int) <-chan Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	subChan := make(chan Message, bufferSize)
	b.subscribers = append(b.subscribers, subChan)
	return subChan
}
