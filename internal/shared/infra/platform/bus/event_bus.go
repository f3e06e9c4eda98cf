package bus

import "context"

// Keyer lo implementan los payloads que tienen una clave de partición natural.
type Keyer interface {
	PartitionKey() string
}

// La semántica de topic/nombre y formato del payload la deciden los adapters.
// Publish debe devolver nil sólo cuando el broker confirmó la recepción.
type EventBus interface {
	Publish(ctx context.Context, topic string, event interface{}) error
}
