package events

// Cabeceras comunes a todos los adapters de bus.
const (
	HeaderRoutingKey  = "routing_key"
	HeaderTimestamp   = "timestamp"
	HeaderContentType = "content_type"

	ContentTypeJSON = "application/json"
)
