package events

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// LogHandler registra cada evento de dominio recibido. Lo usan el modo en memoria y billing-tail.
type LogHandler struct {
	log *zap.Logger
}

func NewLogHandler(log *zap.Logger) *LogHandler {
	return &LogHandler{log: log}
}

func (h *LogHandler) HandleMessage(ctx context.Context, routingKey string, payload []byte) {
	if !json.Valid(payload) {
		h.log.Warn("Evento con payload no JSON", zap.String("routing_key", routingKey), zap.Int("bytes", len(payload)))
		return
	}
	h.log.Info("📨 Evento de dominio recibido",
		zap.String("routing_key", routingKey),
		zap.ByteString("payload", payload),
	)
}

// BackgroundConsumerChan consume un canal del bus en memoria hasta que se cancele el contexto.
func BackgroundConsumerChan(ctx context.Context, ch <-chan Message, handler MessageHandler) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-ch:
				handler.HandleMessage(ctx, msg.Topic, msg.Payload)
			}
		}
	}()
}
