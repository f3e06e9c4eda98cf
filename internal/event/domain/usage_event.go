package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/davicafu/billingbridge/internal/shared/domain"
	"github.com/davicafu/billingbridge/internal/shared/validation"
)

// UsageEventRequest es la petición tal como la envía el llamador.
type UsageEventRequest struct {
	TransactionID          string     `json:"transaction_id"`
	ExternalSubscriptionID string     `json:"external_subscription_id"`
	Code                   string     `json:"code"`
	Timestamp              string     `json:"timestamp"`
	Properties             Properties `json:"properties"`
}

// UsageEvent es el evento ya traducido; inmutable tras la traducción.
type UsageEvent struct {
	TransactionID          string     `json:"transaction_id"`
	ExternalSubscriptionID string     `json:"external_subscription_id"`
	Code                   string     `json:"code"`
	OccurredAt             time.Time  `json:"timestamp"`
	Properties             Properties `json:"properties"`
}

// PartitionKey mantiene en orden los eventos de una misma transacción en el bus.
func (e UsageEvent) PartitionKey() string { return e.TransactionID }

// UsageEventAck es lo que confirma el motor tras aceptar el evento.
type UsageEventAck struct {
	EngineID      string
	TransactionID string
}

type usageEventFields struct {
	ExternalSubscriptionID string `json:"external_subscription_id" validate:"required"`
	Code                   string `json:"code" validate:"required"`
}

// TranslateUsageEvent valida la petición y construye el evento. occurredAt ya viene
// normalizado a UTC. No toca la red ni modifica req.
func TranslateUsageEvent(req UsageEventRequest, occurredAt time.Time) (UsageEvent, error) {
	fields := usageEventFields{
		ExternalSubscriptionID: strings.TrimSpace(req.ExternalSubscriptionID),
		Code:                   strings.TrimSpace(req.Code),
	}
	if err := validation.Struct(fields); err != nil {
		return UsageEvent{}, err
	}

	txID := strings.TrimSpace(req.TransactionID)
	if txID == "" {
		txID = sharedDomain.NewTransactionID()
	}

	return UsageEvent{
		TransactionID:          txID,
		ExternalSubscriptionID: fields.ExternalSubscriptionID,
		Code:                   fields.Code,
		OccurredAt:             occurredAt.UTC(),
		Properties:             req.Properties.Clone(),
	}, nil
}
