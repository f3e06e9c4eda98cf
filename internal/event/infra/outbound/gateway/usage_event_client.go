package gateway

import (
	"context"
	"net/http"

	eventDomain "github.com/davicafu/billingbridge/internal/event/domain"
	"github.com/davicafu/billingbridge/internal/shared/infra/gateway"
	"github.com/davicafu/billingbridge/internal/shared/temporal"
)

const (
	OpSendUsageEvent = "send-usage-event"
	eventsPath       = "/api/v1/events"
)

type eventPayload struct {
	TransactionID          string                 `json:"transaction_id"`
	ExternalSubscriptionID string                 `json:"external_subscription_id"`
	Code                   string                 `json:"code"`
	Timestamp              int64                  `json:"timestamp"`
	Properties             eventDomain.Properties `json:"properties"`
}

type eventEnvelope struct {
	Event eventPayload `json:"event"`
}

type eventResponse struct {
	Event struct {
		LagoID        string `json:"lago_id"`
		TransactionID string `json:"transaction_id"`
	} `json:"event"`
}

// UsageEventClient implementa eventDomain.UsageEventGateway sobre el transporte compartido.
type UsageEventClient struct {
	client *gateway.Client
}

var _ eventDomain.UsageEventGateway = (*UsageEventClient)(nil)

func NewUsageEventClient(client *gateway.Client) *UsageEventClient {
	return &UsageEventClient{client: client}
}

func (c *UsageEventClient) SendUsageEvent(ctx context.Context, evt eventDomain.UsageEvent) (*eventDomain.UsageEventAck, error) {
	body := eventEnvelope{Event: eventPayload{
		TransactionID:          evt.TransactionID,
		ExternalSubscriptionID: evt.ExternalSubscriptionID,
		Code:                   evt.Code,
		Timestamp:              temporal.EpochSeconds(evt.OccurredAt),
		Properties:             evt.Properties,
	}}

	var resp eventResponse
	err := c.client.Do(ctx, gateway.Request{
		Operation: OpSendUsageEvent,
		Method:    http.MethodPost,
		Path:      eventsPath,
		Body:      body,
	}, &resp)
	if err != nil {
		return nil, err
	}

	ack := &eventDomain.UsageEventAck{EngineID: resp.Event.LagoID, TransactionID: resp.Event.TransactionID}
	if ack.TransactionID == "" {
		ack.TransactionID = evt.TransactionID
	}
	return ack, nil
}
