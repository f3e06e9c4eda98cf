package domain

import "context"

// UsageEventGateway envía eventos de uso al motor de facturación.
type UsageEventGateway interface {
	SendUsageEvent(ctx context.Context, evt UsageEvent) (*UsageEventAck, error)
}
