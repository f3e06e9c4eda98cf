package application

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	eventDomain "github.com/davicafu/billingbridge/internal/event/domain"
	sharedApp "github.com/davicafu/billingbridge/internal/shared/application"
	"github.com/davicafu/billingbridge/internal/shared/application/result"
	sharedCache "github.com/davicafu/billingbridge/internal/shared/infra/platform/cache"
	"github.com/davicafu/billingbridge/internal/shared/temporal"
)

const OpCreateUsageEvent = "create-usage-event"

// UsageEventResult es lo que recibe el llamador tras enviar un evento de uso.
type UsageEventResult struct {
	result.Result
	TransactionID      string `json:"transaction_id,omitempty"`
	OriginalTimestamp  string `json:"original_timestamp"`
	ConvertedTimestamp string `json:"converted_timestamp,omitempty"`
	TimestampEpoch     int64  `json:"timestamp_epoch,omitempty"`
	EngineEventID      string `json:"engine_event_id,omitempty"`
	Replayed           bool   `json:"replayed,omitempty"`
}

// UsageEventService define el caso de uso de envío de eventos de uso.
// Incorpora normalizador, gateway, publicador, caché de repeticiones y logger.
type UsageEventService struct {
	normalizer *temporal.Normalizer
	gateway    eventDomain.UsageEventGateway
	publisher  sharedApp.EventPublisher
	cache      sharedCache.Cache
	replayTTL  time.Duration
	log        *zap.Logger
}

// NewUsageEventService es el constructor del servicio. cache puede ser nil (sin detección
// de repeticiones).
func NewUsageEventService(
	normalizer *temporal.Normalizer,
	gateway eventDomain.UsageEventGateway,
	publisher sharedApp.EventPublisher,
	cache sharedCache.Cache,
	replayTTL time.Duration,
	log *zap.Logger,
) *UsageEventService {
	return &UsageEventService{
		normalizer: normalizer,
		gateway:    gateway,
		publisher:  publisher,
		cache:      cache,
		replayTTL:  replayTTL,
		log:        log,
	}
}

// CreateUsageEvent normaliza, traduce, envía al motor y, si el motor acepta, publica
// usage_event.processed. Siempre devuelve un resultado bien formado.
func (s *UsageEventService) CreateUsageEvent(ctx context.Context, req eventDomain.UsageEventRequest) (res UsageEventResult) {
	defer result.Recover(s.log, OpCreateUsageEvent, &res.Result)

	res.OriginalTimestamp = req.Timestamp

	occurredAt, err := s.normalizer.Normalize(req.Timestamp, temporal.Instant)
	if err != nil {
		res.Result = result.Fail(err)
		return res
	}
	res.ConvertedTimestamp = occurredAt.Format(time.RFC3339Nano)
	res.TimestampEpoch = temporal.EpochSeconds(occurredAt)

	evt, err := eventDomain.TranslateUsageEvent(req, occurredAt)
	if err != nil {
		res.Result = result.Fail(err)
		return res
	}
	res.TransactionID = evt.TransactionID

	// Sólo un id aportado por el llamador puede repetirse.
	replayKey := ""
	if strings.TrimSpace(req.TransactionID) != "" {
		replayKey = sharedCache.ReplayKey(OpCreateUsageEvent, evt.TransactionID)
		var cached UsageEventResult
		if sharedCache.Lookup(ctx, s.cache, replayKey, &cached, s.log) {
			s.log.Info("🔁 Evento de uso repetido, se devuelve el resultado anterior",
				zap.String("transaction_id", evt.TransactionID))
			cached.Replayed = true
			return cached
		}
	}

	ack, err := s.gateway.SendUsageEvent(ctx, evt)
	if err != nil {
		s.log.Warn("Usage event rejected", zap.String("transaction_id", evt.TransactionID), zap.Error(err))
		res.Result = result.Fail(err)
		return res
	}
	if ack != nil {
		res.EngineEventID = ack.EngineID
	}

	pubCtx, cancel := sharedApp.AfterCommit(ctx)
	defer cancel()
	if err := s.publisher.Publish(pubCtx, sharedApp.TopicUsageEventProcessed, evt); err != nil {
		res.Result = result.Fail(err)
		return res
	}

	res.Result = result.OK("usage event accepted by the billing engine and published")
	s.log.Info("✅ Evento de uso procesado",
		zap.String("transaction_id", evt.TransactionID),
		zap.String("code", evt.Code),
		zap.Int64("timestamp", res.TimestampEpoch))

	if replayKey != "" {
		sharedCache.AsyncCacheSet(s.cache, replayKey, res, s.replayTTL, s.log)
	}
	return res
}
