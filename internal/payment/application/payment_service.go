package application

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	paymentDomain "github.com/davicafu/billingbridge/internal/payment/domain"
	sharedApp "github.com/davicafu/billingbridge/internal/shared/application"
	"github.com/davicafu/billingbridge/internal/shared/application/result"
	sharedDomain "github.com/davicafu/billingbridge/internal/shared/domain"
	sharedCache "github.com/davicafu/billingbridge/internal/shared/infra/platform/cache"
	sharedQuery "github.com/davicafu/billingbridge/internal/shared/infra/platform/query"
	"github.com/davicafu/billingbridge/internal/shared/temporal"
)

const (
	OpCreatePayment = "create-payment"
	OpGetPayment    = "retrieve-payment"
	OpListPayments  = "list-payments"
)

// PaymentView es el pago tal como se devuelve al llamador, con el importe en unidades mayores.
type PaymentView struct {
	paymentDomain.Payment
	AmountMajor decimal.Decimal `json:"amount_major"`
}

func newPaymentView(p paymentDomain.Payment) PaymentView {
	return PaymentView{Payment: p, AmountMajor: p.AmountMajor()}
}

// PaymentResult es el resultado de crear o consultar un pago.
type PaymentResult struct {
	result.Result
	PaymentID      string       `json:"payment_id,omitempty"`
	IdempotencyKey string       `json:"idempotency_key,omitempty"`
	OriginalDate   string       `json:"original_date,omitempty"`
	ConvertedDate  string       `json:"converted_date,omitempty"`
	Payment        *PaymentView `json:"payment,omitempty"`
	Replayed       bool         `json:"replayed,omitempty"`
}

// PaymentListResult es una página de pagos.
type PaymentListResult struct {
	result.Result
	Payments []PaymentView         `json:"payments,omitempty"`
	Meta     *sharedQuery.PageMeta `json:"meta,omitempty"`
}

// PaymentService define los casos de uso de pagos.
type PaymentService struct {
	normalizer      *temporal.Normalizer
	gateway         paymentDomain.PaymentGateway
	publisher       sharedApp.EventPublisher
	cache           sharedCache.Cache
	replayTTL       time.Duration
	defaultCurrency string
	log             *zap.Logger
}

// NewPaymentService es el constructor del servicio. cache puede ser nil.
func NewPaymentService(
	normalizer *temporal.Normalizer,
	gateway paymentDomain.PaymentGateway,
	publisher sharedApp.EventPublisher,
	cache sharedCache.Cache,
	replayTTL time.Duration,
	defaultCurrency string,
	log *zap.Logger,
) *PaymentService {
	return &PaymentService{
		normalizer:      normalizer,
		gateway:         gateway,
		publisher:       publisher,
		cache:           cache,
		replayTTL:       replayTTL,
		defaultCurrency: defaultCurrency,
		log:             log,
	}
}

// CreatePayment registra un pago en el motor y publica payment.created. idempotencyKey es
// la cabecera del llamador; si viene vacía se genera una.
func (s *PaymentService) CreatePayment(ctx context.Context, req paymentDomain.PaymentRequest, idempotencyKey string) (res PaymentResult) {
	defer result.Recover(s.log, OpCreatePayment, &res.Result)

	res.OriginalDate = req.PaidAt

	paidAt, err := s.normalizer.Normalize(req.PaidAt, temporal.Date)
	if err != nil {
		res.Result = result.Fail(err)
		return res
	}
	res.ConvertedDate = temporal.FormatDate(paidAt)

	callerKey := strings.TrimSpace(idempotencyKey)
	key := callerKey
	if key == "" {
		key = sharedDomain.NewTransactionID()
	}
	res.IdempotencyKey = key

	newPayment, err := paymentDomain.TranslatePayment(req, paidAt, key, s.defaultCurrency)
	if err != nil {
		res.Result = result.Fail(err)
		return res
	}

	replayKey := ""
	if callerKey != "" {
		replayKey = sharedCache.ReplayKey(OpCreatePayment, callerKey)
		var cached PaymentResult
		if sharedCache.Lookup(ctx, s.cache, replayKey, &cached, s.log) {
			s.log.Info("🔁 Pago repetido, se devuelve el resultado anterior", zap.String("idempotency_key", callerKey))
			cached.Replayed = true
			return cached
		}
	}

	payment, err := s.gateway.CreatePayment(ctx, newPayment)
	if err != nil {
		s.log.Warn("Payment rejected",
			zap.String("invoice_id", newPayment.InvoiceID),
			zap.String("idempotency_key", key),
			zap.Error(err))
		res.Result = result.Fail(err)
		return res
	}

	view := newPaymentView(*payment)
	res.PaymentID = payment.ID
	res.Payment = &view

	pubCtx, cancel := sharedApp.AfterCommit(ctx)
	defer cancel()
	if err := s.publisher.Publish(pubCtx, sharedApp.TopicPaymentCreated, *payment); err != nil {
		res.Result = result.Fail(err)
		return res
	}

	res.Result = result.OK("payment created in the billing engine and published")
	s.log.Info("✅ Pago creado",
		zap.String("payment_id", payment.ID),
		zap.String("invoice_id", payment.InvoiceID),
		zap.Int64("amount_cents", payment.AmountCents),
		zap.String("currency", payment.Currency))

	if replayKey != "" {
		sharedCache.AsyncCacheSet(s.cache, replayKey, res, s.replayTTL, s.log)
	}
	return res
}

// GetPayment consulta un pago. No publica nada.
func (s *PaymentService) GetPayment(ctx context.Context, id string) (res PaymentResult) {
	defer result.Recover(s.log, OpGetPayment, &res.Result)

	id, err := sharedDomain.ValidateResourceID(id)
	if err != nil {
		res.Result = result.Fail(err)
		return res
	}
	res.PaymentID = id

	payment, err := s.gateway.GetPayment(ctx, id)
	if err != nil {
		res.Result = result.Fail(err)
		return res
	}

	view := newPaymentView(*payment)
	res.Payment = &view
	res.Result = result.OK("payment retrieved")
	return res
}

// ListPayments lista pagos con los filtros y la paginación ya acotada.
func (s *PaymentService) ListPayments(ctx context.Context, req paymentDomain.PaymentQueryRequest) (res PaymentListResult) {
	defer result.Recover(s.log, OpListPayments, &res.Result)

	q := paymentDomain.TranslatePaymentQuery(req)
	page, err := s.gateway.ListPayments(ctx, q)
	if err != nil {
		res.Result = result.Fail(err)
		return res
	}

	res.Payments = make([]PaymentView, 0, len(page.Payments))
	for _, p := range page.Payments {
		res.Payments = append(res.Payments, newPaymentView(p))
	}
	meta := page.Meta
	res.Meta = &meta
	res.Result = result.OK("payments retrieved")
	return res
}
