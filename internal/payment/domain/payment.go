package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	sharedQuery "github.com/davicafu/billingbridge/internal/shared/infra/platform/query"
	"github.com/davicafu/billingbridge/internal/shared/validation"
)

// DefaultCurrency se usa cuando ni el llamador ni la configuración indican moneda.
const DefaultCurrency = "MWK"

// PaymentRequest es la petición de alta de pago del llamador.
type PaymentRequest struct {
	InvoiceID   string `json:"invoice_id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Reference   string `json:"reference"`
	PaidAt      string `json:"paid_at"`
}

// NewPayment es el pago traducido, listo para el motor.
type NewPayment struct {
	InvoiceID      string
	AmountCents    int64
	Currency       string
	Reference      string
	PaidAt         time.Time // medianoche UTC
	IdempotencyKey string
}

// Payment es el pago tal como lo registra el motor. Status es opaco.
type Payment struct {
	ID          string    `json:"id"`
	InvoiceID   string    `json:"invoice_id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	Reference   string    `json:"reference,omitempty"`
	PaidAt      time.Time `json:"paid_at"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AmountMajor es el importe en unidades mayores (cents / 100) sin pasar por float.
func (p Payment) AmountMajor() decimal.Decimal {
	return decimal.New(p.AmountCents, -2)
}

// PartitionKey agrupa en el bus los eventos de un mismo pago.
func (p Payment) PartitionKey() string { return p.ID }

// PaymentPage es una página de pagos con sus metadatos.
type PaymentPage struct {
	Payments []Payment
	Meta     sharedQuery.PageMeta
}

// PaymentQueryRequest son los filtros de listado tal como llegan en la URL.
type PaymentQueryRequest struct {
	InvoiceID          string `form:"invoice_id"`
	ExternalCustomerID string `form:"external_customer_id"`
	Page               *int   `form:"page"`
	PerPage            *int   `form:"per_page"`
}

// PaymentQuery es el listado ya traducido.
type PaymentQuery struct {
	InvoiceID          string
	ExternalCustomerID string
	Pagination         sharedQuery.PagePagination
}

type paymentFields struct {
	InvoiceID   string `json:"invoice_id" validate:"required"`
	AmountCents int64  `json:"amount_cents" validate:"gt=0"`
	Currency    string `json:"currency" validate:"omitempty,len=3"`
}

// TranslatePayment valida la petición y construye el pago. paidAt ya viene normalizado
// (tipo fecha) e idempotencyKey ya está resuelta. No toca la red.
func TranslatePayment(req PaymentRequest, paidAt time.Time, idempotencyKey, defaultCurrency string) (NewPayment, error) {
	fields := paymentFields{
		InvoiceID:   strings.TrimSpace(req.InvoiceID),
		AmountCents: req.AmountCents,
		Currency:    strings.ToUpper(strings.TrimSpace(req.Currency)),
	}
	if err := validation.Struct(fields); err != nil {
		return NewPayment{}, err
	}

	currency := fields.Currency
	if currency == "" {
		currency = strings.ToUpper(defaultCurrency)
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	return NewPayment{
		InvoiceID:      fields.InvoiceID,
		AmountCents:    fields.AmountCents,
		Currency:       currency,
		Reference:      strings.TrimSpace(req.Reference),
		PaidAt:         paidAt.UTC(),
		IdempotencyKey: idempotencyKey,
	}, nil
}

// TranslatePaymentQuery aplica los valores por defecto y acota la paginación.
func TranslatePaymentQuery(req PaymentQueryRequest) PaymentQuery {
	return PaymentQuery{
		InvoiceID:          strings.TrimSpace(req.InvoiceID),
		ExternalCustomerID: strings.TrimSpace(req.ExternalCustomerID),
		Pagination:         sharedQuery.NewPagePagination(req.Page, req.PerPage),
	}
}
