package gateway

import (
	"context"
	"net/http"
	"net/url"

	paymentDomain "github.com/davicafu/billingbridge/internal/payment/domain"
	"github.com/davicafu/billingbridge/internal/shared/infra/gateway"
	sharedQuery "github.com/davicafu/billingbridge/internal/shared/infra/platform/query"
	"github.com/davicafu/billingbridge/internal/shared/temporal"
)

const (
	OpCreatePayment   = "create-payment"
	OpRetrievePayment = "retrieve-payment"
	OpListPayments    = "list-payments"

	paymentsPath = "/api/v1/payments"

	headerIdempotencyKey = "Idempotency-Key"
)

type paymentPayload struct {
	InvoiceID   string `json:"invoice_id"`
	AmountCents int64  `json:"amount_cents"`
	Reference   string `json:"reference,omitempty"`
	PaidAt      string `json:"paid_at"`
}

type paymentEnvelope struct {
	Payment paymentPayload `json:"payment"`
}

// paymentDTO es la forma en que el motor devuelve un pago. Las fechas llegan como texto.
type paymentDTO struct {
	LagoID         string   `json:"lago_id"`
	InvoiceID      string   `json:"invoice_id"`
	InvoiceIDs     []string `json:"invoice_ids"`
	AmountCents    int64    `json:"amount_cents"`
	AmountCurrency string   `json:"amount_currency"`
	PaymentStatus  string   `json:"payment_status"`
	Reference      string   `json:"reference"`
	PaidAt         string   `json:"paid_at"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

type paymentResponse struct {
	Payment paymentDTO `json:"payment"`
}

type paymentListResponse struct {
	Payments []paymentDTO         `json:"payments"`
	Meta     sharedQuery.PageMeta `json:"meta"`
}

func (d paymentDTO) toDomain() paymentDomain.Payment {
	invoiceID := d.InvoiceID
	if invoiceID == "" && len(d.InvoiceIDs) > 0 {
		invoiceID = d.InvoiceIDs[0]
	}
	return paymentDomain.Payment{
		ID:          d.LagoID,
		InvoiceID:   invoiceID,
		AmountCents: d.AmountCents,
		Currency:    d.AmountCurrency,
		Reference:   d.Reference,
		PaidAt:      temporal.ParseOrZero(d.PaidAt),
		Status:      d.PaymentStatus,
		CreatedAt:   temporal.ParseOrZero(d.CreatedAt),
		UpdatedAt:   temporal.ParseOrZero(d.UpdatedAt),
	}
}

// PaymentClient implementa paymentDomain.PaymentGateway sobre el transporte compartido.
type PaymentClient struct {
	client *gateway.Client
}

var _ paymentDomain.PaymentGateway = (*PaymentClient)(nil)

func NewPaymentClient(client *gateway.Client) *PaymentClient {
	return &PaymentClient{client: client}
}

func (c *PaymentClient) CreatePayment(ctx context.Context, p paymentDomain.NewPayment) (*paymentDomain.Payment, error) {
	req := gateway.Request{
		Operation: OpCreatePayment,
		Method:    http.MethodPost,
		Path:      paymentsPath,
		Body: paymentEnvelope{Payment: paymentPayload{
			InvoiceID:   p.InvoiceID,
			AmountCents: p.AmountCents,
			Reference:   p.Reference,
			PaidAt:      temporal.FormatDate(p.PaidAt),
		}},
	}
	if p.IdempotencyKey != "" {
		req.Headers = map[string]string{headerIdempotencyKey: p.IdempotencyKey}
	}

	var resp paymentResponse
	if err := c.client.Do(ctx, req, &resp); err != nil {
		return nil, err
	}

	payment := resp.Payment.toDomain()
	if payment.Currency == "" {
		payment.Currency = p.Currency
	}
	if payment.InvoiceID == "" {
		payment.InvoiceID = p.InvoiceID
	}
	return &payment, nil
}

func (c *PaymentClient) GetPayment(ctx context.Context, id string) (*paymentDomain.Payment, error) {
	var resp paymentResponse
	err := c.client.Do(ctx, gateway.Request{
		Operation: OpRetrievePayment,
		Method:    http.MethodGet,
		Path:      paymentsPath + "/" + url.PathEscape(id),
	}, &resp)
	if err != nil {
		return nil, err
	}
	payment := resp.Payment.toDomain()
	return &payment, nil
}

func (c *PaymentClient) ListPayments(ctx context.Context, q paymentDomain.PaymentQuery) (*paymentDomain.PaymentPage, error) {
	params := url.Values{}
	sharedQuery.SetIfNotEmpty(params, "invoice_id", q.InvoiceID)
	sharedQuery.SetIfNotEmpty(params, "external_customer_id", q.ExternalCustomerID)
	q.Pagination.Apply(params)

	var resp paymentListResponse
	err := c.client.Do(ctx, gateway.Request{
		Operation: OpListPayments,
		Method:    http.MethodGet,
		Path:      paymentsPath,
		Query:     params,
	}, &resp)
	if err != nil {
		return nil, err
	}

	page := &paymentDomain.PaymentPage{
		Payments: make([]paymentDomain.Payment, 0, len(resp.Payments)),
		Meta:     resp.Meta,
	}
	for _, dto := range resp.Payments {
		page.Payments = append(page.Payments, dto.toDomain())
	}
	return page, nil
}
