package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	paymentDomain "github.com/davicafu/billingbridge/internal/payment/domain"
	sharedDomain "github.com/davicafu/billingbridge/internal/shared/domain"
	sharedGateway "github.com/davicafu/billingbridge/internal/shared/infra/gateway"
	sharedQuery "github.com/davicafu/billingbridge/internal/shared/infra/platform/query"
)

func newClient(t *testing.T, h http.HandlerFunc) *PaymentClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	transport, err := sharedGateway.New(sharedGateway.Config{BaseURL: srv.URL, APIKey: "k"}, zap.NewNop())
	require.NoError(t, err)
	return NewPaymentClient(transport)
}

func TestCreatePayment_WirePayloadAndMapping(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/payments", r.URL.Path)
		assert.Equal(t, "idem-1", r.Header.Get("Idempotency-Key"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"payment":{"invoice_id":"inv_1","amount_cents":1500,"reference":"ref-9","paid_at":"2025-06-11"}}`, string(body))

		_, _ = w.Write([]byte(`{"payment":{
			"lago_id":"pay_1","invoice_ids":["inv_1"],"amount_cents":1500,
			"payment_status":"succeeded","reference":"ref-9",
			"paid_at":"2025-06-11","created_at":"2025-06-11T11:49:02Z","updated_at":"2025-06-11T11:49:02Z"}}`))
	})

	p, err := client.CreatePayment(context.Background(), paymentDomain.NewPayment{
		InvoiceID:      "inv_1",
		AmountCents:    1500,
		Currency:       "USD",
		Reference:      "ref-9",
		PaidAt:         time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
		IdempotencyKey: "idem-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "pay_1", p.ID)
	assert.Equal(t, "inv_1", p.InvoiceID)
	assert.Equal(t, "USD", p.Currency, "sin moneda en la respuesta se conserva la pedida")
	assert.Equal(t, "succeeded", p.Status)
	assert.Equal(t, time.Date(2025, 6, 11, 11, 49, 2, 0, time.UTC), p.CreatedAt)
}

func TestGetPayment_NotFound(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/payments/pay_404", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":404,"error":"Not Found","code":"payment_not_found"}`))
	})

	_, err := client.GetPayment(context.Background(), "pay_404")

	assert.ErrorIs(t, err, sharedDomain.ErrGatewayRejected)
	assert.Contains(t, err.Error(), "not found")
}

func TestListPayments_QueryAndMeta(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "inv_1", r.URL.Query().Get("invoice_id"))
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		_, _ = w.Write([]byte(`{"payments":[{"lago_id":"pay_1","invoice_id":"inv_1","amount_cents":10,"amount_currency":"MWK"}],
			"meta":{"current_page":3,"next_page":null,"prev_page":2,"total_pages":3,"total_count":201}}`))
	})

	page, err := client.ListPayments(context.Background(), paymentDomain.PaymentQuery{
		InvoiceID:  "inv_1",
		Pagination: sharedQuery.PagePagination{Page: 3, PerPage: 100},
	})

	require.NoError(t, err)
	require.Len(t, page.Payments, 1)
	assert.Equal(t, "MWK", page.Payments[0].Currency)
	assert.Equal(t, sharedQuery.PageMeta{CurrentPage: 3, PrevPage: 2, TotalPages: 3, TotalCount: 201}, page.Meta)
}
