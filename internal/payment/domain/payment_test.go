package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/davicafu/billingbridge/internal/shared/domain"
)

var paidAt = time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)

func TestTranslatePayment_Valid(t *testing.T) {
	req := PaymentRequest{InvoiceID: " inv_1 ", AmountCents: 1500, Currency: "usd", Reference: "ref-9"}

	p, err := TranslatePayment(req, paidAt, "idem-1", "MWK")

	require.NoError(t, err)
	assert.Equal(t, NewPayment{
		InvoiceID:      "inv_1",
		AmountCents:    1500,
		Currency:       "USD",
		Reference:      "ref-9",
		PaidAt:         paidAt,
		IdempotencyKey: "idem-1",
	}, p)
}

func TestTranslatePayment_DefaultCurrency(t *testing.T) {
	p, err := TranslatePayment(PaymentRequest{InvoiceID: "inv_1", AmountCents: 1}, paidAt, "k", "")
	require.NoError(t, err)
	assert.Equal(t, "MWK", p.Currency)

	p, err = TranslatePayment(PaymentRequest{InvoiceID: "inv_1", AmountCents: 1}, paidAt, "k", "eur")
	require.NoError(t, err)
	assert.Equal(t, "EUR", p.Currency)
}

func TestTranslatePayment_NonPositiveAmount(t *testing.T) {
	for _, amount := range []int64{0, -1, -150000} {
		_, err := TranslatePayment(PaymentRequest{InvoiceID: "inv_1", AmountCents: amount}, paidAt, "k", "MWK")

		var ve *sharedDomain.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, []string{"amount_cents"}, ve.Fields())
		assert.Contains(t, err.Error(), "amount")
	}
}

func TestTranslatePayment_ReportsAllViolations(t *testing.T) {
	_, err := TranslatePayment(PaymentRequest{Currency: "US"}, paidAt, "k", "MWK")

	var ve *sharedDomain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"invoice_id", "amount_cents", "currency"}, ve.Fields())
}

func TestPayment_AmountMajor(t *testing.T) {
	p := Payment{AmountCents: 123456}
	assert.Equal(t, "1234.56", p.AmountMajor().StringFixed(2))

	p = Payment{AmountCents: 5}
	assert.Equal(t, "0.05", p.AmountMajor().StringFixed(2))
}

func TestTranslatePaymentQuery_Clamps(t *testing.T) {
	page, perPage := 0, 1000
	q := TranslatePaymentQuery(PaymentQueryRequest{InvoiceID: "inv_1", Page: &page, PerPage: &perPage})

	assert.Equal(t, "inv_1", q.InvoiceID)
	assert.Equal(t, 1, q.Pagination.Page)
	assert.Equal(t, 100, q.Pagination.PerPage)
}
