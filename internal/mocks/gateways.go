package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	eventDomain "github.com/davicafu/billingbridge/internal/event/domain"
	invoiceDomain "github.com/davicafu/billingbridge/internal/invoice/domain"
	paymentDomain "github.com/davicafu/billingbridge/internal/payment/domain"
)

// MockUsageEventGateway simula el motor para eventos de uso
type MockUsageEventGateway struct {
	mock.Mock
}

var _ eventDomain.UsageEventGateway = (*MockUsageEventGateway)(nil)

func (m *MockUsageEventGateway) SendUsageEvent(ctx context.Context, evt eventDomain.UsageEvent) (*eventDomain.UsageEventAck, error) {
	args := m.Called(ctx, evt)
	ack, _ := args.Get(0).(*eventDomain.UsageEventAck)
	return ack, args.Error(1)
}

// MockPaymentGateway simula el motor para pagos
type MockPaymentGateway struct {
	mock.Mock
}

var _ paymentDomain.PaymentGateway = (*MockPaymentGateway)(nil)

func (m *MockPaymentGateway) CreatePayment(ctx context.Context, p paymentDomain.NewPayment) (*paymentDomain.Payment, error) {
	args := m.Called(ctx, p)
	payment, _ := args.Get(0).(*paymentDomain.Payment)
	return payment, args.Error(1)
}

func (m *MockPaymentGateway) GetPayment(ctx context.Context, id string) (*paymentDomain.Payment, error) {
	args := m.Called(ctx, id)
	payment, _ := args.Get(0).(*paymentDomain.Payment)
	return payment, args.Error(1)
}

func (m *MockPaymentGateway) ListPayments(ctx context.Context, q paymentDomain.PaymentQuery) (*paymentDomain.PaymentPage, error) {
	args := m.Called(ctx, q)
	page, _ := args.Get(0).(*paymentDomain.PaymentPage)
	return page, args.Error(1)
}

// MockInvoiceGateway simula el motor para facturas
type MockInvoiceGateway struct {
	mock.Mock
}

var _ invoiceDomain.InvoiceGateway = (*MockInvoiceGateway)(nil)

func (m *MockInvoiceGateway) GetInvoice(ctx context.Context, id string) (*invoiceDomain.Invoice, error) {
	args := m.Called(ctx, id)
	inv, _ := args.Get(0).(*invoiceDomain.Invoice)
	return inv, args.Error(1)
}

func (m *MockInvoiceGateway) ListInvoices(ctx context.Context, q invoiceDomain.InvoiceQuery) (*invoiceDomain.InvoicePage, error) {
	args := m.Called(ctx, q)
	page, _ := args.Get(0).(*invoiceDomain.InvoicePage)
	return page, args.Error(1)
}

func (m *MockInvoiceGateway) DownloadInvoicePDF(ctx context.Context, id string) ([]byte, error) {
	args := m.Called(ctx, id)
	pdf, _ := args.Get(0).([]byte)
	return pdf, args.Error(1)
}

func (m *MockInvoiceGateway) FinalizeInvoice(ctx context.Context, id string) (*invoiceDomain.Invoice, error) {
	args := m.Called(ctx, id)
	inv, _ := args.Get(0).(*invoiceDomain.Invoice)
	return inv, args.Error(1)
}

func (m *MockInvoiceGateway) RefreshInvoice(ctx context.Context, id string) (*invoiceDomain.Invoice, error) {
	args := m.Called(ctx, id)
	inv, _ := args.Get(0).(*invoiceDomain.Invoice)
	return inv, args.Error(1)
}
