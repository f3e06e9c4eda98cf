package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	invoiceDomain "github.com/davicafu/billingbridge/internal/invoice/domain"
	"github.com/davicafu/billingbridge/internal/mocks"
	sharedApp "github.com/davicafu/billingbridge/internal/shared/application"
	"github.com/davicafu/billingbridge/internal/shared/application/result"
	sharedDomain "github.com/davicafu/billingbridge/internal/shared/domain"
	sharedQuery "github.com/davicafu/billingbridge/internal/shared/infra/platform/query"
)

var auditTime = time.Date(2025, 6, 11, 11, 49, 2, 0, time.UTC)

func newService(gw *mocks.MockInvoiceGateway, pub *mocks.MockPublisher) *InvoiceService {
	svc := NewInvoiceService(gw, pub, zap.NewNop())
	svc.now = func() time.Time { return auditTime }
	return svc
}

func TestGetInvoice_PublishesAudit(t *testing.T) {
	gw := new(mocks.MockInvoiceGateway)
	pub := new(mocks.MockPublisher)
	svc := newService(gw, pub)

	gw.On("GetInvoice", mock.Anything, "inv_1").Return(&invoiceDomain.Invoice{ID: "inv_1", Number: "LAG-001"}, nil)
	pub.On("Publish", mock.Anything, sharedApp.TopicInvoiceRetrieved, invoiceDomain.InvoiceAuditRecord{
		InvoiceID: "inv_1", Number: "LAG-001", Action: invoiceDomain.AuditRetrieved, OccurredAt: auditTime,
	}).Return(nil).Once()

	res := svc.GetInvoice(context.Background(), "inv_1")

	require.True(t, res.Success, res.Message)
	assert.Equal(t, "LAG-001", res.Invoice.Number)
	pub.AssertExpectations(t)
}

func TestGetInvoice_AuditPublishFailureFailsOperation(t *testing.T) {
	gw := new(mocks.MockInvoiceGateway)
	pub := new(mocks.MockPublisher)
	svc := newService(gw, pub)

	gw.On("GetInvoice", mock.Anything, "inv_1").Return(&invoiceDomain.Invoice{ID: "inv_1"}, nil)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).
		Return(&sharedDomain.PublishError{Topic: sharedApp.TopicInvoiceRetrieved, Err: errors.New("down")})

	res := svc.GetInvoice(context.Background(), "inv_1")

	assert.False(t, res.Success)
	assert.Equal(t, result.StagePublish, res.Stage)
	assert.NotNil(t, res.Invoice)
}

func TestGetInvoice_NotFoundDoesNotPublish(t *testing.T) {
	gw := new(mocks.MockInvoiceGateway)
	pub := new(mocks.MockPublisher)
	svc := newService(gw, pub)

	gw.On("GetInvoice", mock.Anything, "missing").Return(nil, &sharedDomain.GatewayError{
		Kind: sharedDomain.GatewayRejected, Operation: "get-invoice", StatusCode: 404, Reason: "not found",
	})

	res := svc.GetInvoice(context.Background(), "missing")

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "not found")
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestDownloadInvoice_PublishesAuditWithSize(t *testing.T) {
	gw := new(mocks.MockInvoiceGateway)
	pub := new(mocks.MockPublisher)
	svc := newService(gw, pub)

	pdf := []byte("%PDF-1.7 content")
	gw.On("DownloadInvoicePDF", mock.Anything, "inv_1").Return(pdf, nil).Once()
	pub.On("Publish", mock.Anything, sharedApp.TopicInvoiceDownloaded, invoiceDomain.InvoiceAuditRecord{
		InvoiceID: "inv_1", Action: invoiceDomain.AuditDownloaded, SizeBytes: len(pdf), OccurredAt: auditTime,
	}).Return(nil).Once()

	res := svc.DownloadInvoice(context.Background(), "inv_1")

	require.True(t, res.Success, res.Message)
	assert.Equal(t, pdf, res.PDF)
	assert.Equal(t, len(pdf), res.SizeBytes)
	gw.AssertNumberOfCalls(t, "DownloadInvoicePDF", 1)
}

func TestDownloadInvoice_GatewayFailure(t *testing.T) {
	gw := new(mocks.MockInvoiceGateway)
	pub := new(mocks.MockPublisher)
	svc := newService(gw, pub)

	gw.On("DownloadInvoicePDF", mock.Anything, "inv_1").Return(nil, &sharedDomain.GatewayError{
		Kind: sharedDomain.GatewayUnavailable, Operation: "download-invoice-pdf", Reason: "timed out waiting for the billing engine",
	})

	res := svc.DownloadInvoice(context.Background(), "inv_1")

	assert.False(t, res.Success)
	assert.Nil(t, res.PDF)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestListInvoices_BadDateNeverCallsGateway(t *testing.T) {
	gw := new(mocks.MockInvoiceGateway)
	svc := newService(gw, new(mocks.MockPublisher))

	res := svc.ListInvoices(context.Background(), invoiceDomain.InvoiceQueryRequest{IssuingDateTo: "??"})

	assert.Equal(t, result.StageFormat, res.Stage)
	gw.AssertNotCalled(t, "ListInvoices", mock.Anything, mock.Anything)
}

func TestListInvoices_Success(t *testing.T) {
	gw := new(mocks.MockInvoiceGateway)
	pub := new(mocks.MockPublisher)
	svc := newService(gw, pub)

	gw.On("ListInvoices", mock.Anything, mock.MatchedBy(func(q invoiceDomain.InvoiceQuery) bool {
		return q.Status == "draft" && q.Pagination == sharedQuery.PagePagination{Page: 1, PerPage: 20}
	})).Return(&invoiceDomain.InvoicePage{
		Invoices: []invoiceDomain.Invoice{{ID: "inv_1"}},
		Meta:     sharedQuery.PageMeta{CurrentPage: 1, TotalPages: 1, TotalCount: 1},
	}, nil)

	res := svc.ListInvoices(context.Background(), invoiceDomain.InvoiceQueryRequest{Status: "draft"})

	require.True(t, res.Success)
	assert.Len(t, res.Invoices, 1)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestFinalizeAndRefresh(t *testing.T) {
	gw := new(mocks.MockInvoiceGateway)
	svc := newService(gw, new(mocks.MockPublisher))

	gw.On("FinalizeInvoice", mock.Anything, "inv_1").Return(&invoiceDomain.Invoice{ID: "inv_1", Status: "finalized"}, nil)
	gw.On("RefreshInvoice", mock.Anything, "inv_1").Return(nil, &sharedDomain.GatewayError{
		Kind: sharedDomain.GatewayRejected, Operation: "refresh-invoice", StatusCode: 422, Reason: "field validation rejected by the billing engine",
	})

	finalized := svc.FinalizeInvoice(context.Background(), "inv_1")
	assert.True(t, finalized.Success)
	assert.Equal(t, "finalized", finalized.Invoice.Status)

	refreshed := svc.RefreshInvoice(context.Background(), "inv_1")
	assert.False(t, refreshed.Success)
	assert.Equal(t, 422, refreshed.GatewayStatus)

	blank := svc.FinalizeInvoice(context.Background(), "")
	assert.Equal(t, result.StageValidation, blank.Stage)
}

func TestDownloadInvoice_PublishesWithLiveContextAfterCallerCancels(t *testing.T) {
	gw := new(mocks.MockInvoiceGateway)
	pub := new(mocks.MockPublisher)
	svc := newService(gw, pub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gw.On("DownloadInvoicePDF", mock.Anything, "inv_1").
		Run(func(args mock.Arguments) { cancel() }).
		Return([]byte("%PDF-1.4"), nil).Once()
	pub.On("Publish", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil }),
		sharedApp.TopicInvoiceDownloaded, mock.Anything).Return(nil).Once()

	res := svc.DownloadInvoice(ctx, "inv_1")

	require.True(t, res.Success, res.Message)
	pub.AssertExpectations(t)
}
