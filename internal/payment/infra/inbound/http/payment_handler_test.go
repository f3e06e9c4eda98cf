package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/davicafu/billingbridge/internal/mocks"
	"github.com/davicafu/billingbridge/internal/payment/application"
	paymentDomain "github.com/davicafu/billingbridge/internal/payment/domain"
	sharedDomain "github.com/davicafu/billingbridge/internal/shared/domain"
	sharedQuery "github.com/davicafu/billingbridge/internal/shared/infra/platform/query"
	"github.com/davicafu/billingbridge/internal/shared/temporal"
)

func newRouter(gw *mocks.MockPaymentGateway, pub *mocks.MockPublisher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := application.NewPaymentService(temporal.NewNormalizer(), gw, pub, nil, time.Hour, "MWK", zap.NewNop())
	r := gin.New()
	RegisterPaymentRoutes(r.Group("/api/v1"), NewPaymentHandler(svc))
	return r
}

func TestCreatePayment_HTTPForwardsIdempotencyKey(t *testing.T) {
	gw := new(mocks.MockPaymentGateway)
	pub := new(mocks.MockPublisher)
	gw.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p paymentDomain.NewPayment) bool {
		return p.IdempotencyKey == "idem-42"
	})).Return(&paymentDomain.Payment{ID: "pay_1", AmountCents: 250}, nil)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(`{"invoice_id":"inv_1","amount_cents":250,"paid_at":"2025-06-11"}`))
	req.Header.Set(HeaderIdempotencyKey, "idem-42")
	rec := httptest.NewRecorder()
	newRouter(gw, pub).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"payment_id":"pay_1"`)
	assert.Contains(t, rec.Body.String(), `"amount_major":"2.5"`)
	gw.AssertExpectations(t)
}

func TestCreatePayment_HTTPZeroAmount(t *testing.T) {
	gw := new(mocks.MockPaymentGateway)
	rec := httptest.NewRecorder()
	newRouter(gw, new(mocks.MockPublisher)).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(`{"invoice_id":"inv_1","amount_cents":0}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "amount_cents")
	gw.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
}

func TestGetPayment_HTTPNotFoundPassesThrough(t *testing.T) {
	gw := new(mocks.MockPaymentGateway)
	gw.On("GetPayment", mock.Anything, "pay_404").Return(nil, &sharedDomain.GatewayError{
		Kind: sharedDomain.GatewayRejected, Operation: "retrieve-payment", StatusCode: 404, Reason: "not found",
	})

	rec := httptest.NewRecorder()
	newRouter(gw, new(mocks.MockPublisher)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/payments/pay_404", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not found")
}

func TestListPayments_HTTPQueryBinding(t *testing.T) {
	gw := new(mocks.MockPaymentGateway)
	gw.On("ListPayments", mock.Anything, paymentDomain.PaymentQuery{
		InvoiceID:  "inv_1",
		Pagination: sharedQuery.PagePagination{Page: 2, PerPage: 100},
	}).Return(&paymentDomain.PaymentPage{}, nil)

	rec := httptest.NewRecorder()
	newRouter(gw, new(mocks.MockPublisher)).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/api/v1/payments?invoice_id=inv_1&page=2&per_page=900", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	gw.AssertExpectations(t)
}

func TestListPayments_HTTPBadPage(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(new(mocks.MockPaymentGateway), new(mocks.MockPublisher)).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/api/v1/payments?page=abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
