package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/billingbridge/internal/event/application"
	eventDomain "github.com/davicafu/billingbridge/internal/event/domain"
	"github.com/davicafu/billingbridge/internal/mocks"
	sharedDomain "github.com/davicafu/billingbridge/internal/shared/domain"
	"github.com/davicafu/billingbridge/internal/shared/temporal"
)

func newRouter(gw *mocks.MockUsageEventGateway, pub *mocks.MockPublisher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := application.NewUsageEventService(temporal.NewNormalizer(), gw, pub, nil, time.Hour, zap.NewNop())
	r := gin.New()
	RegisterUsageEventRoutes(r.Group("/api/v1"), NewUsageEventHandler(svc))
	return r
}

func TestCreateUsageEvent_HTTPContract(t *testing.T) {
	gw := new(mocks.MockUsageEventGateway)
	pub := new(mocks.MockPublisher)
	gw.On("SendUsageEvent", mock.Anything, mock.Anything).Return(&eventDomain.UsageEventAck{EngineID: "evt_1"}, nil)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	body := `{"transaction_id":"tx_abc","external_subscription_id":"sub_1","code":"api_call","timestamp":"2025-06-11T11:49:02Z","properties":{"b":1,"a":2}}`
	rec := httptest.NewRecorder()
	newRouter(gw, pub).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var res application.UsageEventResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, "tx_abc", res.TransactionID)
	assert.Equal(t, int64(1749642542), res.TimestampEpoch)

	sent := gw.Calls[0].Arguments.Get(1).(eventDomain.UsageEvent)
	assert.Equal(t, []string{"b", "a"}, sent.Properties.Keys())
}

func TestCreateUsageEvent_HTTPValidation(t *testing.T) {
	gw := new(mocks.MockUsageEventGateway)
	pub := new(mocks.MockPublisher)

	rec := httptest.NewRecorder()
	newRouter(gw, pub).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "external_subscription_id")
	assert.Contains(t, rec.Body.String(), `"field":"code"`)
	gw.AssertNotCalled(t, "SendUsageEvent", mock.Anything, mock.Anything)
}

func TestCreateUsageEvent_HTTPMalformedBody(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(new(mocks.MockUsageEventGateway), new(mocks.MockPublisher)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(`{"properties":[1]}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateUsageEvent_HTTPGatewayUnavailable(t *testing.T) {
	gw := new(mocks.MockUsageEventGateway)
	pub := new(mocks.MockPublisher)
	gw.On("SendUsageEvent", mock.Anything, mock.Anything).Return(nil, &sharedDomain.GatewayError{
		Kind: sharedDomain.GatewayUnavailable, Operation: "send-usage-event", Reason: "billing engine unreachable",
	})

	rec := httptest.NewRecorder()
	newRouter(gw, pub).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/events",
		strings.NewReader(`{"external_subscription_id":"sub_1","code":"api_call"}`)))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), `"stage":"gateway"`)
}
