package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	eventHttp "github.com/davicafu/billingbridge/internal/event/infra/inbound/http"
	invoiceHttp "github.com/davicafu/billingbridge/internal/invoice/infra/inbound/http"
	paymentHttp "github.com/davicafu/billingbridge/internal/payment/infra/inbound/http"
	sharedHttp "github.com/davicafu/billingbridge/internal/shared/infra/http"
	"github.com/davicafu/billingbridge/internal/shared/temporal"
	"github.com/davicafu/billingbridge/pkg/utils"
)

type handlers struct {
	usageEvents *eventHttp.UsageEventHandler
	payments    *paymentHttp.PaymentHandler
	invoices    *invoiceHttp.InvoiceHandler
}

func newRouter(h handlers, now func() time.Time, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(sharedHttp.RequestID(), sharedHttp.AccessLog(log), sharedHttp.Recovery(log))

	api := router.Group("/api/v1")
	eventHttp.RegisterUsageEventRoutes(api, h.usageEvents)
	paymentHttp.RegisterPaymentRoutes(api, h.payments)
	invoiceHttp.RegisterInvoiceRoutes(api, h.invoices)

	router.GET("/health", func(c *gin.Context) {
		utils.SendSuccess(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Reloj del servidor, útil para comprobar la conversión de fechas desde el llamador.
	router.GET("/time", func(c *gin.Context) {
		current := now().UTC()
		utils.SendSuccess(c, http.StatusOK, gin.H{
			"utc":   current.Format(time.RFC3339),
			"epoch": temporal.EpochSeconds(current),
		})
	})

	return router
}
