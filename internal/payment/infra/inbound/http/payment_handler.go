package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/billingbridge/internal/payment/application"
	paymentDomain "github.com/davicafu/billingbridge/internal/payment/domain"
	"github.com/davicafu/billingbridge/pkg/utils"
)

// HeaderIdempotencyKey es la cabecera con la que el llamador identifica un pago.
const HeaderIdempotencyKey = "Idempotency-Key"

// PaymentUseCase es lo que el handler necesita del servicio.
type PaymentUseCase interface {
	CreatePayment(ctx context.Context, req paymentDomain.PaymentRequest, idempotencyKey string) application.PaymentResult
	GetPayment(ctx context.Context, id string) application.PaymentResult
	ListPayments(ctx context.Context, req paymentDomain.PaymentQueryRequest) application.PaymentListResult
}

// PaymentHandler encapsula los endpoints HTTP de pagos.
type PaymentHandler struct {
	service PaymentUseCase
}

func NewPaymentHandler(service PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// CreatePayment endpoint POST /api/v1/payments
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req paymentDomain.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, "body", err)
		return
	}

	res := h.service.CreatePayment(c.Request.Context(), req, c.GetHeader(HeaderIdempotencyKey))
	utils.SendResult(c, res.Result, http.StatusCreated, res)
}

// GetPayment endpoint GET /api/v1/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	res := h.service.GetPayment(c.Request.Context(), c.Param("id"))
	utils.SendResult(c, res.Result, http.StatusOK, res)
}

// ListPayments endpoint GET /api/v1/payments con filtros y paginación
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	var req paymentDomain.PaymentQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.SendBadRequest(c, "query", err)
		return
	}

	res := h.service.ListPayments(c.Request.Context(), req)
	utils.SendResult(c, res.Result, http.StatusOK, res)
}
