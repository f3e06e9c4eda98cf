package http

import "github.com/gin-gonic/gin"

// RegisterPaymentRoutes registra las rutas HTTP de pagos.
func RegisterPaymentRoutes(r gin.IRouter, handler *PaymentHandler) {
	payments := r.Group("/payments")
	{
		payments.POST("", handler.CreatePayment) // Registrar un pago
		payments.GET("", handler.ListPayments)   // Listar pagos
		payments.GET("/:id", handler.GetPayment) // Consultar un pago
	}
}
