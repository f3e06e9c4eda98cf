package http

import "github.com/gin-gonic/gin"

// RegisterInvoiceRoutes registra las rutas HTTP de facturas.
func RegisterInvoiceRoutes(r gin.IRouter, handler *InvoiceHandler) {
	invoices := r.Group("/invoices")
	{
		invoices.GET("", handler.ListInvoices)                 // Listar facturas
		invoices.GET("/:id", handler.GetInvoice)               // Consultar una factura
		invoices.GET("/:id/download", handler.DownloadInvoice) // Descargar el PDF
		invoices.PUT("/:id/finalize", handler.FinalizeInvoice) // Finalizar un borrador
		invoices.PUT("/:id/refresh", handler.RefreshInvoice)   // Recalcular un borrador
	}
}
