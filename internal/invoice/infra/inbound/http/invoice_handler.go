package http

import (
	"context"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/billingbridge/internal/invoice/application"
	invoiceDomain "github.com/davicafu/billingbridge/internal/invoice/domain"
	"github.com/davicafu/billingbridge/pkg/utils"
)

const contentTypePDF = "application/pdf"

// InvoiceUseCase es lo que el handler necesita del servicio.
type InvoiceUseCase interface {
	ListInvoices(ctx context.Context, req invoiceDomain.InvoiceQueryRequest) application.InvoiceListResult
	GetInvoice(ctx context.Context, id string) application.InvoiceResult
	DownloadInvoice(ctx context.Context, id string) application.InvoiceDownloadResult
	FinalizeInvoice(ctx context.Context, id string) application.InvoiceResult
	RefreshInvoice(ctx context.Context, id string) application.InvoiceResult
}

// InvoiceHandler encapsula los endpoints HTTP de facturas.
type InvoiceHandler struct {
	service InvoiceUseCase
}

func NewInvoiceHandler(service InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

// ListInvoices endpoint GET /api/v1/invoices
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	var req invoiceDomain.InvoiceQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.SendBadRequest(c, "query", err)
		return
	}

	res := h.service.ListInvoices(c.Request.Context(), req)
	utils.SendResult(c, res.Result, http.StatusOK, res)
}

// GetInvoice endpoint GET /api/v1/invoices/:id
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	res := h.service.GetInvoice(c.Request.Context(), c.Param("id"))
	utils.SendResult(c, res.Result, http.StatusOK, res)
}

// DownloadInvoice endpoint GET /api/v1/invoices/:id/download
// Con éxito responde el PDF; si falla, el resultado JSON como el resto de endpoints.
func (h *InvoiceHandler) DownloadInvoice(c *gin.Context) {
	res := h.service.DownloadInvoice(c.Request.Context(), c.Param("id"))
	if !res.Success {
		utils.SendResult(c, res.Result, http.StatusOK, res)
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": res.InvoiceID + ".pdf"})
	if disposition == "" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, contentTypePDF, res.PDF)
}

// FinalizeInvoice endpoint PUT /api/v1/invoices/:id/finalize
func (h *InvoiceHandler) FinalizeInvoice(c *gin.Context) {
	res := h.service.FinalizeInvoice(c.Request.Context(), c.Param("id"))
	utils.SendResult(c, res.Result, http.StatusOK, res)
}

// RefreshInvoice endpoint PUT /api/v1/invoices/:id/refresh
func (h *InvoiceHandler) RefreshInvoice(c *gin.Context) {
	res := h.service.RefreshInvoice(c.Request.Context(), c.Param("id"))
	utils.SendResult(c, res.Result, http.StatusOK, res)
}
