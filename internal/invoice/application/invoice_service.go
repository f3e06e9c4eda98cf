package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	invoiceDomain "github.com/davicafu/billingbridge/internal/invoice/domain"
	sharedApp "github.com/davicafu/billingbridge/internal/shared/application"
	"github.com/davicafu/billingbridge/internal/shared/application/result"
	sharedQuery "github.com/davicafu/billingbridge/internal/shared/infra/platform/query"
)

const (
	OpGetInvoice      = "get-invoice"
	OpListInvoices    = "list-invoices"
	OpDownloadInvoice = "download-invoice-pdf"
	OpFinalizeInvoice = "finalize-invoice"
	OpRefreshInvoice  = "refresh-invoice"
)

// InvoiceResult es el resultado de las operaciones sobre una factura.
type InvoiceResult struct {
	result.Result
	Invoice *invoiceDomain.Invoice `json:"invoice,omitempty"`
}

// InvoiceListResult es una página de facturas.
type InvoiceListResult struct {
	result.Result
	Invoices []invoiceDomain.Invoice `json:"invoices,omitempty"`
	Meta     *sharedQuery.PageMeta   `json:"meta,omitempty"`
}

// InvoiceDownloadResult lleva el PDF fuera del JSON.
type InvoiceDownloadResult struct {
	result.Result
	InvoiceID string `json:"invoice_id,omitempty"`
	SizeBytes int    `json:"size_bytes,omitempty"`
	PDF       []byte `json:"-"`
}

// InvoiceService define los casos de uso de facturas. Consultar y descargar una factura
// publica un registro de auditoría.
type InvoiceService struct {
	gateway   invoiceDomain.InvoiceGateway
	publisher sharedApp.EventPublisher
	now       func() time.Time
	log       *zap.Logger
}

func NewInvoiceService(gateway invoiceDomain.InvoiceGateway, publisher sharedApp.EventPublisher, log *zap.Logger) *InvoiceService {
	return &InvoiceService{gateway: gateway, publisher: publisher, now: time.Now, log: log}
}

// ListInvoices lista facturas; no publica.
func (s *InvoiceService) ListInvoices(ctx context.Context, req invoiceDomain.InvoiceQueryRequest) (res InvoiceListResult) {
	defer result.Recover(s.log, OpListInvoices, &res.Result)

	q, err := invoiceDomain.TranslateInvoiceQuery(req)
	if err != nil {
		res.Result = result.Fail(err)
		return res
	}

	page, err := s.gateway.ListInvoices(ctx, q)
	if err != nil {
		res.Result = result.Fail(err)
		return res
	}

	res.Invoices = page.Invoices
	meta := page.Meta
	res.Meta = &meta
	res.Result = result.OK("invoices retrieved")
	return res
}

// GetInvoice consulta una factura y publica invoice.retrieved.
func (s *InvoiceService) GetInvoice(ctx context.Context, id string) (res InvoiceResult) {
	defer result.Recover(s.log, OpGetInvoice, &res.Result)

	id, err := invoiceDomain.ValidateInvoiceID(id)
	if err != nil {
		res.Result = result.Fail(err)
		return res
	}

	inv, err := s.gateway.GetInvoice(ctx, id)
	if err != nil {
		res.Result = result.Fail(err)
		return res
	}
	res.Invoice = inv

	audit := invoiceDomain.InvoiceAuditRecord{
		InvoiceID:  inv.ID,
		Number:     inv.Number,
		Action:     invoiceDomain.AuditRetrieved,
		OccurredAt: s.now().UTC(),
	}
	if audit.InvoiceID == "" {
		audit.InvoiceID = id
	}
	pubCtx, cancel := sharedApp.AfterCommit(ctx)
	defer cancel()
	if err := s.publisher.Publish(pubCtx, sharedApp.TopicInvoiceRetrieved, audit); err != nil {
		res.Result = result.Fail(err)
		return res
	}

	res.Result = result.OK("invoice retrieved")
	return res
}

// DownloadInvoice descarga el PDF y publica invoice.downloaded.
func (s *InvoiceService) DownloadInvoice(ctx context.Context, id string) (res InvoiceDownloadResult) {
	defer result.Recover(s.log, OpDownloadInvoice, &res.Result)

	id, err := invoiceDomain.ValidateInvoiceID(id)
	if err != nil {
		res.Result = result.Fail(err)
		return res
	}
	res.InvoiceID = id

	pdf, err := s.gateway.DownloadInvoicePDF(ctx, id)
	if err != nil {
		res.Result = result.Fail(err)
		return res
	}
	res.SizeBytes = len(pdf)

	audit := invoiceDomain.InvoiceAuditRecord{
		InvoiceID:  id,
		Action:     invoiceDomain.AuditDownloaded,
		SizeBytes:  len(pdf),
		OccurredAt: s.now().UTC(),
	}
	pubCtx, cancel := sharedApp.AfterCommit(ctx)
	defer cancel()
	if err := s.publisher.Publish(pubCtx, sharedApp.TopicInvoiceDownloaded, audit); err != nil {
		res.Result = result.Fail(err)
		return res
	}

	res.PDF = pdf
	res.Result = result.OK("invoice downloaded")
	s.log.Info("📄 Factura descargada", zap.String("invoice_id", id), zap.Int("size_bytes", len(pdf)))
	return res
}

// FinalizeInvoice pasa una factura borrador a definitiva.
func (s *InvoiceService) FinalizeInvoice(ctx context.Context, id string) InvoiceResult {
	return s.transition(ctx, OpFinalizeInvoice, id, s.gateway.FinalizeInvoice, "invoice finalized")
}

// RefreshInvoice recalcula una factura borrador.
func (s *InvoiceService) RefreshInvoice(ctx context.Context, id string) InvoiceResult {
	return s.transition(ctx, OpRefreshInvoice, id, s.gateway.RefreshInvoice, "invoice refreshed")
}

func (s *InvoiceService) transition(
	ctx context.Context,
	op, id string,
	call func(context.Context, string) (*invoiceDomain.Invoice, error),
	okMessage string,
) (res InvoiceResult) {
	defer result.Recover(s.log, op, &res.Result)

	id, err := invoiceDomain.ValidateInvoiceID(id)
	if err != nil {
		res.Result = result.Fail(err)
		return res
	}

	inv, err := call(ctx, id)
	if err != nil {
		s.log.Warn("Invoice transition failed", zap.String("operation", op), zap.String("invoice_id", id), zap.Error(err))
		res.Result = result.Fail(err)
		return res
	}

	res.Invoice = inv
	res.Result = result.OK(okMessage)
	return res
}
