package domain

import "context"

// InvoiceGateway es el acceso del núcleo a las facturas del motor de facturación.
type InvoiceGateway interface {
	GetInvoice(ctx context.Context, id string) (*Invoice, error)
	ListInvoices(ctx context.Context, q InvoiceQuery) (*InvoicePage, error)
	DownloadInvoicePDF(ctx context.Context, id string) ([]byte, error)
	FinalizeInvoice(ctx context.Context, id string) (*Invoice, error)
	RefreshInvoice(ctx context.Context, id string) (*Invoice, error)
}
