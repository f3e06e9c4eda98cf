package gateway

import (
	"context"
	"net/http"
	"net/url"

	invoiceDomain "github.com/davicafu/billingbridge/internal/invoice/domain"
	"github.com/davicafu/billingbridge/internal/shared/infra/gateway"
	sharedQuery "github.com/davicafu/billingbridge/internal/shared/infra/platform/query"
)

const (
	OpGetInvoice      = "get-invoice"
	OpListInvoices    = "list-invoices"
	OpDownloadInvoice = "download-invoice-pdf"
	OpFinalizeInvoice = "finalize-invoice"
	OpRefreshInvoice  = "refresh-invoice"

	invoicesPath = "/api/v1/invoices"
)

type customerDTO struct {
	LagoID     string `json:"lago_id"`
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}

type invoiceDTO struct {
	LagoID           string      `json:"lago_id"`
	Number           string      `json:"number"`
	Status           string      `json:"status"`
	PaymentStatus    string      `json:"payment_status"`
	Currency         string      `json:"currency"`
	TotalAmountCents int64       `json:"total_amount_cents"`
	IssuingDate      string      `json:"issuing_date"`
	Customer         customerDTO `json:"customer"`
	FileURL          string      `json:"file_url"`
}

type invoiceResponse struct {
	Invoice invoiceDTO `json:"invoice"`
}

type invoiceListResponse struct {
	Invoices []invoiceDTO         `json:"invoices"`
	Meta     sharedQuery.PageMeta `json:"meta"`
}

func (d invoiceDTO) toDomain() invoiceDomain.Invoice {
	return invoiceDomain.Invoice{
		ID:               d.LagoID,
		Number:           d.Number,
		Status:           d.Status,
		PaymentStatus:    d.PaymentStatus,
		Currency:         d.Currency,
		TotalAmountCents: d.TotalAmountCents,
		IssuingDate:      d.IssuingDate,
		Customer: invoiceDomain.Customer{
			ID:         d.Customer.LagoID,
			ExternalID: d.Customer.ExternalID,
			Name:       d.Customer.Name,
			Email:      d.Customer.Email,
		},
		FileURL: d.FileURL,
	}
}

// InvoiceClient implementa invoiceDomain.InvoiceGateway sobre el transporte compartido.
type InvoiceClient struct {
	client *gateway.Client
}

var _ invoiceDomain.InvoiceGateway = (*InvoiceClient)(nil)

func NewInvoiceClient(client *gateway.Client) *InvoiceClient {
	return &InvoiceClient{client: client}
}

func invoicePath(id string, action string) string {
	p := invoicesPath + "/" + url.PathEscape(id)
	if action != "" {
		p += "/" + action
	}
	return p
}

func (c *InvoiceClient) single(ctx context.Context, op, method, path string) (*invoiceDomain.Invoice, error) {
	var resp invoiceResponse
	if err := c.client.Do(ctx, gateway.Request{Operation: op, Method: method, Path: path}, &resp); err != nil {
		return nil, err
	}
	inv := resp.Invoice.toDomain()
	return &inv, nil
}

func (c *InvoiceClient) GetInvoice(ctx context.Context, id string) (*invoiceDomain.Invoice, error) {
	return c.single(ctx, OpGetInvoice, http.MethodGet, invoicePath(id, ""))
}

func (c *InvoiceClient) FinalizeInvoice(ctx context.Context, id string) (*invoiceDomain.Invoice, error) {
	return c.single(ctx, OpFinalizeInvoice, http.MethodPut, invoicePath(id, "finalize"))
}

func (c *InvoiceClient) RefreshInvoice(ctx context.Context, id string) (*invoiceDomain.Invoice, error) {
	return c.single(ctx, OpRefreshInvoice, http.MethodPut, invoicePath(id, "refresh"))
}

// DownloadInvoicePDF hace una sola ida y vuelta y devuelve los bytes del PDF.
func (c *InvoiceClient) DownloadInvoicePDF(ctx context.Context, id string) ([]byte, error) {
	return c.client.Download(ctx, gateway.Request{
		Operation: OpDownloadInvoice,
		Method:    http.MethodGet,
		Path:      invoicePath(id, "download"),
	})
}

func (c *InvoiceClient) ListInvoices(ctx context.Context, q invoiceDomain.InvoiceQuery) (*invoiceDomain.InvoicePage, error) {
	params := url.Values{}
	sharedQuery.SetIfNotEmpty(params, "external_customer_id", q.ExternalCustomerID)
	sharedQuery.SetIfNotEmpty(params, "external_subscription_id", q.ExternalSubscriptionID)
	sharedQuery.SetIfNotEmpty(params, "status", q.Status)
	sharedQuery.SetIfNotEmpty(params, "payment_status", q.PaymentStatus)
	sharedQuery.SetIfNotEmpty(params, "issuing_date_from", q.IssuingDateFrom)
	sharedQuery.SetIfNotEmpty(params, "issuing_date_to", q.IssuingDateTo)
	q.Pagination.Apply(params)

	var resp invoiceListResponse
	err := c.client.Do(ctx, gateway.Request{
		Operation: OpListInvoices,
		Method:    http.MethodGet,
		Path:      invoicesPath,
		Query:     params,
	}, &resp)
	if err != nil {
		return nil, err
	}

	page := &invoiceDomain.InvoicePage{
		Invoices: make([]invoiceDomain.Invoice, 0, len(resp.Invoices)),
		Meta:     resp.Meta,
	}
	for _, dto := range resp.Invoices {
		page.Invoices = append(page.Invoices, dto.toDomain())
	}
	return page, nil
}
