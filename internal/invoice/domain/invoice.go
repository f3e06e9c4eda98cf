package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/davicafu/billingbridge/internal/shared/domain"
	sharedQuery "github.com/davicafu/billingbridge/internal/shared/infra/platform/query"
	"github.com/davicafu/billingbridge/internal/shared/temporal"
)

// Customer es el cliente al que pertenece una factura.
type Customer struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
}

// Invoice es una proyección de sólo lectura; los totales los calcula el motor.
type Invoice struct {
	ID               string   `json:"id"`
	Number           string   `json:"number"`
	Status           string   `json:"status"`
	PaymentStatus    string   `json:"payment_status"`
	Currency         string   `json:"currency"`
	TotalAmountCents int64    `json:"total_amount_cents"`
	IssuingDate      string   `json:"issuing_date,omitempty"`
	Customer         Customer `json:"customer"`
	FileURL          string   `json:"file_url,omitempty"`
}

// InvoicePage es una página de facturas con sus metadatos.
type InvoicePage struct {
	Invoices []Invoice
	Meta     sharedQuery.PageMeta
}

// Acciones auditadas sobre facturas.
const (
	AuditRetrieved  = "retrieved"
	AuditDownloaded = "downloaded"
)

// InvoiceAuditRecord es el evento de auditoría que se publica al consultar o descargar.
type InvoiceAuditRecord struct {
	InvoiceID  string    `json:"invoice_id"`
	Number     string    `json:"number,omitempty"`
	Action     string    `json:"action"`
	SizeBytes  int       `json:"size_bytes,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (r InvoiceAuditRecord) PartitionKey() string { return r.InvoiceID }

// InvoiceQueryRequest son los filtros de listado tal como llegan en la URL.
type InvoiceQueryRequest struct {
	ExternalCustomerID     string `form:"external_customer_id"`
	ExternalSubscriptionID string `form:"external_subscription_id"`
	Status                 string `form:"status"`
	PaymentStatus          string `form:"payment_status"`
	IssuingDateFrom        string `form:"issuing_date_from"`
	IssuingDateTo          string `form:"issuing_date_to"`
	Page                   *int   `form:"page"`
	PerPage                *int   `form:"per_page"`
}

// InvoiceQuery es el listado traducido. Las fechas van en yyyy-MM-dd o vacías.
type InvoiceQuery struct {
	ExternalCustomerID     string
	ExternalSubscriptionID string
	Status                 string
	PaymentStatus          string
	IssuingDateFrom        string
	IssuingDateTo          string
	Pagination             sharedQuery.PagePagination
}

// TranslateInvoiceQuery pasa los filtros tal cual, normaliza el rango de fechas y acota la
// paginación. Una fecha ilegible devuelve *sharedDomain.FormatError.
func TranslateInvoiceQuery(req InvoiceQueryRequest) (InvoiceQuery, error) {
	from, err := optionalDate(req.IssuingDateFrom)
	if err != nil {
		return InvoiceQuery{}, err
	}
	to, err := optionalDate(req.IssuingDateTo)
	if err != nil {
		return InvoiceQuery{}, err
	}

	return InvoiceQuery{
		ExternalCustomerID:     strings.TrimSpace(req.ExternalCustomerID),
		ExternalSubscriptionID: strings.TrimSpace(req.ExternalSubscriptionID),
		Status:                 strings.TrimSpace(req.Status),
		PaymentStatus:          strings.TrimSpace(req.PaymentStatus),
		IssuingDateFrom:        from,
		IssuingDateTo:          to,
		Pagination:             sharedQuery.NewPagePagination(req.Page, req.PerPage),
	}, nil
}

// ValidateInvoiceID rechaza ids vacíos o que no son un segmento de ruta válido antes de
// llamar al motor.
func ValidateInvoiceID(id string) (string, error) {
	return sharedDomain.ValidateResourceID(id)
}

func optionalDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	t, ok := temporal.Parse(s)
	if !ok {
		return "", &sharedDomain.FormatError{Input: s, Kind: string(temporal.Date)}
	}
	return temporal.FormatDate(t), nil
}
