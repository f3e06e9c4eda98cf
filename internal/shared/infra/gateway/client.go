// Package gateway es el transporte HTTP hacia el motor de facturación: una sola ida y vuelta
// por llamada, autenticación bearer y clasificación uniforme de los fallos.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/billingbridge/internal/shared/domain"
)

const (
	DefaultTimeout   = 5 * time.Minute
	DefaultUserAgent = "billingbridge/1.0"

	contentTypeJSON = "application/json"
	contentTypePDF  = "application/pdf"

	maxDetailBytes = 2048
)

// Config es inmutable una vez construido el Client.
type Config struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	UserAgent string
}

// Client comparte un único *http.Client (y su pool de conexiones) entre todas las peticiones.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	apiKey     string
	userAgent  string
	log        *zap.Logger
}

// Request describe una llamada al motor. Headers se añade a las cabeceras por defecto.
type Request struct {
	Operation string
	Method    string
	Path      string
	Query     url.Values
	Headers   map[string]string
	Body      interface{}
}

// New valida la configuración y crea el cliente.
func New(cfg Config, log *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		httpClient: &http.Client{Transport: transport, Timeout: cfg.Timeout},
		baseURL:    u,
		apiKey:     cfg.APIKey,
		userAgent:  cfg.UserAgent,
		log:        log,
	}, nil
}

// NewWithHTTPClient permite inyectar el *http.Client (tests con httptest).
func NewWithHTTPClient(cfg Config, httpClient *http.Client, log *zap.Logger) (*Client, error) {
	c, err := New(cfg, log)
	if err != nil {
		return nil, err
	}
	c.httpClient = httpClient
	return c, nil
}

// Do envía req y decodifica un cuerpo 2xx en out (si out no es nil).
func (c *Client) Do(ctx context.Context, req Request, out interface{}) error {
	body, err := c.roundTrip(ctx, req, contentTypeJSON)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &sharedDomain.GatewayError{
			Kind:      sharedDomain.GatewayDecode,
			Operation: req.Operation,
			Reason:    "unexpected response shape",
			Err:       err,
		}
	}
	return nil
}

// Download devuelve el cuerpo crudo (PDF) de una respuesta 2xx.
func (c *Client) Download(ctx context.Context, req Request) ([]byte, error) {
	return c.roundTrip(ctx, req, contentTypePDF)
}

func (c *Client) roundTrip(ctx context.Context, req Request, accept string) ([]byte, error) {
	httpReq, err := c.newRequest(ctx, req, accept)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Warn("⚠️ Motor de facturación no disponible",
			zap.String("operation", req.Operation),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err))
		return nil, &sharedDomain.GatewayError{
			Kind:      sharedDomain.GatewayUnavailable,
			Operation: req.Operation,
			Reason:    unavailableReason(err),
			Err:       err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &sharedDomain.GatewayError{
			Kind:      sharedDomain.GatewayUnavailable,
			Operation: req.Operation,
			Reason:    "connection dropped while reading the response",
			Err:       err,
		}
	}

	c.log.Debug("Billing engine call",
		zap.String("operation", req.Operation),
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, rejection(req.Operation, resp.StatusCode, body)
	}
	return body, nil
}

func (c *Client) newRequest(ctx context.Context, req Request, accept string) (*http.Request, error) {
	rel, err := url.Parse(strings.TrimLeft(req.Path, "/"))
	if err != nil {
		return nil, &sharedDomain.UnexpectedError{Operation: req.Operation, Cause: err}
	}
	// ResolveReference resolvería "." y ".." hacia otro endpoint del motor.
	for _, segment := range strings.Split(rel.Path, "/") {
		if segment == "." || segment == ".." {
			return nil, &sharedDomain.ValidationError{Violations: []sharedDomain.FieldViolation{
				{Field: "id", Message: "is not a valid identifier"},
			}}
		}
	}
	base := *c.baseURL
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	u := base.ResolveReference(rel)
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var bodyReader io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, &sharedDomain.UnexpectedError{Operation: req.Operation, Cause: err}
		}
		bodyReader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), bodyReader)
	if err != nil {
		return nil, &sharedDomain.UnexpectedError{Operation: req.Operation, Cause: err}
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Accept", accept)
	httpReq.Header.Set("User-Agent", c.userAgent)
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", contentTypeJSON)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	return httpReq, nil
}

// engineError es la forma de los cuerpos de error del motor.
type engineError struct {
	Status       int             `json:"status"`
	Error        string          `json:"error"`
	Code         string          `json:"code"`
	ErrorDetails json.RawMessage `json:"error_details"`
}

func rejection(operation string, status int, body []byte) *sharedDomain.GatewayError {
	return &sharedDomain.GatewayError{
		Kind:       sharedDomain.GatewayRejected,
		Operation:  operation,
		StatusCode: status,
		Reason:     RejectionReason(status),
		Detail:     errorDetail(status, body),
	}
}

// RejectionReason clasifica un estado no 2xx del motor.
func RejectionReason(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "malformed request or missing referenced entity"
	case http.StatusUnauthorized:
		return "invalid API credentials, check the billing engine key"
	case http.StatusNotFound:
		return "not found"
	case http.StatusUnprocessableEntity:
		return "field validation rejected by the billing engine"
	default:
		return fmt.Sprintf("unexpected status %d %s", status, http.StatusText(status))
	}
}

func errorDetail(status int, body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	var ee engineError
	if err := json.Unmarshal(trimmed, &ee); err != nil {
		return truncate(string(trimmed))
	}

	if status == http.StatusUnprocessableEntity && len(ee.ErrorDetails) > 0 && string(ee.ErrorDetails) != "null" {
		return truncate(string(ee.ErrorDetails))
	}

	parts := make([]string, 0, 2)
	if ee.Error != "" {
		parts = append(parts, ee.Error)
	}
	if ee.Code != "" {
		parts = append(parts, ee.Code)
	}
	if len(parts) == 0 {
		return truncate(string(trimmed))
	}
	return strings.Join(parts, ": ")
}

func unavailableReason(err error) string {
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		return "request cancelled by the caller"
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out waiting for the billing engine"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "timed out waiting for the billing engine"
	default:
		return "billing engine unreachable"
	}
}

// truncate corta en el límite de una runa para no dejar UTF-8 inválido en Detail.
func truncate(s string) string {
	if len(s) <= maxDetailBytes {
		return s
	}
	cut := maxDetailBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
