package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ---------- Errores de dominio ----------

var (
	ErrValidation         = errors.New("validation failed")
	ErrFormat             = errors.New("unrecognized date/time format")
	ErrGatewayRejected    = errors.New("billing engine rejected the request")
	ErrGatewayUnavailable = errors.New("billing engine unavailable")
	ErrGatewayResponse    = errors.New("billing engine response could not be read")
	ErrPublish            = errors.New("domain event could not be published")
	ErrUnexpected         = errors.New("unexpected error")
)

// FieldViolation describe un campo de entrada rechazado.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError agrupa todas las violaciones de una petición, no sólo la primera.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Fields devuelve los nombres de campo en el orden en que se detectaron.
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		fields = append(fields, v.Field)
	}
	return fields
}

// FormatError indica que ninguna regla de parseo reconoció la cadena original.
type FormatError struct {
	Input string
	Kind  string // "instant" o "date"
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cannot parse %s %q", e.Kind, e.Input)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// GatewayFailureKind separa rechazos del motor de fallos de red y de respuestas ilegibles.
type GatewayFailureKind string

const (
	GatewayRejected    GatewayFailureKind = "rejected"
	GatewayUnavailable GatewayFailureKind = "unavailable"
	GatewayDecode      GatewayFailureKind = "decode"
)

// GatewayError es el resultado fallido de una llamada al motor de facturación.
type GatewayError struct {
	Kind       GatewayFailureKind
	Operation  string
	StatusCode int    // sólo para GatewayRejected
	Reason     string // clasificación legible
	Detail     string // cuerpo de error devuelto por el motor, si lo hay
	Err        error
}

func (e *GatewayError) Error() string {
	msg := e.Operation + ": " + e.Reason
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Err != nil && e.Kind != GatewayRejected {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GatewayError) Unwrap() []error {
	var sentinel error
	switch e.Kind {
	case GatewayRejected:
		sentinel = ErrGatewayRejected
	case GatewayDecode:
		sentinel = ErrGatewayResponse
	default:
		sentinel = ErrGatewayUnavailable
	}
	if e.Err == nil {
		return []error{sentinel}
	}
	return []error{sentinel, e.Err}
}

// NotFound indica que el motor respondió 404 para la entidad referenciada.
func (e *GatewayError) NotFound() bool {
	return e.Kind == GatewayRejected && e.StatusCode == 404
}

// PublishError: la operación externa ya se completó pero el evento no llegó al broker.
type PublishError struct {
	Topic string
	Err   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish to %q failed: %v", e.Topic, e.Err)
}

func (e *PublishError) Unwrap() []error { return []error{ErrPublish, e.Err} }

// UnexpectedError envuelve cualquier fallo no clasificado (incluidos panics recuperados).
type UnexpectedError struct {
	Operation string
	Cause     interface{}
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("%s: unexpected failure: %v", e.Operation, e.Cause)
}

func (e *UnexpectedError) Unwrap() error { return ErrUnexpected }
