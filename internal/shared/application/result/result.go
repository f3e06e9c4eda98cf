// Package result arma la respuesta estructurada que recibe el llamador en todos los casos.
package result

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/billingbridge/internal/shared/domain"
)

// Stage identifica la etapa del pipeline que produjo el fallo.
type Stage string

const (
	StageValidation Stage = "validation"
	StageFormat     Stage = "format"
	StageGateway    Stage = "gateway"
	StagePublish    Stage = "publish"
	StageUnexpected Stage = "unexpected"
)

// Result es la parte común de todos los resultados de operación.
type Result struct {
	Success       bool                            `json:"success"`
	Message       string                          `json:"message"`
	Stage         Stage                           `json:"stage,omitempty"`
	GatewayStatus int                             `json:"gateway_status,omitempty"`
	FailureKind   sharedDomain.GatewayFailureKind `json:"failure_kind,omitempty"`
	Errors        []sharedDomain.FieldViolation   `json:"errors,omitempty"`
}

// OK construye un resultado exitoso.
func OK(message string) Result {
	return Result{Success: true, Message: message}
}

// Fail traduce cualquier error a un resultado fallido, indicando qué etapa falló.
func Fail(err error) Result {
	var (
		validationErr *sharedDomain.ValidationError
		formatErr     *sharedDomain.FormatError
		gatewayErr    *sharedDomain.GatewayError
		publishErr    *sharedDomain.PublishError
	)

	switch {
	case err == nil:
		return Result{Success: false, Stage: StageUnexpected, Message: "operation failed without an error"}

	case errors.As(err, &validationErr):
		return Result{
			Stage:   StageValidation,
			Message: validationErr.Error(),
			Errors:  validationErr.Violations,
		}

	case errors.As(err, &formatErr):
		return Result{
			Stage:   StageFormat,
			Message: fmt.Sprintf("invalid %s format: %q is not a recognized date/time", formatErr.Kind, formatErr.Input),
		}

	case errors.As(err, &gatewayErr):
		return Result{
			Stage:         StageGateway,
			Message:       "billing engine call failed: " + gatewayErr.Error(),
			GatewayStatus: gatewayErr.StatusCode,
			FailureKind:   gatewayErr.Kind,
		}

	case errors.As(err, &publishErr):
		return Result{
			Stage:   StagePublish,
			Message: "operation completed in the billing engine but the domain event was not published: " + publishErr.Error(),
		}

	default:
		return Result{Stage: StageUnexpected, Message: "unexpected error: " + err.Error()}
	}
}

// Recover debe llamarse con defer en el borde de cada operación: convierte un panic en un
// resultado fallido en vez de dejar al llamador sin respuesta.
func Recover(log *zap.Logger, operation string, out *Result) {
	r := recover()
	if r == nil {
		return
	}
	err := &sharedDomain.UnexpectedError{Operation: operation, Cause: r}
	log.Error("🔥 Panic recuperado en operación", zap.String("operation", operation), zap.Any("panic", r))
	*out = Fail(err)
}
