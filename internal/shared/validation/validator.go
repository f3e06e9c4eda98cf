// Package validation envuelve go-playground/validator para que todos los traductores
// reporten las violaciones con nombres de campo JSON y todas a la vez.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	sharedDomain "github.com/davicafu/billingbridge/internal/shared/domain"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	})
	return validate
}

// Struct valida s y devuelve *sharedDomain.ValidationError con cada campo rechazado,
// o nil si s es válido.
func Struct(s interface{}) error {
	err := engine().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &sharedDomain.UnexpectedError{Operation: "validate", Cause: err}
	}

	violations := make([]sharedDomain.FieldViolation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, sharedDomain.FieldViolation{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return &sharedDomain.ValidationError{Violations: violations}
}

// Merge junta violaciones de varias fuentes (validator y reglas manuales) en un solo error.
func Merge(err error, extra ...sharedDomain.FieldViolation) error {
	var violations []sharedDomain.FieldViolation
	if err != nil {
		var ve *sharedDomain.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		violations = append(violations, ve.Violations...)
	}
	violations = append(violations, extra...)
	if len(violations) == 0 {
		return nil
	}
	return &sharedDomain.ValidationError{Violations: violations}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "alpha":
		return "must contain only letters"
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}
