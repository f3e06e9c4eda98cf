package domain

import (
	"strings"

	"github.com/google/uuid"
)

// TransactionIDPrefix precede a los 32 caracteres hexadecimales de un id generado.
const TransactionIDPrefix = "tx_"

// NewTransactionID genera "tx_" seguido de un UUID v4 sin guiones.
func NewTransactionID() string {
	return TransactionIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ValidateResourceID limpia el id que se interpola en la ruta del motor. "." y ".." se rechazan:
// como segmento de ruta llevarían la llamada a otro endpoint.
func ValidateResourceID(id string) (string, error) {
	id = strings.TrimSpace(id)
	switch id {
	case "":
		return "", &ValidationError{Violations: []FieldViolation{{Field: "id", Message: "is required"}}}
	case ".", "..":
		return "", &ValidationError{Violations: []FieldViolation{{Field: "id", Message: "is not a valid identifier"}}}
	}
	return id, nil
}
