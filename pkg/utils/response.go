// en pkg/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/billingbridge/internal/shared/application/result"
	sharedDomain "github.com/davicafu/billingbridge/internal/shared/domain"
)

// StatusFor traduce un resultado a código HTTP. Los 404 y 422 del motor se propagan tal cual;
// el resto de fallos del motor son 502.
func StatusFor(r result.Result, successStatus int) int {
	if r.Success {
		return successStatus
	}
	switch r.Stage {
	case result.StageValidation, result.StageFormat:
		return http.StatusBadRequest
	case result.StageGateway:
		if r.GatewayStatus == http.StatusNotFound || r.GatewayStatus == http.StatusUnprocessableEntity {
			return r.GatewayStatus
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// SendResult envía el objeto resultado completo con el código que le corresponde.
func SendResult(c *gin.Context, r result.Result, successStatus int, body interface{}) {
	c.JSON(StatusFor(r, successStatus), body)
}

// SendBadRequest responde a un cuerpo o parámetros imposibles de leer con un resultado de
// validación, igual que cualquier otro rechazo de entrada.
func SendBadRequest(c *gin.Context, field string, err error) {
	res := result.Fail(&sharedDomain.ValidationError{Violations: []sharedDomain.FieldViolation{
		{Field: field, Message: err.Error()},
	}})
	c.JSON(http.StatusBadRequest, res)
}

// SendSuccess envía una respuesta exitosa sin resultado (health, time).
func SendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}
