package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/billingbridge/internal/event/application"
	eventDomain "github.com/davicafu/billingbridge/internal/event/domain"
	"github.com/davicafu/billingbridge/pkg/utils"
)

// UsageEventUseCase es lo que el handler necesita del servicio.
type UsageEventUseCase interface {
	CreateUsageEvent(ctx context.Context, req eventDomain.UsageEventRequest) application.UsageEventResult
}

// UsageEventHandler encapsula los endpoints HTTP de eventos de uso.
type UsageEventHandler struct {
	service UsageEventUseCase
}

func NewUsageEventHandler(service UsageEventUseCase) *UsageEventHandler {
	return &UsageEventHandler{service: service}
}

// CreateUsageEvent endpoint POST /api/v1/events
func (h *UsageEventHandler) CreateUsageEvent(c *gin.Context) {
	var req eventDomain.UsageEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, "body", err)
		return
	}

	res := h.service.CreateUsageEvent(c.Request.Context(), req)
	utils.SendResult(c, res.Result, http.StatusCreated, res)
}
