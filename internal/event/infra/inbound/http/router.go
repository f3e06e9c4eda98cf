package http

import "github.com/gin-gonic/gin"

// RegisterUsageEventRoutes registra las rutas HTTP de eventos de uso.
func RegisterUsageEventRoutes(r gin.IRouter, handler *UsageEventHandler) {
	events := r.Group("/events")
	{
		events.POST("", handler.CreateUsageEvent) // Enviar un evento de uso al motor
	}
}
