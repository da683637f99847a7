package httpapi

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter собирает маршруты сервиса данных
func NewRouter(h *Handler, apiKey string, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	router.Use(RecoveryMiddleware(logger))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))

	router.GET("/healthz", h.Health)

	api := router.Group("")
	api.Use(APIKeyMiddleware(apiKey))
	{
		api.GET("/barbers", h.ListBarbers)
		api.POST("/barbers", h.CreateBarber)
		api.DELETE("/barbers/:id", h.DeleteBarber)

		api.GET("/appointments", h.ListAppointments)
		api.POST("/appointments", h.CreateAppointment)
		api.PUT("/appointments/:id", h.UpdateAppointment)
		api.DELETE("/appointments/:id", h.DeleteAppointment)
		api.PATCH("/appointments/:id/reminder", h.MarkReminderSent)

		api.GET("/slots", h.ListSlots)
		api.GET("/config/:key", h.GetConfig)

		api.GET("/business-hours", h.ListBusinessHours)
		api.PUT("/business-hours", h.PutBusinessHours)
	}

	return router
}
