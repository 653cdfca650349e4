package routes

import (
	"github.com/gin-gonic/gin"

	"fir-voice/internal/api/v1/handlers"
	"fir-voice/internal/api/v1/services"
)

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	TranscriptionService services.TranscriptionService
	EngineService        services.EngineService
	MaxUploadBytes       int64
}

// RegisterRoutes registers the transcription endpoint at the root and the
// versioned API under /api/v1.
func RegisterRoutes(router *gin.Engine, container *ServiceContainer) {
	transcriptionHandler := handlers.NewTranscriptionHandler(container.TranscriptionService, container.MaxUploadBytes)
	engineHandler := handlers.NewEngineHandler(container.EngineService)

	router.POST("/transcribe", transcriptionHandler.Transcribe)
	router.GET("/health", engineHandler.Health)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/transcribe", transcriptionHandler.Transcribe)
		v1.GET("/engine", engineHandler.Get)
	}
}
