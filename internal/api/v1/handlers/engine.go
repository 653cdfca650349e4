package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fir-voice/internal/api/v1/dto"
	"fir-voice/internal/api/v1/services"
)

// EngineHandler reports on the recognition engine
type EngineHandler struct {
	service services.EngineService
}

// NewEngineHandler creates a new engine handler
func NewEngineHandler(service services.EngineService) *EngineHandler {
	return &EngineHandler{service: service}
}

// Health handles GET /health
//
// @Summary Service health
// @Description Runs the recognition engine's health check
// @Tags system
// @Produce json
// @Success 200 {object} dto.HealthResponse "Engine is usable"
// @Failure 503 {object} dto.HealthResponse "Engine is not usable"
// @Router /health [get]
func (h *EngineHandler) Health(c *gin.Context) {
	resp := dto.HealthResponse{
		Status:    dto.StatusHealthy,
		Engine:    h.service.Describe().Name,
		Timestamp: time.Now().Unix(),
	}

	if err := h.service.Check(c.Request.Context()); err != nil {
		resp.Status = dto.StatusUnhealthy
		resp.Error = err.Error()
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/v1/engine
//
// @Summary Recognition engine details
// @Description Describes the configured engine and lists every engine compiled in
// @Tags system
// @Produce json
// @Success 200 {object} dto.EngineResponse "Engine details"
// @Router /api/v1/engine [get]
func (h *EngineHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Describe())
}
