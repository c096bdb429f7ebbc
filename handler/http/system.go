package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skynet/src/core/knowledge"
)

// CheckHealth godoc
// @Summary Check service health and corpus readiness
// @Tags system
// @Produce json
// @Success 200 {object} knowledge.HealthStatus
// @Failure 503 {object} knowledge.HealthStatus
// @Router /health [get]
func (h *Handler) CheckHealth(c *gin.Context) {
	status := h.systemService.CheckHealth()
	code := http.StatusOK
	if status.Status != knowledge.StatusHealthy {
		code = http.StatusServiceUnavailable
	}
	sendJSON(c, code, status)
}

// Describe godoc
// @Summary Report runtime configuration and artifact availability
// @Tags system
// @Produce json
// @Success 200 {object} knowledge.DebugReport
// @Router /debug [get]
func (h *Handler) Describe(c *gin.Context) {
	sendJSON(c, http.StatusOK, h.systemService.Describe())
}
