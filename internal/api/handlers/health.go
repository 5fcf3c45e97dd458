// Package handlers provides HTTP handlers for the API.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unifiedui/price-chat/internal/api/dto"
)

// Pinger is a dependency whose connection can be checked.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	components map[string]Pinger
}

// NewHealthHandler creates a new HealthHandler. Nil components are reported
// as disabled.
func NewHealthHandler(cache Pinger, docDB Pinger) *HealthHandler {
	return &HealthHandler{
		components: map[string]Pinger{
			"cache": cache,
			"docdb": docDB,
		},
	}
}

// Health handles the /health endpoint.
// @Summary Health check
// @Description Returns the overall health status and component statuses
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service healthy"
// @Failure 503 {object} dto.HealthResponse "Service unhealthy"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	components := make(map[string]string, len(h.components))
	healthy := true

	for name, p := range h.components {
		switch {
		case p == nil:
			components[name] = "disabled"
		case p.Ping(c.Request.Context()) != nil:
			components[name] = "unhealthy"
			healthy = false
		default:
			components[name] = "healthy"
		}
	}

	status := "healthy"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, dto.HealthResponse{
		Status:     status,
		Components: components,
	})
}

// Ready handles the /ready endpoint.
// @Summary Readiness check
// @Description Returns 200 if the service is ready to accept traffic
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Service ready"
// @Failure 503 {object} map[string]string "Service not ready"
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	for _, name := range []string{"cache", "docdb"} {
		p := h.components[name]
		if p == nil {
			continue
		}
		if err := p.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": name + " unavailable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// Live handles the /live endpoint.
// @Summary Liveness check
// @Description Returns 200 if the service is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Service alive"
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
