package handler

import (
	"net/http"
	"time"

	"github.com/firmdesk/backend/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
)

// SystemHandler handles health and system endpoints
type SystemHandler struct {
	BaseHandler
	registry  *persistence.ConnectionRegistry
	startedAt time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(registry *persistence.ConnectionRegistry) *SystemHandler {
	return &SystemHandler{
		registry:  registry,
		startedAt: time.Now(),
	}
}

// RegisterRoutes registers system routes on the given router group
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// HealthData is the health endpoint payload
type HealthData struct {
	Status              string `json:"status"`
	UptimeSeconds       int64  `json:"uptime_seconds"`
	DatabaseEstablished bool   `json:"database_established"`
}

// Health reports process liveness. It deliberately does not dial the
// database: the connection stays lazy until the first real operation, and a
// cold registry is not an unhealthy process.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthData{
		Status:              "ok",
		UptimeSeconds:       int64(time.Since(h.startedAt).Seconds()),
		DatabaseEstablished: h.registry.Established(),
	})
}
