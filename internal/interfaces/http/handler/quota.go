package handler

import (
	"fmt"
	"net/http"

	appbilling "github.com/firmdesk/backend/internal/application/billing"
	"github.com/firmdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// QuotaHandler handles quota status API endpoints
type QuotaHandler struct {
	BaseHandler
	statusService *appbilling.StatusService
}

// NewQuotaHandler creates a new QuotaHandler
func NewQuotaHandler(statusService *appbilling.StatusService) *QuotaHandler {
	return &QuotaHandler{
		statusService: statusService,
	}
}

// RegisterRoutes registers quota routes on the given router group
func (h *QuotaHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/quota/status", h.Status)
}

// Status returns the firm's quota status for display. The snapshot may lag
// behind recent creations by up to the freshness window; ?refresh=1 forces a
// fresh read.
func (h *QuotaHandler) Status(c *gin.Context) {
	firmID, err := getFirmID(c)
	if err != nil {
		h.Unauthorized(c, "Firm not identified")
		return
	}

	forceRefresh := c.Query("refresh") == "1" || c.Query("refresh") == "true"

	result, err := h.statusService.Status(c.Request.Context(), firmID, forceRefresh)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	maxAge := int(h.statusService.FreshnessWindow().Seconds())
	c.Header("Cache-Control", fmt.Sprintf("private, max-age=%d", maxAge))
	c.JSON(http.StatusOK, dto.NewSuccessResponse(
		dto.NewQuotaStatusResponse(result.Status, result.FetchedAt, result.Stale)))
}
