package handler

import (
	apprecords "github.com/firmdesk/backend/internal/application/records"
	"github.com/firmdesk/backend/internal/domain/records"
	"github.com/firmdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DueDateHandler handles due date API endpoints
type DueDateHandler struct {
	BaseHandler
	dueDateService *apprecords.DueDateService
}

// NewDueDateHandler creates a new DueDateHandler
func NewDueDateHandler(dueDateService *apprecords.DueDateService) *DueDateHandler {
	return &DueDateHandler{
		dueDateService: dueDateService,
	}
}

// RegisterRoutes registers due date routes on the given router group
func (h *DueDateHandler) RegisterRoutes(rg *gin.RouterGroup) {
	dueDates := rg.Group("/due-dates")
	{
		dueDates.POST("", h.Create)
		dueDates.GET("", h.List)
		dueDates.GET("/:id", h.Get)
		dueDates.PATCH("/:id/status", h.UpdateStatus)
		dueDates.DELETE("/:id", h.Delete)
	}
}

// Create creates a due date, consuming one quota slot
func (h *DueDateHandler) Create(c *gin.Context) {
	firmID, err := getFirmID(c)
	if err != nil {
		h.Unauthorized(c, "Firm not identified")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User not identified")
		return
	}

	var req dto.CreateDueDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	dueDate, err := h.dueDateService.Create(c.Request.Context(), firmID, apprecords.CreateDueDateInput{
		Matter:    req.Matter,
		Title:     req.Title,
		DueAt:     req.DueAt,
		CreatedBy: userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.NewDueDateResponse(dueDate))
}

// List returns a page of the firm's due dates
func (h *DueDateHandler) List(c *gin.Context) {
	firmID, err := getFirmID(c)
	if err != nil {
		h.Unauthorized(c, "Firm not identified")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}

	dueDates, total, err := h.dueDateService.List(c.Request.Context(), firmID, req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, dto.NewDueDateListResponse(dueDates), total, req.Page, req.PageSize)
}

// Get returns one due date
func (h *DueDateHandler) Get(c *gin.Context) {
	firmID, err := getFirmID(c)
	if err != nil {
		h.Unauthorized(c, "Firm not identified")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid due date ID")
		return
	}

	dueDate, err := h.dueDateService.Get(c.Request.Context(), firmID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewDueDateResponse(dueDate))
}

// UpdateStatus transitions a due date between open and done
func (h *DueDateHandler) UpdateStatus(c *gin.Context) {
	firmID, err := getFirmID(c)
	if err != nil {
		h.Unauthorized(c, "Firm not identified")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid due date ID")
		return
	}

	var req dto.UpdateDueDateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	dueDate, err := h.dueDateService.UpdateStatus(c.Request.Context(), firmID, id,
		records.DueDateStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewDueDateResponse(dueDate))
}

// Delete removes a due date and frees its quota slot
func (h *DueDateHandler) Delete(c *gin.Context) {
	firmID, err := getFirmID(c)
	if err != nil {
		h.Unauthorized(c, "Firm not identified")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid due date ID")
		return
	}

	if err := h.dueDateService.Delete(c.Request.Context(), firmID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
