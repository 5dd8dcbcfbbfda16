package handler

import (
	appidentity "github.com/firmdesk/backend/internal/application/identity"
	"github.com/firmdesk/backend/internal/interfaces/http/dto"
	"github.com/firmdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// SessionHandler handles the session and firm membership endpoints
type SessionHandler struct {
	BaseHandler
	sessionService *appidentity.SessionService
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sessionService *appidentity.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

// RegisterRoutes registers session routes on the given router group
func (h *SessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.Me)
	rg.GET("/users", h.Members)
}

// Me returns the member record behind the session token, provisioning it on
// first sight.
func (h *SessionHandler) Me(c *gin.Context) {
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

	var email string
	if claims := middleware.GetJWTClaims(c); claims != nil {
		email = claims.Email
	}

	user, err := h.sessionService.CurrentUser(c.Request.Context(), firmID, userID, email)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewUserResponse(user))
}

// Members lists the firm's users
func (h *SessionHandler) Members(c *gin.Context) {
	firmID, err := getFirmID(c)
	if err != nil {
		h.Unauthorized(c, "Firm not identified")
		return
	}

	users, err := h.sessionService.Members(c.Request.Context(), firmID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewUserListResponse(users))
}
