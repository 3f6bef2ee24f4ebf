package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/schrodchat/schrodchat-backend/internal/services"
)

// AdminHandler exposes every user's sessions, tutor insights included.
// Routes mounted behind the admin middleware only.
type AdminHandler struct {
	sessionService services.SessionService
}

func NewAdminHandler(sessionService services.SessionService) *AdminHandler {
	return &AdminHandler{sessionService: sessionService}
}

func (ah *AdminHandler) ListSessions(c *gin.Context) {
	records, err := ah.sessionService.ListAll(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	items := make([]sessionDetail, 0, len(records))
	for _, r := range records {
		d := toDetail(r, true)
		d.Transcript = nil
		items = append(items, d)
	}
	RespondOK(c, gin.H{"sessions": items})
}

func (ah *AdminHandler) GetSession(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid session id"))
		return
	}
	record, err := ah.sessionService.Get(c.Request.Context(), sessionID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"session": toDetail(record, true)})
}
