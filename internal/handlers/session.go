package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/schrodchat/schrodchat-backend/internal/services"
	"github.com/schrodchat/schrodchat-backend/internal/summary"
	"github.com/schrodchat/schrodchat-backend/internal/types"
)

type SessionHandler struct {
	sessionService services.SessionService
}

func NewSessionHandler(sessionService services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

type sessionListItem struct {
	ID          uuid.UUID       `json:"id"`
	ProblemType string          `json:"problem_type"`
	Timestamp   time.Time       `json:"timestamp"`
	Summary     string          `json:"summary"`
	Scores      json.RawMessage `json:"scores"`
}

type sessionDetail struct {
	sessionListItem
	Username   string           `json:"username,omitempty"`
	Insights   string           `json:"insights,omitempty"`
	Sections   summary.Sections `json:"sections"`
	Transcript json.RawMessage  `json:"transcript"`
}

func toListItem(s *types.Session) sessionListItem {
	return sessionListItem{
		ID:          s.ID,
		ProblemType: s.ProblemType,
		Timestamp:   s.Timestamp,
		Summary:     s.Summary,
		Scores:      json.RawMessage(s.Scores),
	}
}

func toDetail(s *types.Session, withInsights bool) sessionDetail {
	d := sessionDetail{
		sessionListItem: toListItem(s),
		Sections:        summary.Parse(s.Summary),
		Transcript:      json.RawMessage(s.Transcript),
	}
	if s.User != nil {
		d.Username = s.User.Email
	}
	if withInsights {
		d.Insights = s.Insights
	}
	return d
}

func (sh *SessionHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("not authenticated"))
		return
	}
	records, err := sh.sessionService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	items := make([]sessionListItem, 0, len(records))
	for _, r := range records {
		items = append(items, toListItem(r))
	}
	RespondOK(c, gin.H{"sessions": items})
}

func (sh *SessionHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("not authenticated"))
		return
	}
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid session id"))
		return
	}
	record, err := sh.sessionService.GetForUser(c.Request.Context(), userID, sessionID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"session": toDetail(record, false)})
}
