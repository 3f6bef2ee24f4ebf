package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/schrodchat/schrodchat-backend/internal/requestdata"
	"github.com/schrodchat/schrodchat-backend/internal/services"
)

type GameHandler struct {
	gameService services.GameService
}

func NewGameHandler(gameService services.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func (gh *GameHandler) ProblemTypes(c *gin.Context) {
	RespondOK(c, gin.H{"problem_types": gh.gameService.ProblemTypes()})
}

func (gh *GameHandler) Start(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("not authenticated"))
		return
	}
	var req struct {
		ProblemType string `json:"problem_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid request body"))
		return
	}
	if req.ProblemType == "" {
		req.ProblemType = "block_on_incline"
	}
	state, err := gh.gameService.StartGame(c.Request.Context(), userID, req.ProblemType)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"success":      true,
		"session_id":   state.SessionID,
		"problem":      state.Problem,
		"problem_type": state.ProblemType,
		"title":        state.Title,
		"probes":       state.Probes,
	})
}

func (gh *GameHandler) Message(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("not authenticated"))
		return
	}
	var req struct {
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid request body"))
		return
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid session_id"))
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("message cannot be empty"))
		return
	}
	result, err := gh.gameService.SubmitTurn(c.Request.Context(), userID, sessionID, message)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"messages":       result.Messages,
		"game_completed": result.Completed,
	})
}

func (gh *GameHandler) Summary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("not authenticated"))
		return
	}
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid request body"))
		return
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid session_id"))
		return
	}
	result, err := gh.gameService.GenerateSummary(c.Request.Context(), userID, sessionID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"session_id": result.SessionID,
		"summary":    result.Summary,
		"insights":   result.Insights,
		"scores":     result.Scores,
		"sections":   result.Sections,
	})
}
