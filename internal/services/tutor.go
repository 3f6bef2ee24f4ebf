package services

import (
	"context"
	"fmt"

	"github.com/schrodchat/schrodchat-backend/internal/apierr"
	"github.com/schrodchat/schrodchat-backend/internal/clients/openai"
	"github.com/schrodchat/schrodchat-backend/internal/game"
	"github.com/schrodchat/schrodchat-backend/internal/logger"
)

// TutorService wraps the model call for a single tutoring turn. The state's
// transcript must already end with the student's latest message.
type TutorService interface {
	Reply(ctx context.Context, state *game.State) (string, bool, error)
}

type tutorService struct {
	log *logger.Logger
	ai  openai.Client
}

func NewTutorService(log *logger.Logger, ai openai.Client) TutorService {
	return &tutorService{
		log: log.With("service", "TutorService"),
		ai:  ai,
	}
}

type tutorTurn struct {
	Reply       string `json:"reply"`
	FinalAnswer bool   `json:"final_answer"`
}

func (ts *tutorService) Reply(ctx context.Context, state *game.State) (string, bool, error) {
	system := promptTutorTurn(state)
	history := transcriptMessages(state.Transcript)

	obj, err := ts.ai.GenerateJSON(ctx, system, history, "", "tutor_turn", schemaTutorTurn())
	if err != nil {
		ts.log.Warn("Tutor turn failed", "session_id", state.SessionID.String(), "error", err)
		return "", false, apierr.Gateway(err)
	}
	var turn tutorTurn
	if err := decodeObject(obj, &turn); err != nil {
		return "", false, apierr.Gateway(fmt.Errorf("decode tutor turn: %w", err))
	}
	if turn.Reply == "" {
		return "", false, apierr.Gateway(fmt.Errorf("empty tutor reply"))
	}
	return turn.Reply, turn.FinalAnswer, nil
}
