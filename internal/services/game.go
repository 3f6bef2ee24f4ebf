package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/schrodchat/schrodchat-backend/internal/apierr"
	"github.com/schrodchat/schrodchat-backend/internal/environment"
	"github.com/schrodchat/schrodchat-backend/internal/game"
	"github.com/schrodchat/schrodchat-backend/internal/logger"
	"github.com/schrodchat/schrodchat-backend/internal/repos"
	"github.com/schrodchat/schrodchat-backend/internal/summary"
	"github.com/schrodchat/schrodchat-backend/internal/types"
)

// TurnResult is what a single turn returns to the client: the assistant
// messages produced this turn and whether the game just completed.
type TurnResult struct {
	Messages  []game.Message `json:"messages"`
	Completed bool           `json:"completed"`
}

// SummaryResult is the post-game assessment for one session.
type SummaryResult struct {
	SessionID uuid.UUID        `json:"session_id"`
	Summary   string           `json:"summary"`
	Insights  string           `json:"insights"`
	Scores    []LikertScore    `json:"scores"`
	Sections  summary.Sections `json:"sections"`
}

type GameService interface {
	StartGame(ctx context.Context, userID uuid.UUID, problemType string) (*game.State, error)
	SubmitTurn(ctx context.Context, userID, sessionID uuid.UUID, content string) (*TurnResult, error)
	GenerateSummary(ctx context.Context, userID, sessionID uuid.UUID) (*SummaryResult, error)
	ProblemTypes() []string
}

type gameService struct {
	db          *gorm.DB
	log         *logger.Logger
	catalog     *environment.Catalog
	states      GameStateStore
	tutor       TutorService
	assessor    AssessmentService
	sessionRepo repos.SessionRepo
}

func NewGameService(
	db *gorm.DB,
	log *logger.Logger,
	catalog *environment.Catalog,
	states GameStateStore,
	tutor TutorService,
	assessor AssessmentService,
	sessionRepo repos.SessionRepo,
) GameService {
	return &gameService{
		db:          db,
		log:         log.With("service", "GameService"),
		catalog:     catalog,
		states:      states,
		tutor:       tutor,
		assessor:    assessor,
		sessionRepo: sessionRepo,
	}
}

func (gs *gameService) ProblemTypes() []string {
	return gs.catalog.Types()
}

func (gs *gameService) StartGame(ctx context.Context, userID uuid.UUID, problemType string) (*game.State, error) {
	env, err := gs.catalog.Generate(problemType)
	if err != nil {
		if errors.Is(err, environment.ErrUnknownType) {
			return nil, apierr.InvalidProblemType(problemType)
		}
		return nil, err
	}
	state := game.NewState(userID, env)
	if err := gs.states.Put(ctx, state); err != nil {
		return nil, fmt.Errorf("store game state: %w", err)
	}
	gs.log.Info("Started game", "session_id", state.SessionID.String(), "user_id", userID.String(), "problem_type", problemType)
	return state, nil
}

// SubmitTurn runs one conversational turn. The human message and the
// assistant messages land in the stored transcript together: when the tutor
// call fails nothing is persisted, so a retry does not duplicate the turn.
func (gs *gameService) SubmitTurn(ctx context.Context, userID, sessionID uuid.UUID, content string) (*TurnResult, error) {
	state, err := gs.loadOwnedState(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !state.Active() {
		return nil, apierr.NotActive(game.ErrNotActive)
	}

	if err := state.Append(game.HumanMessage(content)); err != nil {
		return nil, apierr.NotActive(err)
	}

	reply, finalAnswer, err := gs.tutor.Reply(ctx, state)
	if err != nil {
		return nil, err
	}

	var newMessages []game.Message
	completed := false

	if finalAnswer {
		env, rErr := gs.catalog.Rehydrate(state.ProblemType, state.Params)
		if rErr != nil {
			return nil, rErr
		}
		nums := game.ExtractNumericAnswers(content)
		var lastFeedback string
		for _, n := range nums {
			ok, feedback := env.ValidateAnswer(n)
			lastFeedback = feedback
			if ok {
				completed = true
				newMessages = append(newMessages, game.AssistantMessage("🎉 "+feedback, game.MessageSuccess))
				break
			}
		}
		if !completed && len(nums) > 0 {
			newMessages = append(newMessages, game.AssistantMessage(lastFeedback, game.MessageWarning))
		}
	}

	if !completed {
		newMessages = append(newMessages, game.AssistantMessage(reply, game.MessageInfo))
	}

	for _, m := range newMessages {
		if aErr := state.Append(m); aErr != nil {
			return nil, apierr.NotActive(aErr)
		}
	}
	if completed {
		state.Complete()
	}
	if err := gs.states.Put(ctx, state); err != nil {
		return nil, fmt.Errorf("store game state: %w", err)
	}

	return &TurnResult{Messages: newMessages, Completed: completed}, nil
}

// GenerateSummary scores and summarizes the session's transcript, persists
// the session record and, for completed games, drops the live state. When a
// record already exists the stored result is returned unchanged.
func (gs *gameService) GenerateSummary(ctx context.Context, userID, sessionID uuid.UUID) (*SummaryResult, error) {
	if existing, err := gs.sessionRepo.GetByIDForUser(ctx, nil, sessionID, userID); err == nil {
		return summaryFromRecord(existing)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check existing session: %w", err)
	}

	state, err := gs.loadOwnedState(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if len(state.Transcript) == 0 {
		return nil, apierr.NotActive(fmt.Errorf("no turns to assess"))
	}

	assessment, err := gs.assessor.Assess(ctx, state.Transcript)
	if err != nil {
		return nil, err
	}

	transcriptJSON, mErr := json.Marshal(state.Transcript)
	if mErr != nil {
		return nil, fmt.Errorf("encode transcript: %w", mErr)
	}
	scoresJSON, mErr := json.Marshal(assessment.Scores)
	if mErr != nil {
		return nil, fmt.Errorf("encode scores: %w", mErr)
	}
	record := types.Session{
		ID:          state.SessionID,
		UserID:      state.UserID,
		ProblemType: state.ProblemType,
		Timestamp:   time.Now().UTC(),
		Transcript:  datatypes.JSON(transcriptJSON),
		Summary:     assessment.Summary,
		Insights:    assessment.Insights,
		Scores:      datatypes.JSON(scoresJSON),
	}
	if cErr := gs.sessionRepo.Create(ctx, nil, &record); cErr != nil {
		return nil, apierr.New(http.StatusInternalServerError, "save_session_failed", cErr)
	}

	if state.Status == game.StatusCompleted {
		if dErr := gs.states.Delete(ctx, sessionID); dErr != nil {
			gs.log.Warn("Failed to drop completed game state", "session_id", sessionID.String(), "error", dErr)
		}
	}

	return &SummaryResult{
		SessionID: state.SessionID,
		Summary:   assessment.Summary,
		Insights:  assessment.Insights,
		Scores:    assessment.Scores,
		Sections:  assessment.Sections,
	}, nil
}

func (gs *gameService) loadOwnedState(ctx context.Context, userID, sessionID uuid.UUID) (*game.State, error) {
	state, err := gs.states.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrStateNotFound) {
			return nil, apierr.NotActive(fmt.Errorf("no game for session %s", sessionID))
		}
		return nil, err
	}
	if state.UserID != userID {
		return nil, apierr.NotFound(fmt.Errorf("session %s not found", sessionID))
	}
	return state, nil
}

func summaryFromRecord(record *types.Session) (*SummaryResult, error) {
	var scores []LikertScore
	if len(record.Scores) > 0 {
		if err := json.Unmarshal(record.Scores, &scores); err != nil {
			return nil, fmt.Errorf("decode stored scores: %w", err)
		}
	}
	return &SummaryResult{
		SessionID: record.ID,
		Summary:   record.Summary,
		Insights:  record.Insights,
		Scores:    scores,
		Sections:  summary.Parse(record.Summary),
	}, nil
}
