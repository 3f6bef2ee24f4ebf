package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/schrodchat/schrodchat-backend/internal/apierr"
	"github.com/schrodchat/schrodchat-backend/internal/environment"
	"github.com/schrodchat/schrodchat-backend/internal/game"
	"github.com/schrodchat/schrodchat-backend/internal/repos"
	"github.com/schrodchat/schrodchat-backend/internal/types"
)

type fakeTutor struct {
	reply       string
	finalAnswer bool
	err         error
}

func (f *fakeTutor) Reply(ctx context.Context, state *game.State) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	return f.reply, f.finalAnswer, nil
}

type fakeAssessor struct {
	assessment *Assessment
	err        error
}

func (f *fakeAssessor) ScoreTranscript(ctx context.Context, transcript []game.Message) ([]LikertScore, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.assessment.Scores, nil
}

func (f *fakeAssessor) Assess(ctx context.Context, transcript []game.Message) (*Assessment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.assessment, nil
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.User{}, &types.UserToken{}, &types.Session{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testCatalog(t *testing.T) *environment.Catalog {
	t.Helper()
	c, err := environment.LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	return c
}

func newTestGameService(t *testing.T, tutor TutorService, assessor AssessmentService) (GameService, GameStateStore, *gorm.DB) {
	t.Helper()
	log := testLogger(t)
	db := testDB(t)
	store := NewMemoryGameStateStore(log)
	sessionRepo := repos.NewSessionRepo(db, log)
	svc := NewGameService(db, log, testCatalog(t), store, tutor, assessor, sessionRepo)
	return svc, store, db
}

func seedInclineState(t *testing.T, store GameStateStore, userID uuid.UUID) *game.State {
	t.Helper()
	env := &environment.Environment{
		Type:      environment.TypeBlockOnIncline,
		Title:     "Block on an Incline",
		Statement: "A block rests on an incline.",
		Probes:    map[string]bool{"measure_angle": true},
		Params: map[string]float64{
			"mass":                  5,
			"incline_angle":         21.8,
			"coeff_static_friction": 0.4,
			"gravity":               9.81,
		},
	}
	state := game.NewState(userID, env)
	if err := store.Put(context.Background(), state); err != nil {
		t.Fatalf("seed state: %v", err)
	}
	return state
}

func TestStartGameInvalidProblemType(t *testing.T) {
	svc, _, _ := newTestGameService(t, &fakeTutor{}, &fakeAssessor{})
	_, err := svc.StartGame(context.Background(), uuid.New(), "time_travel")
	if !apierr.Is(err, apierr.CodeInvalidProblemType) {
		t.Fatalf("err=%v, want code %q", err, apierr.CodeInvalidProblemType)
	}
}

func TestStartGameStoresActiveState(t *testing.T) {
	svc, store, _ := newTestGameService(t, &fakeTutor{}, &fakeAssessor{})
	userID := uuid.New()
	state, err := svc.StartGame(context.Background(), userID, environment.TypePendulum)
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	stored, err := store.Get(context.Background(), state.SessionID)
	if err != nil {
		t.Fatalf("stored state missing: %v", err)
	}
	if !stored.Active() || stored.UserID != userID {
		t.Fatalf("stored state wrong: %+v", stored)
	}
}

func TestSubmitTurnAppendsHumanAndAssistant(t *testing.T) {
	tutor := &fakeTutor{reply: "What forces act on the block?"}
	svc, store, _ := newTestGameService(t, tutor, &fakeAssessor{})
	userID := uuid.New()
	state := seedInclineState(t, store, userID)

	result, err := svc.SubmitTurn(context.Background(), userID, state.SessionID, "I'm not sure where to start")
	if err != nil {
		t.Fatalf("SubmitTurn: %v", err)
	}
	if result.Completed {
		t.Fatalf("turn should not complete the game")
	}
	if len(result.Messages) != 1 || result.Messages[0].Type != game.MessageInfo {
		t.Fatalf("unexpected messages: %+v", result.Messages)
	}

	stored, _ := store.Get(context.Background(), state.SessionID)
	if len(stored.Transcript) != 2 {
		t.Fatalf("transcript length %d, want 2", len(stored.Transcript))
	}
	if stored.Transcript[0].Speaker != game.SpeakerHuman || stored.Transcript[1].Speaker != game.SpeakerAssistant {
		t.Fatalf("transcript order wrong: %+v", stored.Transcript)
	}
}

func TestSubmitTurnGatewayErrorLeavesTranscriptUnchanged(t *testing.T) {
	tutor := &fakeTutor{err: apierr.Gateway(fmt.Errorf("upstream timeout"))}
	svc, store, _ := newTestGameService(t, tutor, &fakeAssessor{})
	userID := uuid.New()
	state := seedInclineState(t, store, userID)

	_, err := svc.SubmitTurn(context.Background(), userID, state.SessionID, "hello?")
	if !apierr.Is(err, apierr.CodeGatewayError) {
		t.Fatalf("err=%v, want code %q", err, apierr.CodeGatewayError)
	}

	stored, _ := store.Get(context.Background(), state.SessionID)
	if len(stored.Transcript) != 0 {
		t.Fatalf("failed turn must not persist messages, got %d", len(stored.Transcript))
	}
	if !stored.Active() {
		t.Fatalf("state should stay active after a failed turn")
	}
}

func TestSubmitTurnCorrectFinalAnswerCompletes(t *testing.T) {
	tutor := &fakeTutor{reply: "Checking your answer.", finalAnswer: true}
	svc, store, _ := newTestGameService(t, tutor, &fakeAssessor{})
	userID := uuid.New()
	state := seedInclineState(t, store, userID)

	result, err := svc.SubmitTurn(context.Background(), userID, state.SessionID, "the coefficient is 0.4")
	if err != nil {
		t.Fatalf("SubmitTurn: %v", err)
	}
	if !result.Completed {
		t.Fatalf("correct final answer should complete the game")
	}
	if len(result.Messages) != 1 || result.Messages[0].Type != game.MessageSuccess {
		t.Fatalf("expected one success message, got %+v", result.Messages)
	}

	stored, _ := store.Get(context.Background(), state.SessionID)
	if stored.Status != game.StatusCompleted {
		t.Fatalf("stored state should be completed, got %q", stored.Status)
	}

	// Further turns are rejected.
	_, err = svc.SubmitTurn(context.Background(), userID, state.SessionID, "one more question")
	if !apierr.Is(err, apierr.CodeNotActive) {
		t.Fatalf("err=%v, want code %q", err, apierr.CodeNotActive)
	}
}

func TestSubmitTurnWrongFinalAnswerWarns(t *testing.T) {
	tutor := &fakeTutor{reply: "Think about the force balance again.", finalAnswer: true}
	svc, store, _ := newTestGameService(t, tutor, &fakeAssessor{})
	userID := uuid.New()
	state := seedInclineState(t, store, userID)

	result, err := svc.SubmitTurn(context.Background(), userID, state.SessionID, "I'll guess 0.7")
	if err != nil {
		t.Fatalf("SubmitTurn: %v", err)
	}
	if result.Completed {
		t.Fatalf("wrong answer must not complete the game")
	}
	if len(result.Messages) != 2 {
		t.Fatalf("expected warning plus tutor reply, got %+v", result.Messages)
	}
	if result.Messages[0].Type != game.MessageWarning || result.Messages[1].Type != game.MessageInfo {
		t.Fatalf("message types wrong: %+v", result.Messages)
	}
}

func TestSubmitTurnUnknownSession(t *testing.T) {
	svc, _, _ := newTestGameService(t, &fakeTutor{reply: "hi"}, &fakeAssessor{})
	_, err := svc.SubmitTurn(context.Background(), uuid.New(), uuid.New(), "hello")
	if !apierr.Is(err, apierr.CodeNotActive) {
		t.Fatalf("err=%v, want code %q", err, apierr.CodeNotActive)
	}
}

func TestSubmitTurnOtherUsersSessionIsNotFound(t *testing.T) {
	svc, store, _ := newTestGameService(t, &fakeTutor{reply: "hi"}, &fakeAssessor{})
	owner := uuid.New()
	state := seedInclineState(t, store, owner)

	_, err := svc.SubmitTurn(context.Background(), uuid.New(), state.SessionID, "hello")
	if !apierr.Is(err, apierr.CodeNotFound) {
		t.Fatalf("err=%v, want code %q", err, apierr.CodeNotFound)
	}
}

func TestGenerateSummaryPersistsAndIsIdempotent(t *testing.T) {
	assessment := &Assessment{
		Summary:  "### Summary of your approach\nYou did well.",
		Insights: "### Key observations from this session\n- Solid session.",
		Scores: []LikertScore{
			{Name: "Conceptual Foundation", Scale: -1, LowLabel: "Principled", HighLabel: "Formulaic", Rationale: "reasoned from concepts"},
		},
	}
	tutor := &fakeTutor{reply: "Checking your answer.", finalAnswer: true}
	svc, store, db := newTestGameService(t, tutor, &fakeAssessor{assessment: assessment})
	log := testLogger(t)
	userID := uuid.New()

	user := types.User{ID: userID, Email: "student@example.com", Password: "x", FirstName: "Stu"}
	if err := repos.NewUserRepo(db, log).Create(context.Background(), nil, &user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	state := seedInclineState(t, store, userID)
	if _, err := svc.SubmitTurn(context.Background(), userID, state.SessionID, "the coefficient is 0.4"); err != nil {
		t.Fatalf("SubmitTurn: %v", err)
	}

	result, err := svc.GenerateSummary(context.Background(), userID, state.SessionID)
	if err != nil {
		t.Fatalf("GenerateSummary: %v", err)
	}
	if result.Summary != assessment.Summary || len(result.Scores) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	// Completed state is dropped from the live store once persisted.
	if _, err := store.Get(context.Background(), state.SessionID); err != ErrStateNotFound {
		t.Fatalf("completed state should be gone, got err=%v", err)
	}

	// A repeat call serves the stored record instead of re-assessing.
	again, err := svc.GenerateSummary(context.Background(), userID, state.SessionID)
	if err != nil {
		t.Fatalf("repeat GenerateSummary: %v", err)
	}
	if again.Summary != result.Summary || again.SessionID != result.SessionID {
		t.Fatalf("repeat call diverged: %+v vs %+v", again, result)
	}
	if again.Scores[0].Rationale != "reasoned from concepts" {
		t.Fatalf("stored scores not round-tripped: %+v", again.Scores)
	}
}

func TestGenerateSummaryWithNoTurns(t *testing.T) {
	svc, store, _ := newTestGameService(t, &fakeTutor{}, &fakeAssessor{})
	userID := uuid.New()
	state := seedInclineState(t, store, userID)

	_, err := svc.GenerateSummary(context.Background(), userID, state.SessionID)
	if !apierr.Is(err, apierr.CodeNotActive) {
		t.Fatalf("err=%v, want code %q", err, apierr.CodeNotActive)
	}
}
