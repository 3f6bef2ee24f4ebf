package repos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/schrodchat/schrodchat-backend/internal/game"
	"github.com/schrodchat/schrodchat-backend/internal/logger"
	"github.com/schrodchat/schrodchat-backend/internal/types"
)

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

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func seedUser(t *testing.T, db *gorm.DB, email string) *types.User {
	t.Helper()
	u := &types.User{ID: uuid.New(), Email: email, Password: "hash", FirstName: "Test"}
	if err := NewUserRepo(db, testLogger(t)).Create(context.Background(), nil, u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func newSessionRecord(userID uuid.UUID, problemType string, ts time.Time) *types.Session {
	transcript, _ := json.Marshal([]game.Message{
		game.HumanMessage("what's the angle?"),
		game.AssistantMessage("21.8 degrees.", game.MessageInfo),
	})
	scores, _ := json.Marshal([]map[string]any{
		{"name": "Conceptual Foundation", "scale": 1},
	})
	return &types.Session{
		ID:          uuid.New(),
		UserID:      userID,
		ProblemType: problemType,
		Timestamp:   ts,
		Transcript:  datatypes.JSON(transcript),
		Summary:     "### Summary of your approach\nSolid work.",
		Insights:    "tutor notes",
		Scores:      datatypes.JSON(scores),
	}
}

func TestSessionRoundTrip(t *testing.T) {
	db := testDB(t)
	log := testLogger(t)
	repo := NewSessionRepo(db, log)
	ctx := context.Background()

	user := seedUser(t, db, "a@example.com")
	record := newSessionRecord(user.ID, "block_on_incline", time.Now().UTC())
	if err := repo.Create(ctx, nil, record); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByIDForUser(ctx, nil, record.ID, user.ID)
	if err != nil {
		t.Fatalf("GetByIDForUser: %v", err)
	}
	if got.Summary != record.Summary || got.Insights != record.Insights {
		t.Fatalf("summary/insights mismatch: %+v", got)
	}

	var messages []game.Message
	if err := json.Unmarshal(got.Transcript, &messages); err != nil {
		t.Fatalf("decode transcript: %v", err)
	}
	if len(messages) != 2 || messages[0].Speaker != game.SpeakerHuman {
		t.Fatalf("transcript did not round-trip: %+v", messages)
	}
}

func TestSessionOwnershipIsolation(t *testing.T) {
	db := testDB(t)
	repo := NewSessionRepo(db, testLogger(t))
	ctx := context.Background()

	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	record := newSessionRecord(alice.ID, "pendulum", time.Now().UTC())
	if err := repo.Create(ctx, nil, record); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := repo.GetByIDForUser(ctx, nil, record.ID, bob.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("other user's lookup = %v, want ErrRecordNotFound", err)
	}

	bobSessions, err := repo.ListByUser(ctx, nil, bob.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(bobSessions) != 0 {
		t.Fatalf("bob should see no sessions, got %d", len(bobSessions))
	}
}

func TestSessionListByUserOrderedNewestFirst(t *testing.T) {
	db := testDB(t)
	repo := NewSessionRepo(db, testLogger(t))
	ctx := context.Background()

	user := seedUser(t, db, "c@example.com")
	older := newSessionRecord(user.ID, "pendulum", time.Now().UTC().Add(-2*time.Hour))
	newer := newSessionRecord(user.ID, "rocket_equation", time.Now().UTC())
	for _, r := range []*types.Session{older, newer} {
		if err := repo.Create(ctx, nil, r); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	list, err := repo.ListByUser(ctx, nil, user.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d sessions, want 2", len(list))
	}
	if list[0].ID != newer.ID {
		t.Fatalf("newest session should come first")
	}
}

func TestSessionListAllPreloadsUser(t *testing.T) {
	db := testDB(t)
	repo := NewSessionRepo(db, testLogger(t))
	ctx := context.Background()

	user := seedUser(t, db, "d@example.com")
	record := newSessionRecord(user.ID, "projectile_motion", time.Now().UTC())
	if err := repo.Create(ctx, nil, record); err != nil {
		t.Fatalf("Create: %v", err)
	}

	all, err := repo.ListAll(ctx, nil)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("got %d sessions, want 1", len(all))
	}
	if all[0].User == nil || all[0].User.Email != "d@example.com" {
		t.Fatalf("user not preloaded: %+v", all[0].User)
	}
}
