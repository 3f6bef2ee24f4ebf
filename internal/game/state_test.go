package game

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/schrodchat/schrodchat-backend/internal/environment"
)

func testEnv() *environment.Environment {
	return &environment.Environment{
		Type:      environment.TypeBlockOnIncline,
		Title:     "Block on an Incline",
		Statement: "A block rests on an incline.",
		Probes:    map[string]bool{"measure_angle": true},
		Params:    map[string]float64{"coeff_static_friction": 0.4},
	}
}

func TestNewStateStartsActive(t *testing.T) {
	userID := uuid.New()
	s := NewState(userID, testEnv())
	if s.SessionID == uuid.Nil {
		t.Fatalf("expected session id")
	}
	if s.UserID != userID {
		t.Fatalf("UserID=%v, want %v", s.UserID, userID)
	}
	if !s.Active() {
		t.Fatalf("new state should be active")
	}
	if len(s.Transcript) != 0 {
		t.Fatalf("new state transcript should be empty")
	}
}

func TestAppendGrowsTranscriptInOrder(t *testing.T) {
	s := NewState(uuid.New(), testEnv())
	msgs := []Message{
		HumanMessage("what is the angle?"),
		AssistantMessage("The incline angle is 20 degrees.", MessageInfo),
		HumanMessage("then mu is 0.4"),
	}
	for _, m := range msgs {
		if err := s.Append(m); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if len(s.Transcript) != len(msgs) {
		t.Fatalf("transcript length %d, want %d", len(s.Transcript), len(msgs))
	}
	for i := range msgs {
		if s.Transcript[i].Content != msgs[i].Content {
			t.Fatalf("transcript[%d]=%q, want %q", i, s.Transcript[i].Content, msgs[i].Content)
		}
	}
}

func TestAppendAfterCompleteFails(t *testing.T) {
	s := NewState(uuid.New(), testEnv())
	s.Complete()
	if s.Active() {
		t.Fatalf("completed state should not be active")
	}
	if err := s.Append(HumanMessage("too late")); !errors.Is(err, ErrNotActive) {
		t.Fatalf("Append after complete = %v, want ErrNotActive", err)
	}
	if len(s.Transcript) != 0 {
		t.Fatalf("failed append must not grow transcript")
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	s := NewState(uuid.New(), testEnv())
	s.Complete()
	s.Complete()
	if s.Status != StatusCompleted {
		t.Fatalf("Status=%q, want %q", s.Status, StatusCompleted)
	}
}
