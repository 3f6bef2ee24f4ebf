// Package game models a single tutoring session as an explicit, serializable
// state value looked up by session id on every request. Nothing here talks
// to the network; the services layer drives the transitions.
package game

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/schrodchat/schrodchat-backend/internal/environment"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

var (
	ErrNotActive = errors.New("game is not active")
)

// State is the full mutable state of one session. The transcript is
// append-only: turns are never removed or reordered.
type State struct {
	SessionID   uuid.UUID          `json:"session_id"`
	UserID      uuid.UUID          `json:"user_id"`
	ProblemType string             `json:"problem_type"`
	Title       string             `json:"title"`
	Problem     string             `json:"problem"`
	Probes      map[string]bool    `json:"probes"`
	Params      map[string]float64 `json:"params"`
	Status      Status             `json:"status"`
	Transcript  []Message          `json:"transcript"`
	StartedAt   time.Time          `json:"started_at"`
}

// NewState starts a session in the active state with an empty transcript.
func NewState(userID uuid.UUID, env *environment.Environment) *State {
	return &State{
		SessionID:   uuid.New(),
		UserID:      userID,
		ProblemType: env.Type,
		Title:       env.Title,
		Problem:     env.Statement,
		Probes:      env.Probes,
		Params:      env.Params,
		Status:      StatusActive,
		Transcript:  []Message{},
		StartedAt:   time.Now().UTC(),
	}
}

func (s *State) Active() bool {
	return s != nil && s.Status == StatusActive
}

// Append adds a turn. Fails once the game has completed so a stale client
// cannot grow a finished transcript.
func (s *State) Append(msg Message) error {
	if !s.Active() {
		return ErrNotActive
	}
	s.Transcript = append(s.Transcript, msg)
	return nil
}

// Complete marks the game solved. Idempotent.
func (s *State) Complete() {
	s.Status = StatusCompleted
}
