package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/schrodchat/schrodchat-backend/internal/game"
	"github.com/schrodchat/schrodchat-backend/internal/logger"
	"github.com/schrodchat/schrodchat-backend/internal/utils"
)

var ErrStateNotFound = errors.New("game state not found")

// GameStateStore holds the in-flight game state for each session, keyed by
// session id. States are stored serialized so a session can be picked up by
// any replica when the store is shared (Redis).
type GameStateStore interface {
	Get(ctx context.Context, sessionID uuid.UUID) (*game.State, error)
	Put(ctx context.Context, state *game.State) error
	Delete(ctx context.Context, sessionID uuid.UUID) error
}

// ResolveGameStateStore picks the store implementation from
// GAME_STATE_STORE: "memory" (default) or "redis".
func ResolveGameStateStore(log *logger.Logger) (GameStateStore, error) {
	mode := strings.ToLower(strings.TrimSpace(utils.GetEnv("GAME_STATE_STORE", "memory", log)))
	switch mode {
	case "memory", "":
		return NewMemoryGameStateStore(log), nil
	case "redis":
		return NewRedisGameStateStore(log)
	default:
		return nil, fmt.Errorf("unknown GAME_STATE_STORE mode %q", mode)
	}
}

type memoryGameStateStore struct {
	log    *logger.Logger
	mu     sync.RWMutex
	states map[uuid.UUID][]byte
}

func NewMemoryGameStateStore(log *logger.Logger) GameStateStore {
	return &memoryGameStateStore{
		log:    log.With("service", "MemoryGameStateStore"),
		states: map[uuid.UUID][]byte{},
	}
}

func (m *memoryGameStateStore) Get(ctx context.Context, sessionID uuid.UUID) (*game.State, error) {
	m.mu.RLock()
	raw, ok := m.states[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrStateNotFound
	}
	var state game.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode game state: %w", err)
	}
	return &state, nil
}

func (m *memoryGameStateStore) Put(ctx context.Context, state *game.State) error {
	if state == nil || state.SessionID == uuid.Nil {
		return fmt.Errorf("invalid game state")
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode game state: %w", err)
	}
	m.mu.Lock()
	m.states[state.SessionID] = raw
	m.mu.Unlock()
	return nil
}

func (m *memoryGameStateStore) Delete(ctx context.Context, sessionID uuid.UUID) error {
	m.mu.Lock()
	delete(m.states, sessionID)
	m.mu.Unlock()
	return nil
}
