package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/schrodchat/schrodchat-backend/internal/game"
	"github.com/schrodchat/schrodchat-backend/internal/logger"
	"github.com/schrodchat/schrodchat-backend/internal/utils"
)

type redisGameStateStore struct {
	log *logger.Logger
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisGameStateStore connects to Redis using REDIS_ADDR, REDIS_PASSWORD
// and REDIS_DB, and expires abandoned games after GAME_STATE_TTL_HOURS.
func NewRedisGameStateStore(log *logger.Logger) (GameStateStore, error) {
	l := log.With("service", "RedisGameStateStore")
	addr := utils.GetEnv("REDIS_ADDR", "localhost:6379", l)
	password := utils.GetEnv("REDIS_PASSWORD", "", l)
	db := utils.GetEnvAsInt("REDIS_DB", 0, l)
	ttlHours := utils.GetEnvAsInt("GAME_STATE_TTL_HOURS", 24, l)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	l.Info("Connected to Redis game state store", "addr", addr, "db", db)

	return &redisGameStateStore{
		log: l,
		rdb: rdb,
		ttl: time.Duration(ttlHours) * time.Hour,
	}, nil
}

func gameStateKey(sessionID uuid.UUID) string {
	return "game_state:" + sessionID.String()
}

func (r *redisGameStateStore) Get(ctx context.Context, sessionID uuid.UUID) (*game.State, error) {
	raw, err := r.rdb.Get(ctx, gameStateKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get game state: %w", err)
	}
	var state game.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode game state: %w", err)
	}
	return &state, nil
}

func (r *redisGameStateStore) Put(ctx context.Context, state *game.State) error {
	if state == nil || state.SessionID == uuid.Nil {
		return fmt.Errorf("invalid game state")
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode game state: %w", err)
	}
	if err := r.rdb.Set(ctx, gameStateKey(state.SessionID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set game state: %w", err)
	}
	return nil
}

func (r *redisGameStateStore) Delete(ctx context.Context, sessionID uuid.UUID) error {
	if err := r.rdb.Del(ctx, gameStateKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete game state: %w", err)
	}
	return nil
}
