package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schrodchat/schrodchat-backend/internal/apierr"
	"github.com/schrodchat/schrodchat-backend/internal/logger"
	"github.com/schrodchat/schrodchat-backend/internal/repos"
	"github.com/schrodchat/schrodchat-backend/internal/types"
)

// SessionService reads persisted session records. Owner lookups never reveal
// whether a session id exists for another user; both cases are not found.
type SessionService interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Session, error)
	GetForUser(ctx context.Context, userID, sessionID uuid.UUID) (*types.Session, error)
	ListAll(ctx context.Context) ([]*types.Session, error)
	Get(ctx context.Context, sessionID uuid.UUID) (*types.Session, error)
}

type sessionService struct {
	db          *gorm.DB
	log         *logger.Logger
	sessionRepo repos.SessionRepo
}

func NewSessionService(db *gorm.DB, log *logger.Logger, sessionRepo repos.SessionRepo) SessionService {
	return &sessionService{
		db:          db,
		log:         log.With("service", "SessionService"),
		sessionRepo: sessionRepo,
	}
}

func (ss *sessionService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Session, error) {
	records, err := ss.sessionRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return records, nil
}

func (ss *sessionService) GetForUser(ctx context.Context, userID, sessionID uuid.UUID) (*types.Session, error) {
	record, err := ss.sessionRepo.GetByIDForUser(ctx, nil, sessionID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("session %s not found", sessionID))
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return record, nil
}

func (ss *sessionService) ListAll(ctx context.Context) ([]*types.Session, error) {
	records, err := ss.sessionRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list all sessions: %w", err)
	}
	return records, nil
}

func (ss *sessionService) Get(ctx context.Context, sessionID uuid.UUID) (*types.Session, error) {
	record, err := ss.sessionRepo.GetByID(ctx, nil, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("session %s not found", sessionID))
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return record, nil
}
