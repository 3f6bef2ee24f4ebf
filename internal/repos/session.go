package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schrodchat/schrodchat-backend/internal/logger"
	"github.com/schrodchat/schrodchat-backend/internal/types"
)

// SessionRepo stores completed tutoring sessions. Records are append-only:
// there is deliberately no update method.
type SessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, session *types.Session) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Session, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Session, error)
	GetByIDForUser(ctx context.Context, tx *gorm.DB, sessionID, userID uuid.UUID) (*types.Session, error)
	GetByID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*types.Session, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	repoLog := baseLog.With("repo", "SessionRepo")
	return &sessionRepo{db: db, log: repoLog}
}

func (sr *sessionRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return sr.db
}

func (sr *sessionRepo) Create(ctx context.Context, tx *gorm.DB, session *types.Session) error {
	return sr.conn(tx).WithContext(ctx).Create(session).Error
}

func (sr *sessionRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Session, error) {
	var results []*types.Session
	if err := sr.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *sessionRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Session, error) {
	var results []*types.Session
	if err := sr.conn(tx).WithContext(ctx).
		Preload("User").
		Order("timestamp DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *sessionRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, sessionID, userID uuid.UUID) (*types.Session, error) {
	var session types.Session
	if err := sr.conn(tx).WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, userID).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (sr *sessionRepo) GetByID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*types.Session, error) {
	var session types.Session
	if err := sr.conn(tx).WithContext(ctx).
		Preload("User").
		Where("id = ?", sessionID).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}
