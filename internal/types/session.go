package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Session is the persisted, immutable record of one tutoring session:
// the full transcript plus the post-hoc assessment. Rows are written once
// at summary time and never updated.
type Session struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;index;not null" json:"user_id"`
	User        *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ProblemType string         `gorm:"not null;column:problem_type;index" json:"problem_type"`
	Timestamp   time.Time      `gorm:"not null;column:timestamp;index" json:"timestamp"`
	Transcript  datatypes.JSON `gorm:"column:transcript" json:"transcript"`
	Summary     string         `gorm:"column:summary" json:"summary"`
	Insights    string         `gorm:"column:insights" json:"insights"`
	Scores      datatypes.JSON `gorm:"column:scores" json:"scores"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (Session) TableName() string {
	return "session"
}
