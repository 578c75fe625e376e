package models

import (
	"time"

	"gorm.io/datatypes"
)

// SyncState records the outcome of the last refresh for a scope.
type SyncState struct {
	Scope         string         `gorm:"primaryKey;type:text" json:"scope"`
	LastSuccessAt *time.Time     `gorm:"type:timestamptz" json:"last_success_at,omitempty"`
	LastAttemptAt *time.Time     `gorm:"type:timestamptz" json:"last_attempt_at,omitempty"`
	LastError     *string        `gorm:"type:text" json:"last_error,omitempty"`
	Runs          int64          `gorm:"not null;default:0" json:"runs"`
	Failures      int64          `gorm:"not null;default:0" json:"failures"`
	StatsJSON     datatypes.JSON `gorm:"type:jsonb" json:"stats,omitempty"`
}

func (SyncState) TableName() string {
	return "sync_state"
}
