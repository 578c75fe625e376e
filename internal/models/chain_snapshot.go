package models

import (
	"time"

	"gorm.io/datatypes"
)

// ChainSnapshot is the single aggregate document. Type is the discriminator
// the document is replaced by; Chains holds the full chain array as stored.
// The column is json, not jsonb, so key order and spacing survive a load.
type ChainSnapshot struct {
	ID        uint64         `gorm:"primaryKey;autoIncrement" json:"-"`
	Type      string         `gorm:"type:varchar(64);not null;uniqueIndex" json:"type"`
	Chains    datatypes.JSON `gorm:"type:json;not null" json:"chains"`
	CreatedAt time.Time      `gorm:"type:timestamptz" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"type:timestamptz;index" json:"updatedAt"`
}

func (ChainSnapshot) TableName() string {
	return "chains_data"
}
