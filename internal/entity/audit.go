package entity

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records destructive or market-moving admin actions.
type AuditLog struct {
	ID        uint           `gorm:"primaryKey"`
	Actor     string         `gorm:"not null"`
	Action    string         `gorm:"not null"`
	Detail    datatypes.JSON
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
