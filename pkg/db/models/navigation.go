package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmdirect/farmdirect-backend/pkg/types"
)

// Navigation holds the link list for one global slot (header or footer).
type Navigation struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Slot      string         `gorm:"column:slot;not null;uniqueIndex"`
	Links     types.NavLinks `gorm:"column:links;type:jsonb"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
