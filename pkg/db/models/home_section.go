package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmdirect/farmdirect-backend/pkg/types"
)

// HomeSection is one ordered block on the landing page.
type HomeSection struct {
	ID        uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Position  int         `gorm:"column:position;not null;default:0"`
	Block     types.Block `gorm:"column:block;type:jsonb;serializer:json"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}
