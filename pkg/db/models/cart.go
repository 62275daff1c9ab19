package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmdirect/farmdirect-backend/pkg/enums"
)

// Cart holds a customer's pending items for a single farm. At most one
// active cart exists per (user, farm) pair, and a cart is deleted rather
// than persisted with zero items.
type Cart struct {
	ID        uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID        `gorm:"column:user_id;type:uuid;not null"`
	FarmID    uuid.UUID        `gorm:"column:farm_id;type:uuid;not null"`
	Status    enums.CartStatus `gorm:"column:status;type:text;not null;default:'active'"`
	Items     []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
