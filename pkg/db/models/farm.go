package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Farm is a farmer-owned storefront. Exactly one farm per owner.
type Farm struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string          `gorm:"column:name;not null"`
	Slug         string          `gorm:"column:slug;not null;uniqueIndex"`
	Tagline      *string         `gorm:"column:tagline"`
	Location     *string         `gorm:"column:location"`
	Latitude     *float64        `gorm:"column:latitude"`
	Longitude    *float64        `gorm:"column:longitude"`
	ImageMediaID *uuid.UUID      `gorm:"column:image_media_id"`
	Description  json.RawMessage `gorm:"column:description;type:jsonb"`
	OwnerID      uuid.UUID       `gorm:"column:owner;type:uuid;not null;uniqueIndex"`
	Offers       []FarmOffer     `gorm:"foreignKey:FarmID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
