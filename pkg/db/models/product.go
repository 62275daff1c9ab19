package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/farmdirect/farmdirect-backend/pkg/enums"
)

// Product is a shared catalog entry farms can offer.
type Product struct {
	ID           uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string            `gorm:"column:name;not null"`
	ProductType  enums.ProductType `gorm:"column:product_type;type:text;not null"`
	ImageMediaID *uuid.UUID        `gorm:"column:image_media_id"`
	Description  json.RawMessage   `gorm:"column:description;type:jsonb"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
