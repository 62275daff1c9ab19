package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmdirect/farmdirect-backend/pkg/enums"
)

// Media tracks an uploaded object; the bytes live in object storage.
type Media struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID   uuid.UUID         `gorm:"column:owner_id;type:uuid;not null"`
	ObjectKey string            `gorm:"column:object_key;not null;uniqueIndex"`
	MimeType  string            `gorm:"column:mime_type;not null"`
	SizeBytes int64             `gorm:"column:size_bytes;not null;default:0"`
	AltText   *string           `gorm:"column:alt_text"`
	PublicURL *string           `gorm:"column:public_url"`
	Status    enums.MediaStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
