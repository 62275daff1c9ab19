package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/farmdirect/farmdirect-backend/pkg/types"
)

// Page is a content-managed page rendered from an ordered block list.
// Pages nest via ParentID so breadcrumb URLs compose parent slugs.
type Page struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string         `gorm:"column:name;not null"`
	Slug      string         `gorm:"column:slug;not null"`
	ParentID  *uuid.UUID     `gorm:"column:parent_id;type:uuid"`
	Blocks    types.Blocks   `gorm:"column:blocks;type:jsonb"`
	Keywords  pq.StringArray `gorm:"column:keywords;type:text[]"`
	Published bool           `gorm:"column:published;not null;default:false"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
