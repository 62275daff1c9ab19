package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmdirect/farmdirect-backend/pkg/enums"
)

// FarmOffer is one product entry in a farm's catalog: how many bundles
// remain, how many units make a bundle, and the per-bundle price.
type FarmOffer struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	FarmID    uuid.UUID       `gorm:"column:farm_id;type:uuid;not null;uniqueIndex:idx_farm_offers_farm_product"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_farm_offers_farm_product"`
	Product   *Product        `gorm:"foreignKey:ProductID"`
	Stock     int             `gorm:"column:stock;not null;default:0"`
	Quantity  int             `gorm:"column:quantity;not null;default:0"`
	Unit      enums.OfferUnit `gorm:"column:unit;type:text;not null;default:'kg'"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
