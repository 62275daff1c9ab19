package farms

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmdirect/farmdirect-backend/pkg/db/models"
	"github.com/farmdirect/farmdirect-backend/pkg/enums"
)

// FarmDTO exposes farm data in API responses.
type FarmDTO struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	Tagline      *string         `json:"tagline,omitempty"`
	Location     *string         `json:"location,omitempty"`
	Latitude     *float64        `json:"latitude,omitempty"`
	Longitude    *float64        `json:"longitude,omitempty"`
	ImageMediaID *uuid.UUID      `json:"image_media_id,omitempty"`
	Description  json.RawMessage `json:"description,omitempty"`
	OwnerID      uuid.UUID       `json:"owner"`
	Offers       []OfferDTO      `json:"offers,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// OfferDTO is one product listing on a farm.
type OfferDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Stock       int             `json:"stock"`
	Quantity    int             `json:"quantity"`
	Unit        enums.OfferUnit `json:"unit"`
	Price       decimal.Decimal `json:"price"`
}

// CreateFarmInput holds creation-time data for a new farm.
type CreateFarmInput struct {
	Name         string
	Slug         string
	Tagline      *string
	Location     *string
	PlaceID      *string
	ImageMediaID *uuid.UUID
	Description  json.RawMessage
	OwnerID      *uuid.UUID
}

// UpdateFarmInput captures the allowed farm fields for mutation.
// Nil pointers leave the persisted value untouched.
type UpdateFarmInput struct {
	Name         *string
	Slug         *string
	Tagline      *string
	Location     *string
	PlaceID      *string
	ImageMediaID *uuid.UUID
	Description  json.RawMessage
	OwnerID      *uuid.UUID
}

// UpsertOfferInput describes one catalog entry to create or replace.
type UpsertOfferInput struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Stock     int             `json:"stock" validate:"gte=0"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	Unit      enums.OfferUnit `json:"unit" validate:"required"`
	Price     decimal.Decimal `json:"price" validate:"required"`
}

// FromModel maps the persisted farm into a DTO.
func FromModel(m *models.Farm) *FarmDTO {
	if m == nil {
		return nil
	}

	dto := &FarmDTO{
		ID:           m.ID,
		Name:         m.Name,
		Slug:         m.Slug,
		Tagline:      m.Tagline,
		Location:     m.Location,
		Latitude:     m.Latitude,
		Longitude:    m.Longitude,
		ImageMediaID: m.ImageMediaID,
		Description:  m.Description,
		OwnerID:      m.OwnerID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	for _, offer := range m.Offers {
		dto.Offers = append(dto.Offers, offerFromModel(offer))
	}
	return dto
}

func offerFromModel(m models.FarmOffer) OfferDTO {
	dto := OfferDTO{
		ID:        m.ID,
		ProductID: m.ProductID,
		Stock:     m.Stock,
		Quantity:  m.Quantity,
		Unit:      m.Unit,
		Price:     m.Price,
	}
	if m.Product != nil {
		dto.ProductName = m.Product.Name
	}
	return dto
}
