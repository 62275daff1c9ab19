package products

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/farmdirect/farmdirect-backend/pkg/db/models"
)

// ProductDTO is the serialized catalog product.
type ProductDTO struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	ProductType  string          `json:"product_type"`
	ImageMediaID *uuid.UUID      `json:"image_media_id,omitempty"`
	Description  json.RawMessage `json:"description,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CreateProductInput captures a new catalog entry.
type CreateProductInput struct {
	Name         string          `json:"name" validate:"required"`
	ProductType  string          `json:"product_type" validate:"required"`
	ImageMediaID *uuid.UUID      `json:"image_media_id"`
	Description  json.RawMessage `json:"description"`
}

// UpdateProductInput carries partial catalog edits.
type UpdateProductInput struct {
	Name         *string         `json:"name"`
	ProductType  *string         `json:"product_type"`
	ImageMediaID *uuid.UUID      `json:"image_media_id"`
	Description  json.RawMessage `json:"description"`
}

// ListFilter narrows catalog listings.
type ListFilter struct {
	ProductType string `json:"product_type"`
	Limit       int    `json:"limit"`
	Offset      int    `json:"offset"`
}

// FromModel maps the DB row to its DTO.
func FromModel(m *models.Product) *ProductDTO {
	if m == nil {
		return nil
	}
	return &ProductDTO{
		ID:           m.ID,
		Name:         m.Name,
		ProductType:  m.ProductType.String(),
		ImageMediaID: m.ImageMediaID,
		Description:  m.Description,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
