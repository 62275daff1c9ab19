package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmdirect/farmdirect-backend/pkg/enums"
)

// AddItemInput captures one add-to-cart request.
type AddItemInput struct {
	FarmID    uuid.UUID `json:"farm_id" validate:"required"`
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gte=0"`
}

// CartItemDTO is one serialized cart line.
type CartItemDTO struct {
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Quantity      int             `json:"quantity"`
	Unit          string          `json:"unit"`
	BundleSize    *int            `json:"bundle_size,omitempty"`
	PriceSnapshot decimal.Decimal `json:"price_snapshot"`
	LineTotal     decimal.Decimal `json:"line_total"`
}

// CartDTO is the serialized view of one farm cart.
type CartDTO struct {
	ID        uuid.UUID        `json:"id"`
	FarmID    uuid.UUID        `json:"farm_id"`
	FarmName  string           `json:"farm_name,omitempty"`
	Status    enums.CartStatus `json:"status"`
	Items     []CartItemDTO    `json:"items"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// ClearAllResult reports how many carts were removed.
type ClearAllResult struct {
	Cleared int `json:"deleted"`
}
