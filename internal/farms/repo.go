package farms

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmdirect/farmdirect-backend/pkg/db/models"
)

// Repository handles farm persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to farm operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new farm row.
func (r *Repository) Create(ctx context.Context, farm *models.Farm) error {
	if farm == nil {
		return fmt.Errorf("farm is required")
	}
	return r.db.WithContext(ctx).Create(farm).Error
}

// FindByID loads a farm with its offers and their products.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Farm, error) {
	var farm models.Farm
	if err := r.db.WithContext(ctx).
		Preload("Offers.Product").
		First(&farm, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &farm, nil
}

// FindBySlug loads a farm by its slug with offers preloaded.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Farm, error) {
	var farm models.Farm
	if err := r.db.WithContext(ctx).
		Preload("Offers.Product").
		First(&farm, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &farm, nil
}

// FindByOwner returns the farm owned by the provided user.
func (r *Repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Farm, error) {
	var farm models.Farm
	if err := r.db.WithContext(ctx).
		First(&farm, "owner = ?", ownerID).Error; err != nil {
		return nil, err
	}
	return &farm, nil
}

// List returns farms ordered by name.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]models.Farm, error) {
	var farms []models.Farm
	q := r.db.WithContext(ctx).Order("name asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&farms).Error; err != nil {
		return nil, err
	}
	return farms, nil
}

// Update saves the provided farm.
func (r *Repository) Update(ctx context.Context, farm *models.Farm) error {
	if farm == nil {
		return fmt.Errorf("farm is required")
	}
	return r.db.WithContext(ctx).Save(farm).Error
}

// Delete removes the farm row; offers cascade at the database level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Farm{}, "id = ?", id).Error
}

// UpsertOffer creates or replaces the farm's listing for a product.
func (r *Repository) UpsertOffer(ctx context.Context, offer *models.FarmOffer) error {
	if offer == nil {
		return fmt.Errorf("offer is required")
	}
	var existing models.FarmOffer
	err := r.db.WithContext(ctx).
		First(&existing, "farm_id = ? AND product_id = ?", offer.FarmID, offer.ProductID).Error
	if err == nil {
		offer.ID = existing.ID
		offer.CreatedAt = existing.CreatedAt
		return r.db.WithContext(ctx).Save(offer).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return r.db.WithContext(ctx).Create(offer).Error
}

// DeleteOffer removes one product listing from the farm.
func (r *Repository) DeleteOffer(ctx context.Context, farmID, productID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Delete(&models.FarmOffer{}, "farm_id = ? AND product_id = ?", farmID, productID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindOffer loads the farm's listing for a product.
func (r *Repository) FindOffer(ctx context.Context, farmID, productID uuid.UUID) (*models.FarmOffer, error) {
	var offer models.FarmOffer
	if err := r.db.WithContext(ctx).
		Preload("Product").
		First(&offer, "farm_id = ? AND product_id = ?", farmID, productID).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}
