package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/farmdirect/farmdirect-backend/pkg/db/models"
	"github.com/farmdirect/farmdirect-backend/pkg/enums"
)

// CartRepository exposes the persistence surface the cart service depends on.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	Create(ctx context.Context, cart *models.Cart) error
	FindByID(ctx context.Context, cartID uuid.UUID, lock bool) (*models.Cart, error)
	FindActiveByUserAndFarm(ctx context.Context, userID, farmID uuid.UUID, lock bool) (*models.Cart, error)
	FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]models.Cart, error)
	SaveItem(ctx context.Context, item *models.CartItem) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	DeleteCart(ctx context.Context, cartID uuid.UUID) error
	Touch(ctx context.Context, cartID uuid.UUID) error
}

// Repository is the GORM-backed cart repository.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new cart.
func (r *Repository) Create(ctx context.Context, cart *models.Cart) error {
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	if cart.Status == "" {
		cart.Status = enums.CartStatusActive
	}
	return r.db.WithContext(ctx).Create(cart).Error
}

// lockForUpdate adds a row lock on backends that have one. SQLite has
// no row-level locks; its single-writer model serializes writes anyway.
func (r *Repository) lockForUpdate(q *gorm.DB) *gorm.DB {
	if r.db.Dialector.Name() == "sqlite" {
		return q
	}
	return q.Clauses(clause.Locking{Strength: "UPDATE"})
}

// FindByID loads one active cart by primary key, items preloaded. With
// lock set, the cart row is locked for the duration of the transaction.
func (r *Repository) FindByID(ctx context.Context, cartID uuid.UUID, lock bool) (*models.Cart, error) {
	q := r.db.WithContext(ctx)
	if lock {
		q = r.lockForUpdate(q)
	}
	var cart models.Cart
	err := q.
		Where("id = ? AND status = ?", cartID, enums.CartStatusActive).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Order("created_at asc").
		Find(&cart.Items, "cart_id = ?", cart.ID).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindActiveByUserAndFarm loads the active cart for the (user, farm) pair.
// With lock set, the cart row is locked for the duration of the transaction
// so concurrent mutations serialize.
func (r *Repository) FindActiveByUserAndFarm(ctx context.Context, userID, farmID uuid.UUID, lock bool) (*models.Cart, error) {
	q := r.db.WithContext(ctx)
	if lock {
		q = r.lockForUpdate(q)
	}
	var cart models.Cart
	err := q.
		Where("user_id = ? AND farm_id = ? AND status = ?", userID, farmID, enums.CartStatusActive).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Order("created_at asc").
		Find(&cart.Items, "cart_id = ?", cart.ID).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindActiveByUser returns every active cart the user holds, items preloaded.
func (r *Repository) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]models.Cart, error) {
	var carts []models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Where("user_id = ? AND status = ?", userID, enums.CartStatusActive).
		Order("created_at asc").
		Find(&carts).Error
	if err != nil {
		return nil, err
	}
	return carts, nil
}

// SaveItem creates or updates a cart line.
func (r *Repository) SaveItem(ctx context.Context, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
		return r.db.WithContext(ctx).Create(item).Error
	}
	return r.db.WithContext(ctx).Save(item).Error
}

// DeleteItem removes one cart line.
func (r *Repository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", itemID).Error
}

// DeleteCart removes the cart; lines cascade at the database level.
func (r *Repository) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Delete(&models.CartItem{}, "cart_id = ?", cartID).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.Cart{}, "id = ?", cartID).Error
}

// Touch bumps the cart's updated_at so list ordering reflects activity.
func (r *Repository) Touch(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		UpdateColumn("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}
