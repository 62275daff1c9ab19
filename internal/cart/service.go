package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	pkgAuth "github.com/farmdirect/farmdirect-backend/pkg/auth"
	"github.com/farmdirect/farmdirect-backend/pkg/db/models"
	"github.com/farmdirect/farmdirect-backend/pkg/enums"
	pkgerrors "github.com/farmdirect/farmdirect-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type farmLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Farm, error)
	FindOffer(ctx context.Context, farmID, productID uuid.UUID) (*models.FarmOffer, error)
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes per-farm cart operations. Carts belong to customers;
// mutations for other roles are rejected while reads degrade to empty
// results so shared storefront components stay simple.
type Service interface {
	AddItem(ctx context.Context, principal pkgAuth.Principal, input AddItemInput) (*CartDTO, error)
	DecrementItem(ctx context.Context, principal pkgAuth.Principal, cartID, productID uuid.UUID, amount int) (*CartDTO, error)
	ClearAll(ctx context.Context, principal pkgAuth.Principal) (int, error)
	GetCart(ctx context.Context, principal pkgAuth.Principal, farmID uuid.UUID) (*CartDTO, error)
	GetAllCarts(ctx context.Context, principal pkgAuth.Principal) ([]CartDTO, error)
}

type service struct {
	repo     CartRepository
	tx       txRunner
	farms    farmLoader
	products productLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, farms farmLoader, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if farms == nil {
		return nil, fmt.Errorf("farm loader required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, tx: tx, farms: farms, products: products}, nil
}

func (s *service) AddItem(ctx context.Context, principal pkgAuth.Principal, input AddItemInput) (*CartDTO, error) {
	if !principal.IsCustomer() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "only customers have carts")
	}

	qty := input.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	farm, err := s.loadFarm(ctx, input.FarmID)
	if err != nil {
		return nil, err
	}

	offer, err := s.farms.FindOffer(ctx, input.FarmID, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product not in farm catalog")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load offer")
	}

	var result *models.Cart
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindActiveByUserAndFarm(ctx, principal.UserID, input.FarmID, true)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
			}
			cart = &models.Cart{
				UserID: principal.UserID,
				FarmID: input.FarmID,
				Status: enums.CartStatusActive,
			}
			if err := repo.Create(ctx, cart); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
			}
		}

		var line *models.CartItem
		for i := range cart.Items {
			if cart.Items[i].ProductID == input.ProductID {
				line = &cart.Items[i]
				break
			}
		}

		newQty := qty
		if line != nil {
			newQty = line.Quantity + qty
		}
		// Stock is advisory: it bounds what a single cart may hold but is
		// not reserved, so concurrent carts can still oversell it.
		if newQty > offer.Stock {
			return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock for product")
		}

		if line != nil {
			// The price snapshot from the first add is kept on increments.
			line.Quantity = newQty
			if err := repo.SaveItem(ctx, line); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
			}
		} else {
			item := &models.CartItem{
				CartID:        cart.ID,
				ProductID:     input.ProductID,
				Quantity:      newQty,
				Unit:          offer.Unit.String(),
				PriceSnapshot: offer.Price,
			}
			if err := repo.SaveItem(ctx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart line")
			}
			cart.Items = append(cart.Items, *item)
		}

		if err := repo.Touch(ctx, cart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "touch cart")
		}

		reloaded, err := repo.FindActiveByUserAndFarm(ctx, principal.UserID, input.FarmID, false)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload cart")
		}
		result = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.serializeCart(ctx, result, farm), nil
}

func (s *service) DecrementItem(ctx context.Context, principal pkgAuth.Principal, cartID, productID uuid.UUID, amount int) (*CartDTO, error) {
	if !principal.IsCustomer() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "only customers have carts")
	}
	if amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	var result *models.Cart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindByID(ctx, cartID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if cart.UserID != principal.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "cart belongs to another customer")
		}

		var line *models.CartItem
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				line = &cart.Items[i]
				break
			}
		}
		if line == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
		}

		if line.Quantity <= amount {
			if err := repo.DeleteItem(ctx, line.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
			}
			if len(cart.Items) == 1 {
				// Last line gone: the cart itself disappears.
				if err := repo.DeleteCart(ctx, cart.ID); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart")
				}
				result = nil
				return nil
			}
		} else {
			line.Quantity -= amount
			if err := repo.SaveItem(ctx, line); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
			}
		}

		if err := repo.Touch(ctx, cart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "touch cart")
		}

		reloaded, err := repo.FindByID(ctx, cartID, false)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload cart")
		}
		result = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result == nil {
		return nil, nil
	}

	// Farm context is cosmetic here; a failed lookup only blanks the name.
	farm, err := s.farms.FindByID(ctx, result.FarmID)
	if err != nil {
		farm = nil
	}
	return s.serializeCart(ctx, result, farm), nil
}

// ClearAll removes every active cart the customer holds. Deletion is best
// effort: one failing cart does not stop the rest, and the count reports
// how many were actually removed.
func (s *service) ClearAll(ctx context.Context, principal pkgAuth.Principal) (int, error) {
	if !principal.IsCustomer() {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "only customers have carts")
	}

	carts, err := s.repo.FindActiveByUser(ctx, principal.UserID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list carts")
	}

	cleared := 0
	var errs error
	for _, c := range carts {
		if err := s.repo.DeleteCart(ctx, c.ID); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("cart %s: %w", c.ID, err))
			continue
		}
		cleared++
	}

	if errs != nil && cleared == 0 {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "clear carts")
	}
	return cleared, nil
}

func (s *service) GetCart(ctx context.Context, principal pkgAuth.Principal, farmID uuid.UUID) (*CartDTO, error) {
	if !principal.IsCustomer() {
		return nil, nil
	}

	farm, err := s.loadFarm(ctx, farmID)
	if err != nil {
		return nil, err
	}

	cart, err := s.repo.FindActiveByUserAndFarm(ctx, principal.UserID, farmID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return s.serializeCart(ctx, cart, farm), nil
}

func (s *service) GetAllCarts(ctx context.Context, principal pkgAuth.Principal) ([]CartDTO, error) {
	if !principal.IsCustomer() {
		return []CartDTO{}, nil
	}

	carts, err := s.repo.FindActiveByUser(ctx, principal.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list carts")
	}

	seen := map[uuid.UUID]struct{}{}
	out := make([]CartDTO, 0, len(carts))
	for i := range carts {
		c := &carts[i]
		if _, dup := seen[c.FarmID]; dup {
			continue
		}
		seen[c.FarmID] = struct{}{}

		// A farm that fails to load keeps its cart in the listing; only
		// the farm name renders blank.
		farm, err := s.farms.FindByID(ctx, c.FarmID)
		if err != nil {
			farm = nil
		}
		out = append(out, *s.serializeCart(ctx, c, farm))
	}
	return out, nil
}

func (s *service) loadFarm(ctx context.Context, id uuid.UUID) (*models.Farm, error) {
	farm, err := s.farms.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farm")
	}
	return farm, nil
}

// serializeCart flattens a cart against the farm's current catalog. Prices
// and units come from the line snapshots; the bundle size reflects the
// farm's current offer and may drift from what was snapshotted.
func (s *service) serializeCart(ctx context.Context, cart *models.Cart, farm *models.Farm) *CartDTO {
	dto := &CartDTO{
		ID:        cart.ID,
		FarmID:    cart.FarmID,
		Status:    cart.Status,
		Items:     make([]CartItemDTO, 0, len(cart.Items)),
		Subtotal:  decimal.Zero,
		UpdatedAt: cart.UpdatedAt,
	}
	if farm != nil {
		dto.FarmName = farm.Name
	}

	for i := range cart.Items {
		item := &cart.Items[i]

		var offer *models.FarmOffer
		if farm != nil {
			for j := range farm.Offers {
				if farm.Offers[j].ProductID == item.ProductID {
					offer = &farm.Offers[j]
					break
				}
			}
		}

		line := CartItemDTO{
			ProductID:     item.ProductID,
			ProductName:   s.resolveProductName(ctx, item, offer),
			Quantity:      item.Quantity,
			Unit:          item.Unit,
			PriceSnapshot: item.PriceSnapshot,
			LineTotal:     item.PriceSnapshot.Mul(decimal.NewFromInt(int64(item.Quantity))),
		}
		if offer != nil {
			bundle := offer.Quantity
			line.BundleSize = &bundle
		}

		dto.Items = append(dto.Items, line)
		dto.Subtotal = dto.Subtotal.Add(line.LineTotal)
	}
	return dto
}

// resolveProductName walks the fallback chain: the line's loaded product,
// the farm offer's product, a direct catalog lookup, and finally the raw id.
func (s *service) resolveProductName(ctx context.Context, item *models.CartItem, offer *models.FarmOffer) string {
	if item.Product != nil && item.Product.Name != "" {
		return item.Product.Name
	}
	if offer != nil && offer.Product != nil && offer.Product.Name != "" {
		return offer.Product.Name
	}
	if product, err := s.products.FindByID(ctx, item.ProductID); err == nil && product.Name != "" {
		return product.Name
	}
	return item.ProductID.String()
}
