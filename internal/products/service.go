package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/farmdirect/farmdirect-backend/pkg/auth"
	"github.com/farmdirect/farmdirect-backend/pkg/db/models"
	"github.com/farmdirect/farmdirect-backend/pkg/enums"
	pkgerrors "github.com/farmdirect/farmdirect-backend/pkg/errors"
)

type productRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, productType enums.ProductType, limit, offset int) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service manages the shared product catalog. Reads are open to any
// caller; farmers and admins may add or edit entries, and only admins
// may remove them.
type Service struct {
	repo productRepository
}

// NewService constructs the catalog service.
func NewService(repo productRepository) (Service, error) {
	if repo == nil {
		return Service{}, errors.New("products: repository is required")
	}
	return Service{repo: repo}, nil
}

// Create adds a catalog product. Admin only.
func (s Service) Create(ctx context.Context, principal pkgAuth.Principal, input CreateProductInput) (*ProductDTO, error) {
	if !principal.IsAdmin() && !principal.IsFarmer() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only farmers and admins manage the catalog")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	productType, err := enums.ParseProductType(input.ProductType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product type")
	}

	product := &models.Product{
		ID:           uuid.New(),
		Name:         name,
		ProductType:  productType,
		ImageMediaID: input.ImageMediaID,
		Description:  input.Description,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return FromModel(product), nil
}

// GetByID returns one catalog product.
func (s Service) GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return FromModel(product), nil
}

// List returns catalog products matching the filter.
func (s Service) List(ctx context.Context, filter ListFilter) ([]ProductDTO, error) {
	var productType enums.ProductType
	if filter.ProductType != "" {
		parsed, err := enums.ParseProductType(filter.ProductType)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product type")
		}
		productType = parsed
	}

	rows, err := s.repo.List(ctx, productType, filter.Limit, filter.Offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

// Update edits a catalog product. Admin only.
func (s Service) Update(ctx context.Context, principal pkgAuth.Principal, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if !principal.IsAdmin() && !principal.IsFarmer() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only farmers and admins manage the catalog")
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
		}
		product.Name = name
	}
	if input.ProductType != nil {
		productType, err := enums.ParseProductType(*input.ProductType)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product type")
		}
		product.ProductType = productType
	}
	if input.ImageMediaID != nil {
		product.ImageMediaID = input.ImageMediaID
	}
	if input.Description != nil {
		product.Description = input.Description
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return FromModel(product), nil
}

// Delete removes a catalog product. Admin only.
func (s Service) Delete(ctx context.Context, principal pkgAuth.Principal, id uuid.UUID) error {
	if !principal.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only admins remove catalog products")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}
