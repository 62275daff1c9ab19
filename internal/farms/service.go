package farms

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/farmdirect/farmdirect-backend/pkg/auth"
	"github.com/farmdirect/farmdirect-backend/pkg/db/models"
	"github.com/farmdirect/farmdirect-backend/pkg/enums"
	pkgerrors "github.com/farmdirect/farmdirect-backend/pkg/errors"
	"github.com/farmdirect/farmdirect-backend/pkg/maps"
)

type farmRepository interface {
	Create(ctx context.Context, farm *models.Farm) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Farm, error)
	FindBySlug(ctx context.Context, slug string) (*models.Farm, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Farm, error)
	List(ctx context.Context, limit, offset int) ([]models.Farm, error)
	Update(ctx context.Context, farm *models.Farm) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpsertOffer(ctx context.Context, offer *models.FarmOffer) error
	DeleteOffer(ctx context.Context, farmID, productID uuid.UUID) error
}

type userLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type placeResolver interface {
	ResolvePlace(ctx context.Context, placeID string) (*maps.PlaceDetails, error)
}

// Service exposes farm operations with ownership checks applied.
type Service interface {
	Create(ctx context.Context, principal pkgAuth.Principal, input CreateFarmInput) (*FarmDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*FarmDTO, error)
	GetBySlug(ctx context.Context, slug string) (*FarmDTO, error)
	List(ctx context.Context, limit, offset int) ([]FarmDTO, error)
	Update(ctx context.Context, principal pkgAuth.Principal, farmID uuid.UUID, input UpdateFarmInput) (*FarmDTO, error)
	Delete(ctx context.Context, principal pkgAuth.Principal, farmID uuid.UUID) error
	UpsertOffer(ctx context.Context, principal pkgAuth.Principal, farmID uuid.UUID, input UpsertOfferInput) (*FarmDTO, error)
	DeleteOffer(ctx context.Context, principal pkgAuth.Principal, farmID, productID uuid.UUID) error
}

type service struct {
	repo   farmRepository
	users  userLookup
	places placeResolver
}

// NewService builds a farm service. The place resolver may be nil when
// geocoding is not configured.
func NewService(repo farmRepository, users userLookup, places placeResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("farm repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("user lookup required")
	}
	return &service{repo: repo, users: users, places: places}, nil
}

func (s *service) Create(ctx context.Context, principal pkgAuth.Principal, input CreateFarmInput) (*FarmDTO, error) {
	if !principal.IsAdmin() && !principal.IsFarmer() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only farmers can create farms")
	}

	// Non-admin creators always own the farm they create.
	ownerID := principal.UserID
	if principal.IsAdmin() && input.OwnerID != nil {
		ownerID = *input.OwnerID
	}

	if err := s.checkOwnerEligible(ctx, ownerID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "farm name is required")
	}
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(name)
	}

	farm := &models.Farm{
		Name:         name,
		Slug:         slug,
		Tagline:      input.Tagline,
		Location:     input.Location,
		ImageMediaID: input.ImageMediaID,
		Description:  input.Description,
		OwnerID:      ownerID,
	}

	if err := s.applyPlace(ctx, farm, input.PlaceID); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, farm); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "farm slug or owner already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create farm")
	}
	return FromModel(farm), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*FarmDTO, error) {
	farm, err := s.loadFarm(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(farm), nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*FarmDTO, error) {
	farm, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farm")
	}
	return FromModel(farm), nil
}

func (s *service) List(ctx context.Context, limit, offset int) ([]FarmDTO, error) {
	farms, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list farms")
	}
	out := make([]FarmDTO, 0, len(farms))
	for i := range farms {
		out = append(out, *FromModel(&farms[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, principal pkgAuth.Principal, farmID uuid.UUID, input UpdateFarmInput) (*FarmDTO, error) {
	farm, err := s.loadFarm(ctx, farmID)
	if err != nil {
		return nil, err
	}
	if err := authorizeFarmWrite(principal, farm); err != nil {
		return nil, err
	}

	if input.OwnerID != nil && *input.OwnerID != farm.OwnerID {
		if err := s.checkOwnerEligible(ctx, *input.OwnerID); err != nil {
			return nil, err
		}
		farm.OwnerID = *input.OwnerID
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "farm name cannot be empty")
		}
		farm.Name = name
	}
	if input.Slug != nil {
		slug := strings.TrimSpace(*input.Slug)
		if slug == "" {
			slug = Slugify(farm.Name)
		}
		farm.Slug = slug
	}
	if input.Tagline != nil {
		farm.Tagline = input.Tagline
	}
	if input.Location != nil {
		farm.Location = input.Location
	}
	if input.ImageMediaID != nil {
		farm.ImageMediaID = input.ImageMediaID
	}
	if input.Description != nil {
		farm.Description = input.Description
	}

	if err := s.applyPlace(ctx, farm, input.PlaceID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, farm); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "farm slug or owner already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update farm")
	}
	return FromModel(farm), nil
}

func (s *service) Delete(ctx context.Context, principal pkgAuth.Principal, farmID uuid.UUID) error {
	farm, err := s.loadFarm(ctx, farmID)
	if err != nil {
		return err
	}
	if err := authorizeFarmWrite(principal, farm); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, farmID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete farm")
	}
	return nil
}

func (s *service) UpsertOffer(ctx context.Context, principal pkgAuth.Principal, farmID uuid.UUID, input UpsertOfferInput) (*FarmDTO, error) {
	farm, err := s.loadFarm(ctx, farmID)
	if err != nil {
		return nil, err
	}
	if err := authorizeFarmWrite(principal, farm); err != nil {
		return nil, err
	}

	if !input.Unit.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid offer unit")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer quantity must be positive")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer stock cannot be negative")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer price cannot be negative")
	}

	offer := &models.FarmOffer{
		FarmID:    farmID,
		ProductID: input.ProductID,
		Stock:     input.Stock,
		Quantity:  input.Quantity,
		Unit:      input.Unit,
		Price:     input.Price,
	}
	if err := s.repo.UpsertOffer(ctx, offer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save offer")
	}

	return s.GetByID(ctx, farmID)
}

func (s *service) DeleteOffer(ctx context.Context, principal pkgAuth.Principal, farmID, productID uuid.UUID) error {
	farm, err := s.loadFarm(ctx, farmID)
	if err != nil {
		return err
	}
	if err := authorizeFarmWrite(principal, farm); err != nil {
		return err
	}
	if err := s.repo.DeleteOffer(ctx, farmID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete offer")
	}
	return nil
}

func (s *service) loadFarm(ctx context.Context, id uuid.UUID) (*models.Farm, error) {
	farm, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farm")
	}
	return farm, nil
}

// checkOwnerEligible verifies the prospective owner is a farmer who does not
// already own a farm.
func (s *service) checkOwnerEligible(ctx context.Context, ownerID uuid.UUID) error {
	owner, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "owner user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load owner")
	}
	if owner.Role != enums.UserRoleFarmer {
		return pkgerrors.New(pkgerrors.CodeValidation, "farm owner must be a farmer")
	}

	if _, err := s.repo.FindByOwner(ctx, ownerID); err == nil {
		return pkgerrors.New(pkgerrors.CodeConflict, "user already owns a farm")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing farm")
	}
	return nil
}

func (s *service) applyPlace(ctx context.Context, farm *models.Farm, placeID *string) error {
	if placeID == nil || s.places == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*placeID)
	if trimmed == "" {
		return nil
	}
	details, err := s.places.ResolvePlace(ctx, trimmed)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve place")
	}
	if farm.Location == nil || strings.TrimSpace(deref(farm.Location)) == "" {
		addr := details.FormattedAddress
		farm.Location = &addr
	}
	lat := details.Location.Latitude
	lng := details.Location.Longitude
	farm.Latitude = &lat
	farm.Longitude = &lng
	return nil
}

// authorizeFarmWrite allows admins and the persisted owner to mutate a farm.
func authorizeFarmWrite(principal pkgAuth.Principal, farm *models.Farm) error {
	if principal.IsAdmin() {
		return nil
	}
	if farm != nil && principal.UserID == farm.OwnerID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "not the farm owner")
}

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a display name into a URL-safe slug.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugStripRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
