package farms

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/farmdirect/farmdirect-backend/pkg/auth"
	"github.com/farmdirect/farmdirect-backend/pkg/db/models"
	"github.com/farmdirect/farmdirect-backend/pkg/enums"
	pkgerrors "github.com/farmdirect/farmdirect-backend/pkg/errors"
)

type stubFarmRepo struct {
	farms     map[uuid.UUID]*models.Farm
	byOwner   map[uuid.UUID]*models.Farm
	created   *models.Farm
	updated   *models.Farm
	deleted   *uuid.UUID
	createErr error
}

func newStubFarmRepo() *stubFarmRepo {
	return &stubFarmRepo{
		farms:   map[uuid.UUID]*models.Farm{},
		byOwner: map[uuid.UUID]*models.Farm{},
	}
}

func (s *stubFarmRepo) add(farm *models.Farm) {
	s.farms[farm.ID] = farm
	s.byOwner[farm.OwnerID] = farm
}

func (s *stubFarmRepo) Create(ctx context.Context, farm *models.Farm) error {
	if s.createErr != nil {
		return s.createErr
	}
	farm.ID = uuid.New()
	s.add(farm)
	s.created = farm
	return nil
}

func (s *stubFarmRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Farm, error) {
	if farm, ok := s.farms[id]; ok {
		return farm, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubFarmRepo) FindBySlug(ctx context.Context, slug string) (*models.Farm, error) {
	for _, farm := range s.farms {
		if farm.Slug == slug {
			return farm, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubFarmRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Farm, error) {
	if farm, ok := s.byOwner[ownerID]; ok {
		return farm, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubFarmRepo) List(ctx context.Context, limit, offset int) ([]models.Farm, error) {
	out := make([]models.Farm, 0, len(s.farms))
	for _, farm := range s.farms {
		out = append(out, *farm)
	}
	return out, nil
}

func (s *stubFarmRepo) Update(ctx context.Context, farm *models.Farm) error {
	s.farms[farm.ID] = farm
	s.updated = farm
	return nil
}

func (s *stubFarmRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.farms, id)
	s.deleted = &id
	return nil
}

func (s *stubFarmRepo) UpsertOffer(ctx context.Context, offer *models.FarmOffer) error {
	farm, ok := s.farms[offer.FarmID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	offer.ID = uuid.New()
	farm.Offers = append(farm.Offers, *offer)
	return nil
}

func (s *stubFarmRepo) DeleteOffer(ctx context.Context, farmID, productID uuid.UUID) error {
	farm, ok := s.farms[farmID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i, offer := range farm.Offers {
		if offer.ProductID == productID {
			farm.Offers = append(farm.Offers[:i], farm.Offers[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type stubUserLookup struct {
	users map[uuid.UUID]*models.User
}

func (s *stubUserLookup) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type farmTestSetup struct {
	service Service
	repo    *stubFarmRepo
	users   *stubUserLookup
}

func newFarmTestSetup(t *testing.T) *farmTestSetup {
	t.Helper()
	repo := newStubFarmRepo()
	users := &stubUserLookup{users: map[uuid.UUID]*models.User{}}
	svc, err := NewService(repo, users, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &farmTestSetup{service: svc, repo: repo, users: users}
}

func (s *farmTestSetup) addUser(role enums.UserRole) *models.User {
	user := &models.User{ID: uuid.New(), Role: role, IsActive: true}
	s.users.users[user.ID] = user
	return user
}

func farmerPrincipal(id uuid.UUID) pkgAuth.Principal {
	return pkgAuth.Principal{UserID: id, Role: enums.UserRoleFarmer}
}

func adminPrincipal() pkgAuth.Principal {
	return pkgAuth.Principal{UserID: uuid.New(), Role: enums.UserRoleAdmin}
}

func TestCreateFarmSetsOwnerToCreator(t *testing.T) {
	setup := newFarmTestSetup(t)
	farmer := setup.addUser(enums.UserRoleFarmer)
	other := setup.addUser(enums.UserRoleFarmer)

	// A farmer cannot hand the farm to someone else at creation time.
	otherID := other.ID
	dto, err := setup.service.Create(context.Background(), farmerPrincipal(farmer.ID), CreateFarmInput{
		Name:    "Green Acres",
		OwnerID: &otherID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.OwnerID != farmer.ID {
		t.Fatalf("expected owner %s, got %s", farmer.ID, dto.OwnerID)
	}
	if dto.Slug != "green-acres" {
		t.Fatalf("expected generated slug, got %s", dto.Slug)
	}
}

func TestCreateFarmAdminAssignsOwner(t *testing.T) {
	setup := newFarmTestSetup(t)
	farmer := setup.addUser(enums.UserRoleFarmer)

	ownerID := farmer.ID
	dto, err := setup.service.Create(context.Background(), adminPrincipal(), CreateFarmInput{
		Name:    "Hilltop",
		OwnerID: &ownerID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.OwnerID != farmer.ID {
		t.Fatalf("expected owner %s, got %s", farmer.ID, dto.OwnerID)
	}
}

func TestCreateFarmRejectsCustomer(t *testing.T) {
	setup := newFarmTestSetup(t)
	customer := setup.addUser(enums.UserRoleCustomer)

	_, err := setup.service.Create(context.Background(), pkgAuth.Principal{
		UserID: customer.ID,
		Role:   enums.UserRoleCustomer,
	}, CreateFarmInput{Name: "Nope"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCreateFarmRejectsSecondFarm(t *testing.T) {
	setup := newFarmTestSetup(t)
	farmer := setup.addUser(enums.UserRoleFarmer)
	setup.repo.add(&models.Farm{ID: uuid.New(), Name: "First", OwnerID: farmer.ID})

	_, err := setup.service.Create(context.Background(), farmerPrincipal(farmer.ID), CreateFarmInput{
		Name: "Second",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateFarmMapsDuplicateKeyToConflict(t *testing.T) {
	setup := newFarmTestSetup(t)
	farmer := setup.addUser(enums.UserRoleFarmer)

	// Two creates race past the pre-check; the unique index fires on the
	// second insert.
	setup.repo.createErr = gorm.ErrDuplicatedKey

	_, err := setup.service.Create(context.Background(), farmerPrincipal(farmer.ID), CreateFarmInput{
		Name: "Green Acres",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateFarmRequiresOwnerOrAdmin(t *testing.T) {
	setup := newFarmTestSetup(t)
	owner := setup.addUser(enums.UserRoleFarmer)
	intruder := setup.addUser(enums.UserRoleFarmer)
	farm := &models.Farm{ID: uuid.New(), Name: "Green Acres", Slug: "green-acres", OwnerID: owner.ID}
	setup.repo.add(farm)

	name := "Stolen Acres"
	_, err := setup.service.Update(context.Background(), farmerPrincipal(intruder.ID), farm.ID, UpdateFarmInput{Name: &name})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}

	dto, err := setup.service.Update(context.Background(), farmerPrincipal(owner.ID), farm.ID, UpdateFarmInput{Name: &name})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if dto.Name != name {
		t.Fatalf("expected updated name, got %s", dto.Name)
	}

	name2 := "Admin Acres"
	if _, err := setup.service.Update(context.Background(), adminPrincipal(), farm.ID, UpdateFarmInput{Name: &name2}); err != nil {
		t.Fatalf("admin update: %v", err)
	}
}

func TestUpdateFarmOwnerHandover(t *testing.T) {
	setup := newFarmTestSetup(t)
	owner := setup.addUser(enums.UserRoleFarmer)
	successor := setup.addUser(enums.UserRoleFarmer)
	farm := &models.Farm{ID: uuid.New(), Name: "Green Acres", Slug: "green-acres", OwnerID: owner.ID}
	setup.repo.add(farm)

	successorID := successor.ID
	dto, err := setup.service.Update(context.Background(), farmerPrincipal(owner.ID), farm.ID, UpdateFarmInput{
		OwnerID: &successorID,
	})
	if err != nil {
		t.Fatalf("handover: %v", err)
	}
	if dto.OwnerID != successor.ID {
		t.Fatalf("expected new owner %s, got %s", successor.ID, dto.OwnerID)
	}
}

func TestUpdateFarmHandoverRejectsBusyOwner(t *testing.T) {
	setup := newFarmTestSetup(t)
	owner := setup.addUser(enums.UserRoleFarmer)
	busy := setup.addUser(enums.UserRoleFarmer)
	farm := &models.Farm{ID: uuid.New(), Name: "Green Acres", OwnerID: owner.ID}
	setup.repo.add(farm)
	setup.repo.add(&models.Farm{ID: uuid.New(), Name: "Busy Farm", OwnerID: busy.ID})

	busyID := busy.ID
	_, err := setup.service.Update(context.Background(), farmerPrincipal(owner.ID), farm.ID, UpdateFarmInput{
		OwnerID: &busyID,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateFarmHandoverRejectsCustomerOwner(t *testing.T) {
	setup := newFarmTestSetup(t)
	owner := setup.addUser(enums.UserRoleFarmer)
	customer := setup.addUser(enums.UserRoleCustomer)
	farm := &models.Farm{ID: uuid.New(), Name: "Green Acres", OwnerID: owner.ID}
	setup.repo.add(farm)

	customerID := customer.ID
	_, err := setup.service.Update(context.Background(), farmerPrincipal(owner.ID), farm.ID, UpdateFarmInput{
		OwnerID: &customerID,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteFarmRequiresOwnerOrAdmin(t *testing.T) {
	setup := newFarmTestSetup(t)
	owner := setup.addUser(enums.UserRoleFarmer)
	intruder := setup.addUser(enums.UserRoleFarmer)
	farm := &models.Farm{ID: uuid.New(), Name: "Green Acres", OwnerID: owner.ID}
	setup.repo.add(farm)

	err := setup.service.Delete(context.Background(), farmerPrincipal(intruder.ID), farm.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}

	if err := setup.service.Delete(context.Background(), farmerPrincipal(owner.ID), farm.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if setup.repo.deleted == nil || *setup.repo.deleted != farm.ID {
		t.Fatal("expected farm deletion")
	}
}

func TestUpsertOfferValidation(t *testing.T) {
	setup := newFarmTestSetup(t)
	owner := setup.addUser(enums.UserRoleFarmer)
	farm := &models.Farm{ID: uuid.New(), Name: "Green Acres", OwnerID: owner.ID}
	setup.repo.add(farm)

	_, err := setup.service.UpsertOffer(context.Background(), farmerPrincipal(owner.ID), farm.ID, UpsertOfferInput{
		ProductID: uuid.New(),
		Quantity:  0,
		Unit:      enums.OfferUnitKg,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Green Acres":       "green-acres",
		"  Maple & Oak Co ": "maple-oak-co",
		"ALL-CAPS":          "all-caps",
	}
	for input, want := range cases {
		if got := Slugify(input); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", input, got, want)
		}
	}
}
