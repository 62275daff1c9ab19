package content

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/farmdirect/farmdirect-backend/pkg/auth"
	"github.com/farmdirect/farmdirect-backend/pkg/db/models"
	"github.com/farmdirect/farmdirect-backend/pkg/enums"
	pkgerrors "github.com/farmdirect/farmdirect-backend/pkg/errors"
	"github.com/farmdirect/farmdirect-backend/pkg/types"
)

type stubContentRepo struct {
	pages    map[uuid.UUID]*models.Page
	navs     map[string]*models.Navigation
	sections map[uuid.UUID]*models.HomeSection
}

func newStubContentRepo() *stubContentRepo {
	return &stubContentRepo{
		pages:    map[uuid.UUID]*models.Page{},
		navs:     map[string]*models.Navigation{},
		sections: map[uuid.UUID]*models.HomeSection{},
	}
}

func (s *stubContentRepo) CreatePage(ctx context.Context, page *models.Page) error {
	s.pages[page.ID] = page
	return nil
}

func (s *stubContentRepo) FindPageByID(ctx context.Context, id uuid.UUID) (*models.Page, error) {
	if p, ok := s.pages[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubContentRepo) FindPageBySlug(ctx context.Context, slug string, parentID *uuid.UUID) (*models.Page, error) {
	for _, p := range s.pages {
		if p.Slug != slug {
			continue
		}
		if parentID == nil && p.ParentID == nil {
			cp := *p
			return &cp, nil
		}
		if parentID != nil && p.ParentID != nil && *p.ParentID == *parentID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubContentRepo) ListPages(ctx context.Context, publishedOnly bool) ([]models.Page, error) {
	var out []models.Page
	for _, p := range s.pages {
		if publishedOnly && !p.Published {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubContentRepo) UpdatePage(ctx context.Context, page *models.Page) error {
	s.pages[page.ID] = page
	return nil
}

func (s *stubContentRepo) DeletePage(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.pages[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.pages, id)
	for _, p := range s.pages {
		if p.ParentID != nil && *p.ParentID == id {
			p.ParentID = nil
		}
	}
	return nil
}

func (s *stubContentRepo) FindNavigation(ctx context.Context, slot string) (*models.Navigation, error) {
	if nav, ok := s.navs[slot]; ok {
		return nav, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubContentRepo) UpsertNavigation(ctx context.Context, nav *models.Navigation) error {
	s.navs[nav.Slot] = nav
	return nil
}

func (s *stubContentRepo) ListHomeSections(ctx context.Context) ([]models.HomeSection, error) {
	var out []models.HomeSection
	for _, section := range s.sections {
		out = append(out, *section)
	}
	return out, nil
}

func (s *stubContentRepo) SaveHomeSection(ctx context.Context, section *models.HomeSection) error {
	s.sections[section.ID] = section
	return nil
}

func (s *stubContentRepo) DeleteHomeSection(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.sections[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.sections, id)
	return nil
}

func contentAdmin() pkgAuth.Principal {
	return pkgAuth.Principal{UserID: uuid.New(), Role: enums.UserRoleAdmin}
}

func contentVisitor() pkgAuth.Principal {
	return pkgAuth.Principal{UserID: uuid.New(), Role: enums.UserRoleCustomer}
}

func TestGetPageByPathWalksNestedSlugs(t *testing.T) {
	repo := newStubContentRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()
	admin := contentAdmin()

	about, err := svc.CreatePage(ctx, admin, CreatePageInput{
		Name:      "About Us",
		Published: true,
	})
	if err != nil {
		t.Fatalf("create root: %v", err)
	}
	if about.Slug != "about-us" {
		t.Fatalf("expected generated slug about-us, got %s", about.Slug)
	}

	team, err := svc.CreatePage(ctx, admin, CreatePageInput{
		Name:      "Team",
		ParentID:  &about.ID,
		Published: true,
	})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	_ = team

	page, err := svc.GetPageByPath(ctx, contentVisitor(), "about-us/team")
	if err != nil {
		t.Fatalf("get by path: %v", err)
	}
	if page.Name != "Team" {
		t.Fatalf("expected Team page, got %s", page.Name)
	}
	if len(page.Breadcrumbs) != 2 || page.Breadcrumbs[0].Slug != "about-us" {
		t.Fatalf("expected breadcrumb trail from root, got %+v", page.Breadcrumbs)
	}
	if page.Path != "about-us/team" {
		t.Fatalf("expected path about-us/team, got %s", page.Path)
	}
}

func TestGetPageByPathHidesDraftsFromPublic(t *testing.T) {
	repo := newStubContentRepo()
	svc, _ := NewService(repo)
	ctx := context.Background()
	admin := contentAdmin()

	if _, err := svc.CreatePage(ctx, admin, CreatePageInput{Name: "Draft"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := svc.GetPageByPath(ctx, contentVisitor(), "draft")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for public, got %v", err)
	}

	page, err := svc.GetPageByPath(ctx, admin, "draft")
	if err != nil {
		t.Fatalf("admin read: %v", err)
	}
	if page.Published {
		t.Fatalf("expected draft flag to survive")
	}
}

func TestCreatePageRejectsDuplicateSiblingSlug(t *testing.T) {
	repo := newStubContentRepo()
	svc, _ := NewService(repo)
	ctx := context.Background()
	admin := contentAdmin()

	if _, err := svc.CreatePage(ctx, admin, CreatePageInput{Name: "News"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.CreatePage(ctx, admin, CreatePageInput{Name: "News"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestPageMutationsRequireAdmin(t *testing.T) {
	repo := newStubContentRepo()
	svc, _ := NewService(repo)

	_, err := svc.CreatePage(context.Background(), contentVisitor(), CreatePageInput{Name: "Nope"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestNavigationSlotRoundtrip(t *testing.T) {
	repo := newStubContentRepo()
	svc, _ := NewService(repo)
	ctx := context.Background()

	empty, err := svc.GetNavigation(ctx, NavSlotHeader)
	if err != nil {
		t.Fatalf("get empty slot: %v", err)
	}
	if len(empty.Links) != 0 {
		t.Fatalf("expected empty links, got %+v", empty.Links)
	}

	_, err = svc.UpsertNavigation(ctx, contentAdmin(), NavSlotHeader, UpsertNavigationInput{
		Links: types.NavLinks{{Label: "Farms", URL: "/farms"}},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	nav, err := svc.GetNavigation(ctx, NavSlotHeader)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(nav.Links) != 1 || nav.Links[0].URL != "/farms" {
		t.Fatalf("expected saved link, got %+v", nav.Links)
	}

	_, err = svc.GetNavigation(ctx, "sidebar")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation for unknown slot, got %v", err)
	}
}

func TestUpsertNavigationValidatesLinks(t *testing.T) {
	repo := newStubContentRepo()
	svc, _ := NewService(repo)

	_, err := svc.UpsertNavigation(context.Background(), contentAdmin(), NavSlotFooter, UpsertNavigationInput{
		Links: types.NavLinks{{Label: "", URL: "/x"}},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHomeSectionLifecycle(t *testing.T) {
	repo := newStubContentRepo()
	svc, _ := NewService(repo)
	ctx := context.Background()
	admin := contentAdmin()

	created, err := svc.UpsertHomeSection(ctx, admin, nil, UpsertHomeSectionInput{
		Position: 0,
		Block:    types.Block{Type: enums.BlockTypeCover, Heading: "Fresh from the farm"},
	})
	if err != nil {
		t.Fatalf("create section: %v", err)
	}

	moved, err := svc.UpsertHomeSection(ctx, admin, &created.ID, UpsertHomeSectionInput{
		Position: 3,
		Block:    created.Block,
	})
	if err != nil {
		t.Fatalf("move section: %v", err)
	}
	if moved.ID != created.ID || moved.Position != 3 {
		t.Fatalf("expected repositioned section, got %+v", moved)
	}

	_, err = svc.UpsertHomeSection(ctx, admin, nil, UpsertHomeSectionInput{
		Position: 1,
		Block:    types.Block{Type: "banner"},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation for block type, got %v", err)
	}

	if err := svc.DeleteHomeSection(ctx, admin, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	err = svc.DeleteHomeSection(ctx, admin, created.ID)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
