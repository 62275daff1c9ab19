package content

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/farmdirect/farmdirect-backend/pkg/auth"
	"github.com/farmdirect/farmdirect-backend/pkg/db/models"
	pkgerrors "github.com/farmdirect/farmdirect-backend/pkg/errors"
)

// NavSlotHeader and NavSlotFooter are the two global navigation slots.
const (
	NavSlotHeader = "header"
	NavSlotFooter = "footer"
)

type contentRepository interface {
	CreatePage(ctx context.Context, page *models.Page) error
	FindPageByID(ctx context.Context, id uuid.UUID) (*models.Page, error)
	FindPageBySlug(ctx context.Context, slug string, parentID *uuid.UUID) (*models.Page, error)
	ListPages(ctx context.Context, publishedOnly bool) ([]models.Page, error)
	UpdatePage(ctx context.Context, page *models.Page) error
	DeletePage(ctx context.Context, id uuid.UUID) error
	FindNavigation(ctx context.Context, slot string) (*models.Navigation, error)
	UpsertNavigation(ctx context.Context, nav *models.Navigation) error
	ListHomeSections(ctx context.Context) ([]models.HomeSection, error)
	SaveHomeSection(ctx context.Context, section *models.HomeSection) error
	DeleteHomeSection(ctx context.Context, id uuid.UUID) error
}

// Service serves CMS content: nested pages, navigation slots, and the
// ordered home sections. Reads are public; mutations are admin only.
type Service struct {
	repo contentRepository
}

// NewService constructs the content service.
func NewService(repo contentRepository) (Service, error) {
	if repo == nil {
		return Service{}, errors.New("content: repository is required")
	}
	return Service{repo: repo}, nil
}

// GetPageByPath resolves a nested slug path like "about/team" by
// walking one level per segment from the root. Unpublished pages are
// only visible to admins; to everyone else the path does not exist.
func (s Service) GetPageByPath(ctx context.Context, principal pkgAuth.Principal, path string) (*PageDTO, error) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "page path is required")
	}

	var (
		parentID *uuid.UUID
		trail    []Breadcrumb
		page     *models.Page
	)
	for _, segment := range segments {
		found, err := s.repo.FindPageBySlug(ctx, segment, parentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "page not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve page path")
		}
		if !found.Published && !principal.IsAdmin() {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "page not found")
		}
		trail = append(trail, Breadcrumb{Name: found.Name, Slug: found.Slug})
		id := found.ID
		parentID = &id
		page = found
	}
	return pageFromModel(page, trail, strings.Join(segments, "/")), nil
}

// ListPages returns the page index. Admins see drafts too.
func (s Service) ListPages(ctx context.Context, principal pkgAuth.Principal) ([]PageDTO, error) {
	pages, err := s.repo.ListPages(ctx, !principal.IsAdmin())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list pages")
	}
	out := make([]PageDTO, 0, len(pages))
	for i := range pages {
		p := pages[i]
		out = append(out, *pageFromModel(&p, []Breadcrumb{{Name: p.Name, Slug: p.Slug}}, p.Slug))
	}
	return out, nil
}

// CreatePage adds a page. Admin only.
func (s Service) CreatePage(ctx context.Context, principal pkgAuth.Principal, input CreatePageInput) (*PageDTO, error) {
	if !principal.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins manage content")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "page name is required")
	}
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = slugify(name)
	}

	if input.ParentID != nil {
		if _, err := s.repo.FindPageByID(ctx, *input.ParentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "parent page not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load parent page")
		}
	}
	if _, err := s.repo.FindPageBySlug(ctx, slug, input.ParentID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already used under this parent")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check page slug")
	}

	page := &models.Page{
		ID:        uuid.New(),
		Name:      name,
		Slug:      slug,
		ParentID:  input.ParentID,
		Blocks:    input.Blocks,
		Keywords:  input.Keywords,
		Published: input.Published,
	}
	if err := s.repo.CreatePage(ctx, page); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create page")
	}
	return pageFromModel(page, []Breadcrumb{{Name: page.Name, Slug: page.Slug}}, page.Slug), nil
}

// UpdatePage edits a page. Admin only.
func (s Service) UpdatePage(ctx context.Context, principal pkgAuth.Principal, id uuid.UUID, input UpdatePageInput) (*PageDTO, error) {
	if !principal.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins manage content")
	}

	page, err := s.repo.FindPageByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "page not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load page")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "page name is required")
		}
		page.Name = name
	}
	if input.Slug != nil {
		slug := strings.TrimSpace(*input.Slug)
		if slug == "" {
			slug = slugify(page.Name)
		}
		page.Slug = slug
	}
	if input.Blocks != nil {
		page.Blocks = input.Blocks
	}
	if input.Keywords != nil {
		page.Keywords = input.Keywords
	}
	if input.Published != nil {
		page.Published = *input.Published
	}

	if err := s.repo.UpdatePage(ctx, page); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update page")
	}
	return pageFromModel(page, []Breadcrumb{{Name: page.Name, Slug: page.Slug}}, page.Slug), nil
}

// DeletePage removes a page. Admin only.
func (s Service) DeletePage(ctx context.Context, principal pkgAuth.Principal, id uuid.UUID) error {
	if !principal.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only admins manage content")
	}
	if err := s.repo.DeletePage(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "page not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete page")
	}
	return nil
}

// GetNavigation returns the link list for a slot. A slot that has
// never been configured comes back empty rather than as an error so
// fresh deployments render without seed data.
func (s Service) GetNavigation(ctx context.Context, slot string) (*NavigationDTO, error) {
	if err := validateSlot(slot); err != nil {
		return nil, err
	}
	nav, err := s.repo.FindNavigation(ctx, slot)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NavigationDTO{Slot: slot}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load navigation")
	}
	return navigationFromModel(nav), nil
}

// UpsertNavigation replaces a slot's link list. Admin only.
func (s Service) UpsertNavigation(ctx context.Context, principal pkgAuth.Principal, slot string, input UpsertNavigationInput) (*NavigationDTO, error) {
	if !principal.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins manage content")
	}
	if err := validateSlot(slot); err != nil {
		return nil, err
	}
	for _, link := range input.Links {
		if strings.TrimSpace(link.Label) == "" || strings.TrimSpace(link.URL) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "navigation links need a label and url")
		}
	}

	nav := &models.Navigation{ID: uuid.New(), Slot: slot, Links: input.Links}
	if err := s.repo.UpsertNavigation(ctx, nav); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save navigation")
	}
	return navigationFromModel(nav), nil
}

// ListHomeSections returns landing-page sections in display order.
func (s Service) ListHomeSections(ctx context.Context) ([]HomeSectionDTO, error) {
	sections, err := s.repo.ListHomeSections(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list home sections")
	}
	out := make([]HomeSectionDTO, 0, len(sections))
	for i := range sections {
		out = append(out, homeSectionFromModel(&sections[i]))
	}
	return out, nil
}

// UpsertHomeSection creates or repositions one landing-page block.
// Admin only. A nil id creates a new section.
func (s Service) UpsertHomeSection(ctx context.Context, principal pkgAuth.Principal, id *uuid.UUID, input UpsertHomeSectionInput) (*HomeSectionDTO, error) {
	if !principal.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins manage content")
	}
	if !input.Block.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid block type")
	}
	if input.Position < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "position must not be negative")
	}

	section := &models.HomeSection{Position: input.Position, Block: input.Block}
	if id != nil {
		existing, err := s.repo.ListHomeSections(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list home sections")
		}
		found := false
		for i := range existing {
			if existing[i].ID == *id {
				section.ID = existing[i].ID
				section.CreatedAt = existing[i].CreatedAt
				found = true
				break
			}
		}
		if !found {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "home section not found")
		}
	} else {
		section.ID = uuid.New()
	}

	if err := s.repo.SaveHomeSection(ctx, section); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save home section")
	}
	dto := homeSectionFromModel(section)
	return &dto, nil
}

// DeleteHomeSection removes one landing-page block. Admin only.
func (s Service) DeleteHomeSection(ctx context.Context, principal pkgAuth.Principal, id uuid.UUID) error {
	if !principal.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only admins manage content")
	}
	if err := s.repo.DeleteHomeSection(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "home section not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete home section")
	}
	return nil
}

func validateSlot(slot string) error {
	if slot != NavSlotHeader && slot != NavSlotFooter {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown navigation slot")
	}
	return nil
}

func splitPath(path string) []string {
	var out []string
	for _, segment := range strings.Split(path, "/") {
		segment = strings.TrimSpace(segment)
		if segment != "" {
			out = append(out, segment)
		}
	}
	return out
}

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(value string) string {
	slug := slugStripRe.ReplaceAllString(strings.ToLower(value), "-")
	return strings.Trim(slug, "-")
}
