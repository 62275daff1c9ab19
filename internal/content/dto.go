package content

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmdirect/farmdirect-backend/pkg/db/models"
	"github.com/farmdirect/farmdirect-backend/pkg/types"
)

// Breadcrumb is one ancestor entry on a page's path, root first.
type Breadcrumb struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// PageDTO is the serialized content page.
type PageDTO struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Path        string       `json:"path"`
	Blocks      types.Blocks `json:"blocks"`
	Keywords    []string     `json:"keywords,omitempty"`
	Published   bool         `json:"published"`
	Breadcrumbs []Breadcrumb `json:"breadcrumbs"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// CreatePageInput captures a new page.
type CreatePageInput struct {
	Name      string       `json:"name" validate:"required"`
	Slug      string       `json:"slug"`
	ParentID  *uuid.UUID   `json:"parent_id"`
	Blocks    types.Blocks `json:"blocks"`
	Keywords  []string     `json:"keywords"`
	Published bool         `json:"published"`
}

// UpdatePageInput carries partial page edits.
type UpdatePageInput struct {
	Name      *string      `json:"name"`
	Slug      *string      `json:"slug"`
	Blocks    types.Blocks `json:"blocks"`
	Keywords  []string     `json:"keywords"`
	Published *bool        `json:"published"`
}

// NavigationDTO is the link list for one slot.
type NavigationDTO struct {
	Slot  string         `json:"slot"`
	Links types.NavLinks `json:"links"`
}

// UpsertNavigationInput replaces the link list of one slot.
type UpsertNavigationInput struct {
	Links types.NavLinks `json:"links" validate:"required"`
}

// HomeSectionDTO is one ordered landing-page block.
type HomeSectionDTO struct {
	ID       uuid.UUID   `json:"id"`
	Position int         `json:"position"`
	Block    types.Block `json:"block"`
}

// UpsertHomeSectionInput creates or repositions a landing-page block.
type UpsertHomeSectionInput struct {
	Position int         `json:"position" validate:"gte=0"`
	Block    types.Block `json:"block" validate:"required"`
}

func pageFromModel(m *models.Page, trail []Breadcrumb, path string) *PageDTO {
	if m == nil {
		return nil
	}
	return &PageDTO{
		ID:          m.ID,
		Name:        m.Name,
		Slug:        m.Slug,
		Path:        path,
		Blocks:      m.Blocks,
		Keywords:    m.Keywords,
		Published:   m.Published,
		Breadcrumbs: trail,
		UpdatedAt:   m.UpdatedAt,
	}
}

func navigationFromModel(m *models.Navigation) *NavigationDTO {
	if m == nil {
		return nil
	}
	return &NavigationDTO{Slot: m.Slot, Links: m.Links}
}

func homeSectionFromModel(m *models.HomeSection) HomeSectionDTO {
	return HomeSectionDTO{ID: m.ID, Position: m.Position, Block: m.Block}
}
