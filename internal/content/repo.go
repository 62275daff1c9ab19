package content

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/farmdirect/farmdirect-backend/pkg/db/models"
)

// Repository is the GORM-backed content repository covering pages,
// navigation slots, and home sections.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a content repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// CreatePage inserts a page.
func (r *Repository) CreatePage(ctx context.Context, page *models.Page) error {
	return r.db.WithContext(ctx).Create(page).Error
}

// FindPageByID loads one page.
func (r *Repository) FindPageByID(ctx context.Context, id uuid.UUID) (*models.Page, error) {
	var page models.Page
	err := r.db.WithContext(ctx).First(&page, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// FindPageBySlug resolves one nesting level: the page with the given
// slug under the given parent (nil parent means a root page).
func (r *Repository) FindPageBySlug(ctx context.Context, slug string, parentID *uuid.UUID) (*models.Page, error) {
	q := r.db.WithContext(ctx).Where("slug = ?", slug)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	var page models.Page
	if err := q.First(&page).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

// ListPages returns pages, optionally only published ones.
func (r *Repository) ListPages(ctx context.Context, publishedOnly bool) ([]models.Page, error) {
	q := r.db.WithContext(ctx).Order("name asc")
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	var pages []models.Page
	if err := q.Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

// UpdatePage persists the full page row.
func (r *Repository) UpdatePage(ctx context.Context, page *models.Page) error {
	return r.db.WithContext(ctx).Save(page).Error
}

// DeletePage removes a page. Children are re-rooted rather than
// deleted so admin mistakes do not cascade through a subtree.
func (r *Repository) DeletePage(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Page{}).
		Where("parent_id = ?", id).
		Update("parent_id", nil).Error; err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Delete(&models.Page{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindNavigation loads the link list for one slot.
func (r *Repository) FindNavigation(ctx context.Context, slot string) (*models.Navigation, error) {
	var nav models.Navigation
	err := r.db.WithContext(ctx).First(&nav, "slot = ?", slot).Error
	if err != nil {
		return nil, err
	}
	return &nav, nil
}

// UpsertNavigation replaces the link list for one slot.
func (r *Repository) UpsertNavigation(ctx context.Context, nav *models.Navigation) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot"}},
			DoUpdates: clause.AssignmentColumns([]string{"links", "updated_at"}),
		}).
		Create(nav).Error
}

// ListHomeSections returns landing-page sections in display order.
func (r *Repository) ListHomeSections(ctx context.Context) ([]models.HomeSection, error) {
	var sections []models.HomeSection
	err := r.db.WithContext(ctx).
		Order("position asc, created_at asc").
		Find(&sections).Error
	if err != nil {
		return nil, err
	}
	return sections, nil
}

// SaveHomeSection creates or updates one section.
func (r *Repository) SaveHomeSection(ctx context.Context, section *models.HomeSection) error {
	return r.db.WithContext(ctx).Save(section).Error
}

// DeleteHomeSection removes one section.
func (r *Repository) DeleteHomeSection(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.HomeSection{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
