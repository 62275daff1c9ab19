package content

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/farmdirect/farmdirect-backend/pkg/db/models"
	"github.com/farmdirect/farmdirect-backend/pkg/enums"
	"github.com/farmdirect/farmdirect-backend/pkg/types"
)

func setupContentTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	pages := `
CREATE TABLE IF NOT EXISTS pages (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  parent_id TEXT,
  blocks TEXT,
  keywords TEXT,
  published INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	navs := `
CREATE TABLE IF NOT EXISTS navigations (
  id TEXT PRIMARY KEY,
  slot TEXT NOT NULL UNIQUE,
  links TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	sections := `
CREATE TABLE IF NOT EXISTS home_sections (
  id TEXT PRIMARY KEY,
  position INTEGER NOT NULL DEFAULT 0,
  block TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	for _, stmt := range []string{pages, navs, sections} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func TestRepositoryPageHierarchy(t *testing.T) {
	conn := setupContentTestDB(t)
	tx := conn.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	root := &models.Page{
		ID:        uuid.New(),
		Name:      "About",
		Slug:      "about",
		Published: true,
		Blocks:    types.Blocks{{Type: enums.BlockTypeCover, Heading: "About"}},
	}
	require.NoError(t, repo.CreatePage(ctx, root))

	child := &models.Page{
		ID:       uuid.New(),
		Name:     "Team",
		Slug:     "team",
		ParentID: &root.ID,
	}
	require.NoError(t, repo.CreatePage(ctx, child))

	found, err := repo.FindPageBySlug(ctx, "about", nil)
	require.NoError(t, err)
	assert.Equal(t, root.ID, found.ID)
	require.Len(t, found.Blocks, 1)
	assert.Equal(t, enums.BlockTypeCover, found.Blocks[0].Type)

	nested, err := repo.FindPageBySlug(ctx, "team", &root.ID)
	require.NoError(t, err)
	assert.Equal(t, child.ID, nested.ID)

	_, err = repo.FindPageBySlug(ctx, "team", nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	published, err := repo.ListPages(ctx, true)
	require.NoError(t, err)
	assert.Len(t, published, 1)

	all, err := repo.ListPages(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, repo.DeletePage(ctx, root.ID))
	orphan, err := repo.FindPageByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan.ParentID)
}

func TestRepositoryNavigationUpsert(t *testing.T) {
	conn := setupContentTestDB(t)
	tx := conn.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	first := &models.Navigation{
		ID:    uuid.New(),
		Slot:  "header",
		Links: types.NavLinks{{Label: "Home", URL: "/"}},
	}
	require.NoError(t, repo.UpsertNavigation(ctx, first))

	second := &models.Navigation{
		ID:    uuid.New(),
		Slot:  "header",
		Links: types.NavLinks{{Label: "Farms", URL: "/farms"}, {Label: "Cart", URL: "/cart"}},
	}
	require.NoError(t, repo.UpsertNavigation(ctx, second))

	stored, err := repo.FindNavigation(ctx, "header")
	require.NoError(t, err)
	require.Len(t, stored.Links, 2)
	assert.Equal(t, "/farms", stored.Links[0].URL)
}

func TestRepositoryHomeSectionOrdering(t *testing.T) {
	conn := setupContentTestDB(t)
	tx := conn.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	late := &models.HomeSection{
		ID:       uuid.New(),
		Position: 5,
		Block:    types.Block{Type: enums.BlockTypeImage, MediaURL: "https://cdn/farm.jpg"},
	}
	early := &models.HomeSection{
		ID:       uuid.New(),
		Position: 1,
		Block:    types.Block{Type: enums.BlockTypeCover, Heading: "Welcome"},
	}
	require.NoError(t, repo.SaveHomeSection(ctx, late))
	require.NoError(t, repo.SaveHomeSection(ctx, early))

	sections, err := repo.ListHomeSections(ctx)
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, early.ID, sections[0].ID)

	require.NoError(t, repo.DeleteHomeSection(ctx, late.ID))
	assert.ErrorIs(t, repo.DeleteHomeSection(ctx, late.ID), gorm.ErrRecordNotFound)
}
