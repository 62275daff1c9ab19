package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/farmdirect/farmdirect-backend/pkg/db/models"
	"github.com/farmdirect/farmdirect-backend/pkg/enums"
	pkgerrors "github.com/farmdirect/farmdirect-backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  product_type TEXT NOT NULL,
  image_media_id TEXT,
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	carts := `
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  farm_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);`
	items := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit TEXT NOT NULL,
  price_snapshot TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	for _, stmt := range []string{products, carts, items} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func mustCreateCartProduct(t *testing.T, tx *gorm.DB, name string) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:          uuid.New(),
		Name:        name,
		ProductType: enums.ProductTypeProduce,
	}
	require.NoError(t, tx.Create(product).Error)
	return product
}

func TestRepositoryCartFlow(t *testing.T) {
	conn := setupCartTestDB(t)
	tx := conn.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	userID := uuid.New()
	farmID := uuid.New()
	carrots := mustCreateCartProduct(t, tx, "Carrots")

	cart := &models.Cart{ID: uuid.New(), UserID: userID, FarmID: farmID}
	require.NoError(t, repo.Create(ctx, cart))
	assert.Equal(t, enums.CartStatusActive, cart.Status)

	item := &models.CartItem{
		ID:            uuid.New(),
		CartID:        cart.ID,
		ProductID:     carrots.ID,
		Quantity:      2,
		Unit:          "kg",
		PriceSnapshot: decimal.NewFromFloat(2.50),
	}
	require.NoError(t, repo.SaveItem(ctx, item))

	found, err := repo.FindActiveByUserAndFarm(ctx, userID, farmID, false)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, 2, found.Items[0].Quantity)
	require.NotNil(t, found.Items[0].Product)
	assert.Equal(t, "Carrots", found.Items[0].Product.Name)

	found.Items[0].Quantity = 5
	require.NoError(t, repo.SaveItem(ctx, &found.Items[0]))
	again, err := repo.FindActiveByUserAndFarm(ctx, userID, farmID, false)
	require.NoError(t, err)
	assert.Equal(t, 5, again.Items[0].Quantity)

	all, err := repo.FindActiveByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, farmID, all[0].FarmID)

	byID, err := repo.FindByID(ctx, cart.ID, false)
	require.NoError(t, err)
	assert.Equal(t, userID, byID.UserID)
	require.Len(t, byID.Items, 1)

	require.NoError(t, repo.DeleteItem(ctx, item.ID))
	empty, err := repo.FindActiveByUserAndFarm(ctx, userID, farmID, false)
	require.NoError(t, err)
	assert.Len(t, empty.Items, 0)

	require.NoError(t, repo.DeleteCart(ctx, cart.ID))
	_, err = repo.FindActiveByUserAndFarm(ctx, userID, farmID, false)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryDeleteCartRemovesItems(t *testing.T) {
	conn := setupCartTestDB(t)
	tx := conn.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	userID := uuid.New()
	beets := mustCreateCartProduct(t, tx, "Beets")

	cart := &models.Cart{ID: uuid.New(), UserID: userID, FarmID: uuid.New()}
	require.NoError(t, repo.Create(ctx, cart))
	require.NoError(t, repo.SaveItem(ctx, &models.CartItem{
		ID:            uuid.New(),
		CartID:        cart.ID,
		ProductID:     beets.ID,
		Quantity:      1,
		Unit:          "bunch",
		PriceSnapshot: decimal.NewFromFloat(1.25),
	}))

	require.NoError(t, repo.DeleteCart(ctx, cart.ID))

	var orphans int64
	require.NoError(t, tx.Model(&models.CartItem{}).
		Where("cart_id = ?", cart.ID).
		Count(&orphans).Error)
	assert.Zero(t, orphans)
}

func TestAddItemOverStockFirstAddLeavesNoCart(t *testing.T) {
	conn := setupCartTestDB(t)

	repo := NewRepository(conn)
	farms := newStubFarms()
	products := &stubProducts{products: map[uuid.UUID]*models.Product{}}
	svc, err := NewService(repo, gormTxRunner{db: conn}, farms, products)
	require.NoError(t, err)

	customer := customerPrincipal()
	farm := farms.addFarm("Green Acres")
	carrots := mustCreateCartProduct(t, conn, "Carrots")
	farms.addOffer(farm, carrots, 2, 1, "2.50")

	// The cart row is created before the stock check; the transaction
	// must roll it back so no empty cart survives the failed add.
	_, err = svc.AddItem(context.Background(), customer, AddItemInput{
		FarmID:    farm.ID,
		ProductID: carrots.ID,
		Quantity:  3,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	var count int64
	require.NoError(t, conn.Model(&models.Cart{}).
		Where("user_id = ?", customer.UserID).
		Count(&count).Error)
	assert.Zero(t, count)
}

func TestRepositoryIgnoresInactiveCarts(t *testing.T) {
	conn := setupCartTestDB(t)
	tx := conn.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	userID := uuid.New()
	farmID := uuid.New()
	ordered := &models.Cart{
		ID:     uuid.New(),
		UserID: userID,
		FarmID: farmID,
		Status: enums.CartStatusOrdered,
	}
	require.NoError(t, repo.Create(ctx, ordered))

	_, err := repo.FindActiveByUserAndFarm(ctx, userID, farmID, false)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	all, err := repo.FindActiveByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, all, 0)
}
