package cart

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cukedoh/bakery-backend/internal/catalog"
	"github.com/cukedoh/bakery-backend/pkg/config"
	"github.com/cukedoh/bakery-backend/pkg/db/models"
	"github.com/cukedoh/bakery-backend/pkg/enums"
	pkgerrors "github.com/cukedoh/bakery-backend/pkg/errors"
	"github.com/cukedoh/bakery-backend/pkg/storage"
)

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS cakes (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  image TEXT,
  type TEXT NOT NULL,
  price NUMERIC NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS variants (
  id TEXT PRIMARY KEY,
  type TEXT NOT NULL,
  name TEXT NOT NULL,
  image TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS refreshments (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  description TEXT,
  image TEXT,
  price NUMERIC NOT NULL,
  units_per_item INTEGER NOT NULL DEFAULT 1,
  stock_status TEXT NOT NULL DEFAULT 'IN_STOCK',
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL UNIQUE,
  owner_kind TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  kind TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  cake_id TEXT,
  cake_message TEXT,
  size_id TEXT,
  base_id TEXT,
  filling_id TEXT,
  cream_id TEXT,
  top_edge_id TEXT,
  bottom_edge_id TEXT,
  decoration_id TEXT,
  surface_id TEXT,
  cream_color TEXT,
  top_edge_color TEXT,
  bottom_edge_color TEXT,
  refreshment_id TEXT,
  package_type TEXT,
  beverage TEXT,
  refreshment_ids TEXT,
  note TEXT,
  unit_price NUMERIC,
  created_at DATETIME,
  updated_at DATETIME
);`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

func newCartService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	catalogSvc, err := catalog.NewService(catalog.NewRepository(db))
	require.NoError(t, err)

	images := storage.NewResolver(config.StorageConfig{ImageBaseURL: "https://cdn.test/bakery"})
	cfg := config.PricingConfig{
		Currency:           "thb",
		CustomCakeUnitRate: "342",
		DeliveryFee:        "130",
		PaperBagFee:        "0",
		SnackBoxSFee:       "20",
		SnackBoxMFee:       "30",
	}

	svc, err := NewService(NewRepository(db), testTxRunner{db: db}, catalogSvc, images, cfg)
	require.NoError(t, err)
	return svc
}

func seedPresetCake(t *testing.T, db *gorm.DB, name string, price string) *models.Cake {
	t.Helper()
	cake := &models.Cake{
		ID:       uuid.New(),
		Name:     name,
		Type:     enums.CakeTypePreset,
		Price:    decimal.RequireFromString(price),
		IsActive: true,
	}
	require.NoError(t, db.Create(cake).Error)
	return cake
}

func seedCustomCake(t *testing.T, db *gorm.DB) *models.Cake {
	t.Helper()
	cake := &models.Cake{ID: uuid.New(), Name: "Design Your Own", Type: enums.CakeTypeCustom, IsActive: true}
	require.NoError(t, db.Create(cake).Error)
	return cake
}

func seedVariant(t *testing.T, db *gorm.DB, axis enums.VariantType, name string) *models.Variant {
	t.Helper()
	variant := &models.Variant{ID: uuid.New(), Type: axis, Name: name, IsActive: true}
	require.NoError(t, db.Create(variant).Error)
	return variant
}

func seedRefreshment(t *testing.T, db *gorm.DB, name, price string) *models.Refreshment {
	t.Helper()
	refreshment := &models.Refreshment{
		ID:       uuid.New(),
		Name:     name,
		Category: enums.RefreshmentBakery,
		Price:    decimal.RequireFromString(price),
		IsActive: true,
	}
	require.NoError(t, db.Create(refreshment).Error)
	return refreshment
}

func member(id string) Owner {
	return Owner{ID: id, Kind: enums.OwnerMember}
}

func TestAddPresetCakeMergesSameCake(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()

	cake := seedPresetCake(t, db, "Chocolate Fudge", "450")

	got, err := svc.AddPresetCake(ctx, member("u1"), AddPresetCakeInput{CakeID: cake.ID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)

	got, err = svc.AddPresetCake(ctx, member("u1"), AddPresetCakeInput{CakeID: cake.ID, Quantity: 3})
	require.NoError(t, err)
	require.Len(t, got.Lines, 1, "same cake must merge, never append")
	assert.Equal(t, 5, got.Lines[0].Quantity)
	assert.True(t, got.Lines[0].UnitPrice.Equal(decimal.NewFromInt(450)))
	assert.True(t, got.Lines[0].LinePrice.Equal(decimal.NewFromInt(2250)))
}

func TestAddPresetCakeUnknownIsNotFound(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)

	_, err := svc.AddPresetCake(context.Background(), member("u1"), AddPresetCakeInput{CakeID: uuid.New(), Quantity: 1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	// No cart may be created as a side effect of a failed add.
	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAddCustomCakePricesFromSizeName(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()

	cake := seedCustomCake(t, db)
	sizeTwo := seedVariant(t, db, enums.VariantSize, "2")

	got, err := svc.AddCustomCake(ctx, member("u1"), AddCustomCakeInput{
		CakeID:   cake.ID,
		SizeID:   sizeTwo.ID,
		Quantity: 1,
	})
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.True(t, got.Lines[0].UnitPrice.Equal(decimal.NewFromInt(684)), "got %s", got.Lines[0].UnitPrice)

	detail, ok := got.Lines[0].Detail.(CustomCakeDetail)
	require.True(t, ok)
	require.NotNil(t, detail.Size)
	assert.Equal(t, "2", detail.Size.Name)
	assert.Nil(t, detail.Decoration)
}

func TestAddCustomCakeNonNumericSize(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)

	cake := seedCustomCake(t, db)
	size := seedVariant(t, db, enums.VariantSize, "Large")

	_, err := svc.AddCustomCake(context.Background(), member("u1"), AddCustomCakeInput{
		CakeID:   cake.ID,
		SizeID:   size.ID,
		Quantity: 1,
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestAddCustomCakeDistinctnessOnSingleAxis(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()

	cake := seedCustomCake(t, db)
	size := seedVariant(t, db, enums.VariantSize, "1")
	base := seedVariant(t, db, enums.VariantBase, "Vanilla Sponge")
	ribbon := seedVariant(t, db, enums.VariantDecoration, "Ribbon")
	flowers := seedVariant(t, db, enums.VariantDecoration, "Sugar Flowers")

	common := AddCustomCakeInput{CakeID: cake.ID, SizeID: size.ID, BaseID: &base.ID, Quantity: 1}

	first := common
	first.DecorationID = &ribbon.ID
	got, err := svc.AddCustomCake(ctx, member("u1"), first)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)

	// Identical selection merges.
	got, err = svc.AddCustomCake(ctx, member("u1"), first)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 2, got.Lines[0].Quantity)

	// One differing axis appends.
	second := common
	second.DecorationID = &flowers.ID
	got, err = svc.AddCustomCake(ctx, member("u1"), second)
	require.NoError(t, err)
	assert.Len(t, got.Lines, 2)
}

func TestAddCustomCakeNilAndAbsentAxisAreSameKey(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()

	cake := seedCustomCake(t, db)
	size := seedVariant(t, db, enums.VariantSize, "1")

	got, err := svc.AddCustomCake(ctx, member("u1"), AddCustomCakeInput{CakeID: cake.ID, SizeID: size.ID, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)

	// uuid.Nil arriving where nil means "unset" must hit the same merge key.
	nilID := uuid.Nil
	got, err = svc.AddCustomCake(ctx, member("u1"), AddCustomCakeInput{
		CakeID: cake.ID, SizeID: size.ID, BaseID: &nilID, Quantity: 2,
	})
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 3, got.Lines[0].Quantity)
}

func TestAddRefreshmentAndSnackBox(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()

	croissant := seedRefreshment(t, db, "Croissant", "25.50")
	tea := seedRefreshment(t, db, "Thai Tea", "30")

	got, err := svc.AddRefreshment(ctx, member("u1"), AddRefreshmentInput{RefreshmentID: croissant.ID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.True(t, got.Lines[0].LinePrice.Equal(decimal.RequireFromString("51")))

	got, err = svc.AddSnackBox(ctx, member("u1"), AddSnackBoxInput{
		PackageType:    enums.PackageSnackBoxS,
		Beverage:       enums.BeverageInclude,
		RefreshmentIDs: []uuid.UUID{croissant.ID, tea.ID},
		Quantity:       1,
	})
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)

	box := got.Lines[1]
	assert.Equal(t, enums.CartItemSnackBox, box.Kind)
	// 25.50 + 30 + 20 package fee
	assert.True(t, box.UnitPrice.Equal(decimal.RequireFromString("75.5")), "got %s", box.UnitPrice)

	detail, ok := box.Detail.(SnackBoxDetail)
	require.True(t, ok)
	assert.Len(t, detail.Contents, 2)

	// Same composition merges even with contents reordered.
	got, err = svc.AddSnackBox(ctx, member("u1"), AddSnackBoxInput{
		PackageType:    enums.PackageSnackBoxS,
		Beverage:       enums.BeverageInclude,
		RefreshmentIDs: []uuid.UUID{tea.ID, croissant.ID},
		Quantity:       2,
	})
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, 3, got.Lines[1].Quantity)

	// Different package appends.
	got, err = svc.AddSnackBox(ctx, member("u1"), AddSnackBoxInput{
		PackageType:    enums.PackageSnackBoxM,
		Beverage:       enums.BeverageInclude,
		RefreshmentIDs: []uuid.UUID{croissant.ID, tea.ID},
		Quantity:       1,
	})
	require.NoError(t, err)
	assert.Len(t, got.Lines, 3)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()

	cake := seedPresetCake(t, db, "Chocolate Fudge", "450")
	got, err := svc.AddPresetCake(ctx, member("u1"), AddPresetCakeInput{CakeID: cake.ID, Quantity: 2})
	require.NoError(t, err)
	itemID := got.Lines[0].ItemID

	got, err = svc.UpdateQuantity(ctx, member("u1"), itemID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Lines[0].Quantity)

	got, err = svc.UpdateQuantity(ctx, member("u1"), itemID, 0)
	require.NoError(t, err)
	assert.Empty(t, got.Lines)

	// The row is gone, not zeroed.
	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateQuantityUnknownItem(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()

	_, err := svc.UpdateQuantity(ctx, member("u1"), uuid.New(), 1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "no cart yet")

	cake := seedPresetCake(t, db, "Chocolate Fudge", "450")
	_, err = svc.AddPresetCake(ctx, member("u1"), AddPresetCakeInput{CakeID: cake.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(ctx, member("u1"), uuid.New(), 1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "unknown item id")
}

func TestMaterializeDropsVanishedRefreshment(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()

	croissant := seedRefreshment(t, db, "Croissant", "25.50")
	tea := seedRefreshment(t, db, "Thai Tea", "30")

	_, err := svc.AddRefreshment(ctx, member("u1"), AddRefreshmentInput{RefreshmentID: croissant.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddRefreshment(ctx, member("u1"), AddRefreshmentInput{RefreshmentID: tea.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, db.Delete(&models.Refreshment{}, "id = ?", croissant.ID).Error)

	got, err := svc.GetMaterializedCart(ctx, member("u1"))
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "Thai Tea", got.Lines[0].Name)
}

func TestMaterializeVanishedCakeIsConflict(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()

	cake := seedPresetCake(t, db, "Chocolate Fudge", "450")
	_, err := svc.AddPresetCake(ctx, member("u1"), AddPresetCakeInput{CakeID: cake.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, db.Delete(&models.Cake{}, "id = ?", cake.ID).Error)

	_, err = svc.GetMaterializedCart(ctx, member("u1"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestGetMaterializedCartWithoutCart(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)

	got, err := svc.GetMaterializedCart(context.Background(), member("nobody"))
	require.NoError(t, err)
	assert.True(t, got.Empty())
	assert.Equal(t, "nobody", got.OwnerID)
}

func TestClearCart(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()

	cake := seedPresetCake(t, db, "Chocolate Fudge", "450")
	_, err := svc.AddPresetCake(ctx, member("u1"), AddPresetCakeInput{CakeID: cake.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(ctx, "u1"))
	require.NoError(t, svc.ClearCart(ctx, "u1"), "clearing twice is fine")

	got, err := svc.GetMaterializedCart(ctx, member("u1"))
	require.NoError(t, err)
	assert.True(t, got.Empty())
}
