package catalog

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cukedoh/bakery-backend/pkg/db/models"
	"github.com/cukedoh/bakery-backend/pkg/enums"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	cakes := `
CREATE TABLE IF NOT EXISTS cakes (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  image TEXT,
  type TEXT NOT NULL,
  price NUMERIC NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	variants := `
CREATE TABLE IF NOT EXISTS variants (
  id TEXT PRIMARY KEY,
  type TEXT NOT NULL,
  name TEXT NOT NULL,
  image TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	refreshments := `
CREATE TABLE IF NOT EXISTS refreshments (
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
);`
	require.NoError(t, db.Exec(cakes).Error)
	require.NoError(t, db.Exec(variants).Error)
	require.NoError(t, db.Exec(refreshments).Error)
	return db
}

func TestRepositoryFindAndList(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	older := models.Cake{ID: uuid.New(), Name: "Strawberry Shortcake", Type: enums.CakeTypePreset, IsActive: true, CreatedAt: time.Now().Add(-time.Hour)}
	newer := models.Cake{ID: uuid.New(), Name: "Matcha Crepe", Type: enums.CakeTypePreset, IsActive: true, CreatedAt: time.Now()}
	hidden := models.Cake{ID: uuid.New(), Name: "Retired", Type: enums.CakeTypePreset, IsActive: false, CreatedAt: time.Now()}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)
	require.NoError(t, db.Create(&hidden).Error)

	got, err := repo.FindCake(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "Strawberry Shortcake", got.Name)

	_, err = repo.FindCake(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	listed, err := repo.ListCakes(ctx, enums.CakeTypePreset)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, older.ID, listed[0].ID, "expected oldest first")
}

func TestRepositoryFindRefreshments(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	croissant := models.Refreshment{ID: uuid.New(), Name: "Croissant", Category: enums.RefreshmentBakery, IsActive: true}
	tea := models.Refreshment{ID: uuid.New(), Name: "Thai Tea", Category: enums.RefreshmentBeverage, IsActive: true}
	require.NoError(t, db.Create(&croissant).Error)
	require.NoError(t, db.Create(&tea).Error)

	found, err := repo.FindRefreshments(ctx, []uuid.UUID{croissant.ID, tea.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	none, err := repo.FindRefreshments(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
