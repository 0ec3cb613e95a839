package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/townbasket/townbasket-backend/pkg/db/models"
	"github.com/townbasket/townbasket-backend/pkg/enums"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	items := `
CREATE TABLE IF NOT EXISTS catalog_items (
  id TEXT PRIMARY KEY,
  merchant_id TEXT NOT NULL,
  name TEXT NOT NULL,
  image_ref TEXT,
  unit_price_cents INTEGER NOT NULL,
  list_price_cents INTEGER NOT NULL,
  line_type TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(items).Error)
	return db
}

func seedItem(t *testing.T, db *gorm.DB, item *models.CatalogItem) {
	t.Helper()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	require.NoError(t, db.Create(item).Error)
}

func TestMenuExcludesInactiveItems(t *testing.T) {
	db := setupCatalogTestDB(t)
	merchantID := uuid.New()

	seedItem(t, db, &models.CatalogItem{
		MerchantID: merchantID, Name: "Masala Dosa",
		UnitPriceCents: 9000, ListPriceCents: 9000,
		LineType: enums.LineTypeFood, IsActive: true,
	})
	// IsActive false must persist as false, not fall back to a column default.
	seedItem(t, db, &models.CatalogItem{
		MerchantID: merchantID, Name: "Seasonal Thali",
		UnitPriceCents: 18000, ListPriceCents: 20000,
		LineType: enums.LineTypeFood, IsActive: false,
	})

	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	rows, err := svc.Menu(context.Background(), merchantID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Masala Dosa", rows[0].Name)
}

func TestGetItemReturnsInactiveRow(t *testing.T) {
	db := setupCatalogTestDB(t)
	item := &models.CatalogItem{
		MerchantID: uuid.New(), Name: "Seasonal Thali",
		UnitPriceCents: 18000, ListPriceCents: 20000,
		LineType: enums.LineTypeFood, IsActive: false,
	}
	seedItem(t, db, item)

	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	got, err := svc.GetItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}
