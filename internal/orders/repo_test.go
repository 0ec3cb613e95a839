package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/townbasket/townbasket-backend/pkg/db/models"
	"github.com/townbasket/townbasket-backend/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  merchant_id TEXT NOT NULL,
  address_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'placed',
  payment_method TEXT NOT NULL,
  subtotal_cents INTEGER NOT NULL,
  delivery_fee_cents INTEGER NOT NULL,
  handling_fee_cents INTEGER NOT NULL DEFAULT 0,
  gst_cents INTEGER NOT NULL DEFAULT 0,
  promo_code TEXT,
  promo_discount_cents INTEGER NOT NULL DEFAULT 0,
  points_redeemed INTEGER NOT NULL DEFAULT 0,
  points_discount_cents INTEGER NOT NULL DEFAULT 0,
  tip_cents INTEGER NOT NULL DEFAULT 0,
  donation_cents INTEGER NOT NULL DEFAULT 0,
  total_cents INTEGER NOT NULL,
  distance_km REAL NOT NULL DEFAULT 0,
  note TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderLines := `
CREATE TABLE IF NOT EXISTS order_lines (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  item_id TEXT NOT NULL,
  name TEXT NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  list_price_cents INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  line_type TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderLines).Error)
	return db
}

func placedOrder(userID uuid.UUID, total int, created time.Time) *models.Order {
	return &models.Order{
		UserID:        userID,
		MerchantID:    uuid.New(),
		AddressID:     uuid.New(),
		Status:        enums.OrderStatusPlaced,
		PaymentMethod: enums.PaymentMethodCOD,
		SubtotalCents: total,
		TotalCents:    total,
		CreatedAt:     created,
		UpdatedAt:     created,
		Lines: []models.OrderLine{
			{
				ItemID:         uuid.New(),
				Name:           "Masala Dosa",
				UnitPriceCents: total,
				ListPriceCents: total,
				Quantity:       1,
				LineType:       enums.LineTypeFood,
				CreatedAt:      created,
			},
		},
	}
}

func TestRepositoryCreateAndFind(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	created, err := repo.Create(ctx, placedOrder(userID, 25000, time.Now().UTC()))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	require.Len(t, created.Lines, 1)
	assert.Equal(t, created.ID, created.Lines[0].OrderID)

	found, err := repo.FindByIDAndUser(ctx, created.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, 25000, found.TotalCents)
	require.Len(t, found.Lines, 1)
	assert.Equal(t, "Masala Dosa", found.Lines[0].Name)

	_, err = repo.FindByIDAndUser(ctx, created.ID, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListByUser_pagination(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := repo.Create(ctx, placedOrder(userID, 1000*(i+1), base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	first, cursor, err := repo.ListByUser(ctx, userID, 3, nil)
	require.NoError(t, err)
	require.Len(t, first, 3)
	require.NotNil(t, cursor)
	assert.Equal(t, 5000, first[0].TotalCents)

	second, cursor, err := repo.ListByUser(ctx, userID, 3, cursor)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Nil(t, cursor)
	assert.Equal(t, 1000, second[1].TotalCents)
}

func TestRepositoryUpdateStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	created, err := repo.Create(ctx, placedOrder(userID, 9900, time.Now().UTC()))
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, created.ID, enums.OrderStatusDelivered))

	found, err := repo.FindByIDAndUser(ctx, created.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDelivered, found.Status)
}
