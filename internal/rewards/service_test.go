package rewards

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/townbasket/townbasket-backend/pkg/config"
	"github.com/townbasket/townbasket-backend/pkg/db/models"
	pkgerrors "github.com/townbasket/townbasket-backend/pkg/errors"
)

func setupRewardsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	accounts := `
CREATE TABLE IF NOT EXISTS points_accounts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  balance INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	entries := `
CREATE TABLE IF NOT EXISTS points_entries (
  id TEXT PRIMARY KEY,
  account_id TEXT NOT NULL,
  delta INTEGER NOT NULL,
  reason TEXT NOT NULL,
  order_id TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(accounts).Error)
	require.NoError(t, db.Exec(entries).Error)
	return db
}

func testRewardsConfig() config.RewardsConfig {
	return config.RewardsConfig{
		RedeemUnlockThresholdCents: 49900,
		MaxRedeemFraction:          0.3,
	}
}

func newRewardsService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), testRewardsConfig())
	require.NoError(t, err)
	return svc
}

func assertRedeemRejected(t *testing.T, err error) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeRedeemRejected, typed.Code())
}

func TestRedeemCap(t *testing.T) {
	// floor(60000 * 0.3) = 18000
	assert.Equal(t, 18000, RedeemCap(60000, 0.3))
	// floor(4999 * 0.3) = floor(1499.7) = 1499
	assert.Equal(t, 1499, RedeemCap(4999, 0.3))
	assert.Zero(t, RedeemCap(0, 0.3))
}

func TestBalance_NoAccountMeansZero(t *testing.T) {
	db := setupRewardsTestDB(t)
	svc := newRewardsService(t, db)

	balance, err := svc.Balance(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestEvaluate_ThresholdAndCap(t *testing.T) {
	db := setupRewardsTestDB(t)
	svc := newRewardsService(t, db)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, svc.Credit(ctx, nil, userID, 30000, "signup_bonus", nil))

	// subtotal below the unlock threshold
	err := svc.Evaluate(ctx, userID, 5000, 40000)
	assertRedeemRejected(t, err)
	typed := pkgerrors.As(err)
	details := typed.Details().(map[string]any)
	assert.Equal(t, 49900, details["unlock_threshold_cents"])

	// 20000 exceeds floor(60000 * 0.3)
	err = svc.Evaluate(ctx, userID, 20000, 60000)
	assertRedeemRejected(t, err)
	typed = pkgerrors.As(err)
	details = typed.Details().(map[string]any)
	assert.Equal(t, 18000, details["max_redeemable_cents"])

	// 15000 is inside the cap and the balance
	require.NoError(t, svc.Evaluate(ctx, userID, 15000, 60000))

	// within the cap but over the balance
	err = svc.Evaluate(ctx, uuid.New(), 15000, 60000)
	assertRedeemRejected(t, err)

	err = svc.Evaluate(ctx, userID, 0, 60000)
	assertRedeemRejected(t, err)
}

func TestCreditAndDebit_MoveTheLedger(t *testing.T) {
	db := setupRewardsTestDB(t)
	svc := newRewardsService(t, db)
	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()

	require.NoError(t, svc.Credit(ctx, nil, userID, 10000, "order_reward", &orderID))
	require.NoError(t, svc.Credit(ctx, nil, userID, 2000, "referral", nil))

	balance, err := svc.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 12000, balance)

	require.NoError(t, svc.Debit(ctx, nil, userID, 5000, orderID))

	balance, err = svc.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 7000, balance)

	var entries []models.PointsEntry
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 3)

	var debit models.PointsEntry
	require.NoError(t, db.Where("delta < 0").First(&debit).Error)
	assert.Equal(t, -5000, debit.Delta)
	assert.Equal(t, "order_redemption", debit.Reason)
	require.NotNil(t, debit.OrderID)
	assert.Equal(t, orderID, *debit.OrderID)
}

func TestDebit_OverBalanceFails(t *testing.T) {
	db := setupRewardsTestDB(t)
	svc := newRewardsService(t, db)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, svc.Credit(ctx, nil, userID, 1000, "signup_bonus", nil))

	err := svc.Debit(ctx, nil, userID, 2000, uuid.New())
	assertRedeemRejected(t, err)

	balance, err := svc.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1000, balance)
}

func TestDebit_NoAccount(t *testing.T) {
	db := setupRewardsTestDB(t)
	svc := newRewardsService(t, db)

	err := svc.Debit(context.Background(), nil, uuid.New(), 100, uuid.New())
	assertRedeemRejected(t, err)
}
