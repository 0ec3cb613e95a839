package rewards

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/townbasket/townbasket-backend/pkg/config"
	"github.com/townbasket/townbasket-backend/pkg/db/models"
	pkgerrors "github.com/townbasket/townbasket-backend/pkg/errors"
)

// Service manages the user's points balance. One point is worth one cent of
// discount at redemption time.
type Service interface {
	Balance(ctx context.Context, userID uuid.UUID) (int, error)
	Evaluate(ctx context.Context, userID uuid.UUID, amountCents, subtotalCents int) error
	Debit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int, orderID uuid.UUID) error
	Credit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int, reason string, orderID *uuid.UUID) error
}

type service struct {
	repo *Repository
	cfg  config.RewardsConfig
}

// NewService builds the rewards service.
func NewService(repo *Repository, cfg config.RewardsConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("rewards repository required")
	}
	return &service{repo: repo, cfg: cfg}, nil
}

// Balance returns the user's available points; a user without an account
// has zero.
func (s *service) Balance(ctx context.Context, userID uuid.UUID) (int, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	account, err := s.repo.FindAccountByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load points account")
	}
	return account.Balance, nil
}

// Evaluate enforces the redemption preconditions without mutating anything:
// subtotal at or above the unlock threshold, amount within the balance, and
// amount within floor(subtotal x max fraction).
func (s *service) Evaluate(ctx context.Context, userID uuid.UUID, amountCents, subtotalCents int) error {
	if amountCents <= 0 {
		return pkgerrors.New(pkgerrors.CodeRedeemRejected, "redemption amount must be positive")
	}
	if subtotalCents < s.cfg.RedeemUnlockThresholdCents {
		return pkgerrors.New(pkgerrors.CodeRedeemRejected, "cart subtotal below redemption threshold").
			WithDetails(map[string]any{"unlock_threshold_cents": s.cfg.RedeemUnlockThresholdCents})
	}

	cap := RedeemCap(subtotalCents, s.cfg.MaxRedeemFraction)
	if amountCents > cap {
		return pkgerrors.New(pkgerrors.CodeRedeemRejected, "redemption exceeds the allowed fraction of the subtotal").
			WithDetails(map[string]any{"max_redeemable_cents": cap})
	}

	balance, err := s.Balance(ctx, userID)
	if err != nil {
		return err
	}
	if amountCents > balance {
		return pkgerrors.New(pkgerrors.CodeRedeemRejected, "not enough points available")
	}
	return nil
}

// Debit burns points inside the caller's transaction; used at checkout.
func (s *service) Debit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int, orderID uuid.UUID) error {
	if amount <= 0 {
		return nil
	}
	txRepo := s.repo.WithTx(tx)
	account, err := txRepo.FindAccountByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeRedeemRejected, "no points account")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load points account")
	}
	if account.Balance < amount {
		return pkgerrors.New(pkgerrors.CodeRedeemRejected, "not enough points available")
	}
	entry := &models.PointsEntry{Delta: -amount, Reason: "order_redemption", OrderID: &orderID}
	return txRepo.AppendEntry(ctx, account, entry)
}

// Credit grants points, creating the account on first use.
func (s *service) Credit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int, reason string, orderID *uuid.UUID) error {
	if amount <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "credit amount must be positive")
	}
	txRepo := s.repo.WithTx(tx)
	account, err := txRepo.FindAccountByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		account, err = txRepo.CreateAccount(ctx, &models.PointsAccount{UserID: userID})
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load points account")
	}
	entry := &models.PointsEntry{Delta: amount, Reason: reason, OrderID: orderID}
	return txRepo.AppendEntry(ctx, account, entry)
}

// RedeemCap returns floor(subtotal x fraction) in cents.
func RedeemCap(subtotalCents int, fraction float64) int {
	return int(decimal.NewFromInt(int64(subtotalCents)).
		Mul(decimal.NewFromFloat(fraction)).
		Floor().IntPart())
}
