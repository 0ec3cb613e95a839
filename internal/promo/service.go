package promo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/townbasket/townbasket-backend/pkg/db/models"
	"github.com/townbasket/townbasket-backend/pkg/enums"
	pkgerrors "github.com/townbasket/townbasket-backend/pkg/errors"
)

// Service evaluates promo codes against a cart subtotal.
type Service interface {
	Evaluate(ctx context.Context, code string, subtotalCents int) (int, error)
	ListActive(ctx context.Context) ([]models.Promo, error)
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService builds the promo service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promo repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// Evaluate returns the discount in cents for the code, or PROMO_REJECTED
// with the reason. The discount never exceeds the subtotal.
func (s *service) Evaluate(ctx context.Context, code string, subtotalCents int) (int, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return 0, pkgerrors.New(pkgerrors.CodePromoRejected, "promo code is required")
	}
	if subtotalCents <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodePromoRejected, "cart has nothing to discount")
	}

	promo, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.New(pkgerrors.CodePromoRejected, "unknown promo code")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promo")
	}

	if !promo.Active {
		return 0, pkgerrors.New(pkgerrors.CodePromoRejected, "promo is no longer active")
	}
	if promo.ExpiresAt != nil && s.now().After(*promo.ExpiresAt) {
		return 0, pkgerrors.New(pkgerrors.CodePromoRejected, "promo has expired")
	}
	if subtotalCents < promo.MinSubtotalCents {
		return 0, pkgerrors.New(pkgerrors.CodePromoRejected, "cart subtotal below promo minimum").
			WithDetails(map[string]any{"min_subtotal_cents": promo.MinSubtotalCents})
	}

	discount := discountFor(promo, subtotalCents)
	if discount <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodePromoRejected, "promo yields no discount")
	}
	return discount, nil
}

func (s *service) ListActive(ctx context.Context) ([]models.Promo, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list promos")
	}
	return rows, nil
}

func discountFor(promo *models.Promo, subtotalCents int) int {
	var discount int
	switch promo.ValueType {
	case enums.PromoValueTypePercentage:
		discount = int(decimal.NewFromInt(int64(subtotalCents)).
			Mul(decimal.NewFromInt(int64(promo.Value))).
			Div(decimal.NewFromInt(100)).
			Round(0).IntPart())
	case enums.PromoValueTypeFixed:
		discount = promo.Value
	default:
		return 0
	}

	if promo.MaxDiscountCents != nil && discount > *promo.MaxDiscountCents {
		discount = *promo.MaxDiscountCents
	}
	if discount > subtotalCents {
		discount = subtotalCents
	}
	return discount
}
