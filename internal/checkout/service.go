package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/townbasket/townbasket-backend/internal/cart"
	"github.com/townbasket/townbasket-backend/internal/orders"
	"github.com/townbasket/townbasket-backend/pkg/db/models"
	"github.com/townbasket/townbasket-backend/pkg/enums"
	pkgerrors "github.com/townbasket/townbasket-backend/pkg/errors"
	"github.com/townbasket/townbasket-backend/pkg/logger"
	"github.com/townbasket/townbasket-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartViewer interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*cart.View, error)
}

type addressSelector interface {
	Selected(ctx context.Context, userID uuid.UUID) (*models.Address, error)
}

type pointsDebitor interface {
	Debit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int, orderID uuid.UUID) error
}

type notifier interface {
	Record(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, title, message string) error
}

// PlaceInput carries the checkout request. Payment capture is external; the
// order only records how the buyer intends to pay.
type PlaceInput struct {
	PaymentMethod enums.PaymentMethod
}

// Service turns a checkout-eligible cart into an order.
type Service interface {
	Place(ctx context.Context, userID uuid.UUID, input PlaceInput) (*models.Order, error)
}

// Deps wires the checkout service to its collaborators.
type Deps struct {
	Tx        txRunner
	Carts     cartViewer
	CartRepo  cart.CartRepository
	Orders    *orders.Repository
	Addresses addressSelector
	Rewards   pointsDebitor
	Notifier  notifier
	Metrics   *metrics.CartMetrics
	Logger    *logger.Logger
}

type service struct {
	tx        txRunner
	carts     cartViewer
	cartRepo  cart.CartRepository
	orders    *orders.Repository
	addresses addressSelector
	rewards   pointsDebitor
	notifier  notifier
	metrics   *metrics.CartMetrics
	logg      *logger.Logger
}

// NewService builds the checkout service.
func NewService(deps Deps) (Service, error) {
	if deps.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if deps.Carts == nil {
		return nil, fmt.Errorf("cart viewer required")
	}
	if deps.CartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if deps.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if deps.Addresses == nil {
		return nil, fmt.Errorf("address selector required")
	}
	if deps.Rewards == nil {
		return nil, fmt.Errorf("rewards debitor required")
	}
	if deps.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:        deps.Tx,
		carts:     deps.Carts,
		cartRepo:  deps.CartRepo,
		orders:    deps.Orders,
		addresses: deps.Addresses,
		rewards:   deps.Rewards,
		notifier:  deps.Notifier,
		metrics:   deps.Metrics,
		logg:      deps.Logger,
	}, nil
}

// Place recomputes the summary from the persisted cart, re-checks the gate,
// snapshots the order, burns redeemed points, and marks the cart converted.
// One transaction; nothing survives a failure partway.
func (s *service) Place(ctx context.Context, userID uuid.UUID, input PlaceInput) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	view, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !view.CanCheckout {
		s.metrics.IncCheckout("blocked")
		return nil, blockError(view)
	}

	addr, err := s.addresses.Selected(ctx, userID)
	if err != nil {
		return nil, err
	}
	if addr == nil {
		s.metrics.IncCheckout("blocked")
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no delivery address selected")
	}

	order := buildOrder(view, userID, addr.ID, input.PaymentMethod)

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txOrders := s.orders.WithTx(tx)
		created, err := txOrders.Create(ctx, order)
		if err != nil {
			return err
		}
		if view.Cart.PointsToRedeem > 0 {
			if err := s.rewards.Debit(ctx, tx, userID, view.Cart.PointsToRedeem, created.ID); err != nil {
				return err
			}
		}
		return s.cartRepo.WithTx(tx).UpdateStatus(ctx, view.Cart.ID, userID, enums.CartStatusConverted)
	}); err != nil {
		s.metrics.IncCheckout("failed")
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "place order")
	}

	s.metrics.IncCheckout("placed")
	if err := s.notifier.Record(ctx, userID, enums.NotificationTypeOrderPlaced, "Order placed", "Your order is being prepared"); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "record order notification failed")
	}
	return order, nil
}

func blockError(view *cart.View) error {
	if view.BlockReason == string(enums.BlockReasonNotServiceable) {
		return pkgerrors.New(pkgerrors.CodeNotServiceable, "the selected address is outside the delivery zone")
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "cart is not ready for checkout").
		WithDetails(map[string]any{"block_reason": view.BlockReason, "block_detail": view.BlockDetail})
}

func buildOrder(view *cart.View, userID, addressID uuid.UUID, method enums.PaymentMethod) *models.Order {
	c := view.Cart
	sum := view.Summary

	lines := make([]models.OrderLine, 0, len(c.Lines))
	for i := range c.Lines {
		src := &c.Lines[i]
		lines = append(lines, models.OrderLine{
			ItemID:         src.ItemID,
			Name:           src.Name,
			UnitPriceCents: src.UnitPriceCents,
			ListPriceCents: src.ListPriceCents,
			Quantity:       src.Quantity,
			LineType:       src.LineType,
		})
	}

	var promoCode *string
	if c.PromoCode != nil {
		code := *c.PromoCode
		promoCode = &code
	}

	return &models.Order{
		UserID:              userID,
		MerchantID:          *c.MerchantID,
		AddressID:           addressID,
		Status:              enums.OrderStatusPlaced,
		PaymentMethod:       method,
		SubtotalCents:       sum.SubtotalCents,
		DeliveryFeeCents:    sum.DeliveryFeeCents,
		HandlingFeeCents:    sum.HandlingFeeCents,
		GSTCents:            sum.GSTCents,
		PromoCode:           promoCode,
		PromoDiscountCents:  sum.PromoDiscountCents,
		PointsRedeemed:      c.PointsToRedeem,
		PointsDiscountCents: sum.PointsDiscountCents,
		TipCents:            sum.TipCents,
		DonationCents:       sum.DonationCents,
		TotalCents:          sum.TotalCents,
		DistanceKm:          sum.DistanceKm,
		Note:                c.Note,
		Lines:               lines,
	}
}
