package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/townbasket/townbasket-backend/internal/address"
	"github.com/townbasket/townbasket-backend/pkg/config"
	"github.com/townbasket/townbasket-backend/pkg/db/models"
	"github.com/townbasket/townbasket-backend/pkg/enums"
	pkgerrors "github.com/townbasket/townbasket-backend/pkg/errors"
	"github.com/townbasket/townbasket-backend/pkg/logger"
	"github.com/townbasket/townbasket-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type merchantLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error)
}

type catalogLoader interface {
	GetItem(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error)
}

type addressSelector interface {
	Selected(ctx context.Context, userID uuid.UUID) (*models.Address, error)
}

type quoteProvider interface {
	Quote(ctx context.Context, merchant *models.Merchant, addr *models.Address) (*address.Quote, error)
}

type promoEvaluator interface {
	Evaluate(ctx context.Context, code string, subtotalCents int) (int, error)
}

type redeemEvaluator interface {
	Evaluate(ctx context.Context, userID uuid.UUID, amountCents, subtotalCents int) error
}

type notifier interface {
	Record(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, title, message string) error
}

// View is what the API layer renders: the cart, its derived summary, and the
// checkout gate. The summary is recomputed from the persisted cart on every
// call, never cached.
type View struct {
	Cart        *models.Cart `json:"cart"`
	Summary     Summary      `json:"summary"`
	CanCheckout bool         `json:"can_checkout"`
	BlockReason string       `json:"block_reason,omitempty"`
	BlockDetail string       `json:"block_detail,omitempty"`
}

// Service exposes the cart engine operations.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*View, error)
	AddItem(ctx context.Context, userID, itemID uuid.UUID, qty int) (*View, error)
	ConfirmReplace(ctx context.Context, userID uuid.UUID) (*View, error)
	CancelReplace(ctx context.Context, userID uuid.UUID) (*View, error)
	RemoveItem(ctx context.Context, userID, lineID uuid.UUID) (*View, error)
	SetQuantity(ctx context.Context, userID, lineID uuid.UUID, qty int) (*View, error)
	ApplyPromo(ctx context.Context, userID uuid.UUID, code string) (*View, error)
	ClearPromo(ctx context.Context, userID uuid.UUID) (*View, error)
	RedeemPoints(ctx context.Context, userID uuid.UUID, amount int) (*View, error)
	ClearPoints(ctx context.Context, userID uuid.UUID) (*View, error)
	SetTip(ctx context.Context, userID uuid.UUID, amount int) (*View, error)
	SetDonation(ctx context.Context, userID uuid.UUID, amount int) (*View, error)
	SetNote(ctx context.Context, userID uuid.UUID, note string) (*View, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// Deps wires the cart service to its collaborators.
type Deps struct {
	Repo      CartRepository
	Tx        txRunner
	Merchants merchantLoader
	Catalog   catalogLoader
	Addresses addressSelector
	Quotes    quoteProvider
	Promos    promoEvaluator
	Rewards   redeemEvaluator
	Notifier  notifier
	Metrics   *metrics.CartMetrics
	Pricing   config.PricingConfig
	Logger    *logger.Logger
}

type service struct {
	repo      CartRepository
	tx        txRunner
	merchants merchantLoader
	catalog   catalogLoader
	addresses addressSelector
	quotes    quoteProvider
	promos    promoEvaluator
	rewards   redeemEvaluator
	notifier  notifier
	metrics   *metrics.CartMetrics
	pricing   config.PricingConfig
	logg      *logger.Logger
}

// NewService builds a cart service backed by the provided stack.
func NewService(deps Deps) (Service, error) {
	if deps.Repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if deps.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if deps.Merchants == nil {
		return nil, fmt.Errorf("merchant loader required")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("catalog loader required")
	}
	if deps.Addresses == nil {
		return nil, fmt.Errorf("address selector required")
	}
	if deps.Quotes == nil {
		return nil, fmt.Errorf("quote provider required")
	}
	if deps.Promos == nil {
		return nil, fmt.Errorf("promo evaluator required")
	}
	if deps.Rewards == nil {
		return nil, fmt.Errorf("redeem evaluator required")
	}
	if deps.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      deps.Repo,
		tx:        deps.Tx,
		merchants: deps.Merchants,
		catalog:   deps.Catalog,
		addresses: deps.Addresses,
		quotes:    deps.Quotes,
		promos:    deps.Promos,
		rewards:   deps.Rewards,
		notifier:  deps.Notifier,
		metrics:   deps.Metrics,
		pricing:   deps.Pricing,
		logg:      deps.Logger,
	}, nil
}

// GetCart returns the current view. A user without an active cart gets an
// empty one without creating a row.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	cart, err := s.loadOrEmpty(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, cart)
}

// AddItem adds qty of the catalog item to the cart. A cross-merchant add does
// not touch the lines; it records a pending replacement and fails with
// MERCHANT_CONFLICT until the caller confirms or cancels.
func (s *service) AddItem(ctx context.Context, userID, itemID uuid.UUID, qty int) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	item, err := s.catalog.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "catalog item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog item")
	}
	if !item.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item is not available")
	}

	cart, err := s.loadOrEmpty(ctx, userID)
	if err != nil {
		return nil, err
	}

	if cart.MerchantID != nil && len(cart.Lines) > 0 && *cart.MerchantID != item.MerchantID {
		newMerchant, err := s.merchants.GetByID(ctx, item.MerchantID)
		if err != nil {
			return nil, err
		}
		if _, err := AddLine(cart, lineFromItem(item), newMerchant.Name, qty); err != nil {
			return nil, err
		}
		if err := s.persist(ctx, cart); err != nil {
			return nil, err
		}
		return nil, pkgerrors.New(pkgerrors.CodeMerchantConflict, "cart holds items from another merchant").
			WithDetails(map[string]any{"pending_replace": cart.PendingReplace})
	}

	if _, err := AddLine(cart, lineFromItem(item), "", qty); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}
	s.metrics.IncMutation("add_line")
	s.notify(ctx, userID, enums.NotificationTypeItemAdded, "Added to cart", item.Name)
	return s.buildView(ctx, cart)
}

// ConfirmReplace resolves a pending cross-merchant add by starting the cart
// over with the pending line. Atomic from the caller's perspective.
func (s *service) ConfirmReplace(ctx context.Context, userID uuid.UUID) (*View, error) {
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := ConfirmReplace(cart); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}
	s.metrics.IncMutation("confirm_replace")
	s.notify(ctx, userID, enums.NotificationTypeCartReplaced, "Cart replaced", "Your cart now holds items from a new merchant")
	return s.buildView(ctx, cart)
}

// CancelReplace drops the pending replacement; the cart is unchanged.
func (s *service) CancelReplace(ctx context.Context, userID uuid.UUID) (*View, error) {
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	CancelReplace(cart)
	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}
	s.metrics.IncMutation("cancel_replace")
	return s.buildView(ctx, cart)
}

func (s *service) RemoveItem(ctx context.Context, userID, lineID uuid.UUID) (*View, error) {
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := RemoveLine(cart, lineID); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}
	s.metrics.IncMutation("remove_line")
	return s.buildView(ctx, cart)
}

func (s *service) SetQuantity(ctx context.Context, userID, lineID uuid.UUID, qty int) (*View, error) {
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := SetQuantity(cart, lineID, qty); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}
	s.metrics.IncMutation("set_quantity")
	return s.buildView(ctx, cart)
}

// ApplyPromo validates the code against the current subtotal and records it.
// Points redemption is cleared on success; a rejected code leaves the cart
// untouched.
func (s *service) ApplyPromo(ctx context.Context, userID uuid.UUID, code string) (*View, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodePromoRejected, "promo code is required")
	}
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.promos.Evaluate(ctx, code, Subtotal(cart)); err != nil {
		return nil, err
	}
	ApplyPromo(cart, code)
	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}
	s.metrics.IncMutation("apply_promo")
	s.notify(ctx, userID, enums.NotificationTypePromoApplied, "Promo applied", code)
	return s.buildView(ctx, cart)
}

func (s *service) ClearPromo(ctx context.Context, userID uuid.UUID) (*View, error) {
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	ClearPromo(cart)
	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}
	s.metrics.IncMutation("clear_promo")
	return s.buildView(ctx, cart)
}

// RedeemPoints records the redemption after the rewards preconditions pass:
// subtotal over the unlock threshold, amount within balance and within the
// max redeemable fraction, and no promo applied. A violation mutates nothing.
func (s *service) RedeemPoints(ctx context.Context, userID uuid.UUID, amount int) (*View, error) {
	if amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeRedeemRejected, "redemption amount must be positive")
	}
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.PromoCode != nil {
		return nil, pkgerrors.New(pkgerrors.CodeRedeemRejected, "clear the applied promo before redeeming points")
	}
	if err := s.rewards.Evaluate(ctx, userID, amount, Subtotal(cart)); err != nil {
		return nil, err
	}
	SetPoints(cart, amount)
	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}
	s.metrics.IncMutation("redeem_points")
	return s.buildView(ctx, cart)
}

func (s *service) ClearPoints(ctx context.Context, userID uuid.UUID) (*View, error) {
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	ClearPoints(cart)
	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}
	s.metrics.IncMutation("clear_points")
	return s.buildView(ctx, cart)
}

func (s *service) SetTip(ctx context.Context, userID uuid.UUID, amount int) (*View, error) {
	cart, err := s.loadOrEmpty(ctx, userID)
	if err != nil {
		return nil, err
	}
	SetTip(cart, amount)
	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}
	s.metrics.IncMutation("set_tip")
	return s.buildView(ctx, cart)
}

func (s *service) SetDonation(ctx context.Context, userID uuid.UUID, amount int) (*View, error) {
	cart, err := s.loadOrEmpty(ctx, userID)
	if err != nil {
		return nil, err
	}
	SetDonation(cart, amount)
	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}
	s.metrics.IncMutation("set_donation")
	return s.buildView(ctx, cart)
}

func (s *service) SetNote(ctx context.Context, userID uuid.UUID, note string) (*View, error) {
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	SetNote(cart, strings.TrimSpace(note))
	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}
	s.metrics.IncMutation("set_note")
	return s.buildView(ctx, cart)
}

// Clear empties the cart. Idempotent: clearing a missing cart succeeds.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	cart, err := s.repo.FindActiveByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	Clear(cart)
	if err := s.persist(ctx, cart); err != nil {
		return err
	}
	s.metrics.IncMutation("clear")
	return nil
}

func (s *service) loadOrEmpty(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.FindActiveByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.Cart{UserID: userID, Status: enums.CartStatusActive}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

func (s *service) requireCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	cart, err := s.repo.FindActiveByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "active cart not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

// persist writes the cart and its lines atomically after a successful
// mutation. The revision counter advances so any in-flight pricing refresh
// for an older state is superseded.
func (s *service) persist(ctx context.Context, cart *models.Cart) error {
	cart.Revision++
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if cart.ID == uuid.Nil {
			_, err := txRepo.Create(ctx, cart)
			return err
		}
		if _, err := txRepo.Update(ctx, cart); err != nil {
			return err
		}
		return txRepo.ReplaceLines(ctx, cart.ID, cart.Lines)
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return nil
}

func (s *service) buildView(ctx context.Context, cart *models.Cart) (*View, error) {
	in, err := s.resolveInputs(ctx, cart)
	if err != nil {
		return nil, err
	}
	summary := ComputeSummary(cart, in)
	ok, reason := CheckoutGate(cart, in.AddressSelected, in.Serviceable)
	view := &View{
		Cart:        cart,
		Summary:     summary,
		CanCheckout: ok,
	}
	if !ok {
		view.BlockReason = string(reason)
		view.BlockDetail = reason.Human()
	}
	return view, nil
}

// resolveInputs gathers the external pricing inputs for the cart's current
// state. A failed delivery quote degrades to the last committed quote with
// the summary marked stale instead of failing the read.
func (s *service) resolveInputs(ctx context.Context, cart *models.Cart) (PricingInputs, error) {
	in := PricingInputs{
		GSTRateBasisPoints: s.pricing.GSTRateBasisPoints,
		HandlingFeeCents:   s.pricing.HandlingFeeCents,
		HandlingFeeWaived:  s.pricing.HandlingFeeWaived,
	}
	if len(cart.Lines) == 0 || cart.MerchantID == nil {
		return in, nil
	}

	merchant, err := s.merchants.GetByID(ctx, *cart.MerchantID)
	if err != nil {
		return in, err
	}
	in.GSTExempt = merchant.GSTExempt

	addr, err := s.addresses.Selected(ctx, cart.UserID)
	if err != nil {
		return in, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load selected address")
	}
	if addr != nil {
		in.AddressSelected = true
		start := time.Now()
		quote, qErr := s.quotes.Quote(ctx, merchant, addr)
		if qErr != nil {
			s.metrics.ObserveQuoteDuration("error", time.Since(start))
			s.logg.Warn(s.logg.WithField(ctx, "error", qErr.Error()), "delivery quote failed, serving last known")
			in.Stale = true
			if cart.LastServiceable != nil {
				in.Serviceable = *cart.LastServiceable
			}
			if cart.LastDeliveryFeeCents != nil {
				in.DeliveryFeeCents = *cart.LastDeliveryFeeCents
			}
			if cart.LastDistanceKm != nil {
				in.DistanceKm = *cart.LastDistanceKm
			}
		} else {
			s.metrics.ObserveQuoteDuration(quote.Source, time.Since(start))
			in.Serviceable = quote.Serviceable
			in.DeliveryFeeCents = quote.FeeCents
			in.StrikethroughFeeCents = quote.StrikethroughFeeCents
			in.DistanceKm = quote.DistanceKm
			rememberQuote(cart, quote)
			// keep the snapshot around so a later provider outage can
			// still price the cart
			if cart.ID != uuid.Nil {
				if _, uErr := s.repo.Update(ctx, cart); uErr != nil {
					s.logg.Warn(s.logg.WithField(ctx, "error", uErr.Error()), "persist delivery quote snapshot failed")
				}
			}
		}
	}

	if cart.PromoCode != nil {
		discount, pErr := s.promos.Evaluate(ctx, *cart.PromoCode, Subtotal(cart))
		if pErr == nil {
			in.PromoDiscountCents = discount
		} else {
			// the code was valid at apply time; show zero discount rather
			// than failing the whole view
			s.logg.Warn(s.logg.WithField(ctx, "error", pErr.Error()), "applied promo no longer evaluates")
		}
	}
	if cart.PointsToRedeem > 0 {
		in.PointsDiscountCents = cart.PointsToRedeem
	}
	return in, nil
}

func (s *service) notify(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, title, message string) {
	if err := s.notifier.Record(ctx, userID, kind, title, message); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "record notification failed")
	}
}

func rememberQuote(cart *models.Cart, quote *address.Quote) {
	fee := quote.FeeCents
	dist := quote.DistanceKm
	ok := quote.Serviceable
	cart.LastDeliveryFeeCents = &fee
	cart.LastDistanceKm = &dist
	cart.LastServiceable = &ok
}

func lineFromItem(item *models.CatalogItem) models.CartLine {
	return models.CartLine{
		ItemID:         item.ID,
		MerchantID:     item.MerchantID,
		Name:           item.Name,
		ImageRef:       item.ImageRef,
		UnitPriceCents: item.UnitPriceCents,
		ListPriceCents: item.ListPriceCents,
		LineType:       item.LineType,
	}
}
