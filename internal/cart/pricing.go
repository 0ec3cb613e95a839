package cart

import (
	"github.com/shopspring/decimal"

	"github.com/townbasket/townbasket-backend/pkg/db/models"
)

// PricingInputs carries the externally resolved values a summary depends on.
// The engine never computes these itself; it only composes them.
type PricingInputs struct {
	DeliveryFeeCents      int
	StrikethroughFeeCents int
	Serviceable           bool
	AddressSelected       bool
	DistanceKm            float64
	Stale                 bool

	PromoDiscountCents  int
	PointsDiscountCents int

	GSTRateBasisPoints int
	GSTExempt          bool
	HandlingFeeCents   int
	HandlingFeeWaived  bool
}

// Summary is the priced view of a cart. Derived on every read, never stored
// as source of truth.
type Summary struct {
	SubtotalCents         int     `json:"subtotal_cents"`
	SavingsCents          int     `json:"savings_cents"`
	DeliveryFeeCents      int     `json:"delivery_fee_cents"`
	StrikethroughFeeCents int     `json:"strikethrough_fee_cents"`
	HandlingFeeCents      int     `json:"handling_fee_cents"`
	GSTCents              int     `json:"gst_cents"`
	PromoDiscountCents    int     `json:"promo_discount_cents"`
	PointsDiscountCents   int     `json:"points_discount_cents"`
	TipCents              int     `json:"tip_cents"`
	DonationCents         int     `json:"donation_cents"`
	TotalCents            int     `json:"total_cents"`
	Serviceable           bool    `json:"serviceable"`
	DistanceKm            float64 `json:"distance_km"`
	Stale                 bool    `json:"stale"`
}

// ComputeSummary composes the priced summary from the cart and its inputs.
// Pure: identical arguments always produce an identical summary. The total
// is floored at zero no matter how large the discounts are.
func ComputeSummary(cart *models.Cart, in PricingInputs) Summary {
	subtotal := Subtotal(cart)

	savings := 0
	for i := range cart.Lines {
		line := &cart.Lines[i]
		if line.ListPriceCents > line.UnitPriceCents {
			savings += (line.ListPriceCents - line.UnitPriceCents) * line.Quantity
		}
	}

	handling := in.HandlingFeeCents
	if in.HandlingFeeWaived {
		handling = 0
	}

	gst := 0
	if !in.GSTExempt && in.GSTRateBasisPoints > 0 && subtotal > 0 {
		gst = int(decimal.NewFromInt(int64(subtotal)).
			Mul(decimal.NewFromInt(int64(in.GSTRateBasisPoints))).
			Div(decimal.NewFromInt(10000)).
			Round(0).IntPart())
	}

	delivery := 0
	strikethrough := 0
	if len(cart.Lines) > 0 && in.AddressSelected && in.Serviceable {
		delivery = in.DeliveryFeeCents
		strikethrough = in.StrikethroughFeeCents
	}

	total := subtotal + delivery + handling + gst -
		in.PromoDiscountCents - in.PointsDiscountCents +
		cart.TipCents + cart.DonationCents
	if total < 0 {
		total = 0
	}

	return Summary{
		SubtotalCents:         subtotal,
		SavingsCents:          savings,
		DeliveryFeeCents:      delivery,
		StrikethroughFeeCents: strikethrough,
		HandlingFeeCents:      handling,
		GSTCents:              gst,
		PromoDiscountCents:    in.PromoDiscountCents,
		PointsDiscountCents:   in.PointsDiscountCents,
		TipCents:              cart.TipCents,
		DonationCents:         cart.DonationCents,
		TotalCents:            total,
		Serviceable:           in.Serviceable,
		DistanceKm:            in.DistanceKm,
		Stale:                 in.Stale,
	}
}
