package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/townbasket/townbasket-backend/pkg/db/models"
	"github.com/townbasket/townbasket-backend/pkg/enums"
)

func pricedCart(unit, list, qty int) *models.Cart {
	return &models.Cart{
		UserID: uuid.New(),
		Lines: []models.CartLine{{
			ID:             uuid.New(),
			ItemID:         uuid.New(),
			Name:           "Aloo Paratha",
			UnitPriceCents: unit,
			ListPriceCents: list,
			Quantity:       qty,
			LineType:       enums.LineTypeFood,
		}},
	}
}

func TestComputeSummary_BasicBreakdown(t *testing.T) {
	cart := pricedCart(9000, 10000, 2)
	cart.TipCents = 500
	cart.DonationCents = 100

	sum := ComputeSummary(cart, PricingInputs{
		DeliveryFeeCents:      1500,
		StrikethroughFeeCents: 1815,
		Serviceable:           true,
		AddressSelected:       true,
		DistanceKm:            2.4,
		GSTRateBasisPoints:    500,
	})

	assert.Equal(t, 18000, sum.SubtotalCents)
	assert.Equal(t, 2000, sum.SavingsCents)
	assert.Equal(t, 1500, sum.DeliveryFeeCents)
	assert.Equal(t, 1815, sum.StrikethroughFeeCents)
	assert.Equal(t, 900, sum.GSTCents) // 5% of 18000
	assert.Equal(t, 18000+1500+900+500+100, sum.TotalCents)
	assert.True(t, sum.Serviceable)
	assert.False(t, sum.Stale)
}

func TestComputeSummary_IsPure(t *testing.T) {
	cart := pricedCart(9000, 10000, 2)
	in := PricingInputs{
		DeliveryFeeCents:   1500,
		Serviceable:        true,
		AddressSelected:    true,
		GSTRateBasisPoints: 500,
		PromoDiscountCents: 2000,
	}

	first := ComputeSummary(cart, in)
	second := ComputeSummary(cart, in)
	assert.Equal(t, first, second)
}

func TestComputeSummary_NoDeliveryWithoutAddress(t *testing.T) {
	cart := pricedCart(9000, 9000, 1)

	sum := ComputeSummary(cart, PricingInputs{
		DeliveryFeeCents: 1500,
		Serviceable:      true,
		AddressSelected:  false,
	})

	assert.Zero(t, sum.DeliveryFeeCents)
	assert.Zero(t, sum.StrikethroughFeeCents)
	assert.Equal(t, 9000, sum.TotalCents)
}

func TestComputeSummary_NoDeliveryWhenNotServiceable(t *testing.T) {
	cart := pricedCart(9000, 9000, 1)

	sum := ComputeSummary(cart, PricingInputs{
		DeliveryFeeCents: 1500,
		Serviceable:      false,
		AddressSelected:  true,
	})

	assert.Zero(t, sum.DeliveryFeeCents)
	assert.False(t, sum.Serviceable)
}

func TestComputeSummary_EmptyCartChargesNothing(t *testing.T) {
	cart := &models.Cart{UserID: uuid.New()}

	sum := ComputeSummary(cart, PricingInputs{
		DeliveryFeeCents:   1500,
		Serviceable:        true,
		AddressSelected:    true,
		GSTRateBasisPoints: 500,
		HandlingFeeCents:   300,
	})

	assert.Zero(t, sum.SubtotalCents)
	assert.Zero(t, sum.DeliveryFeeCents)
	assert.Zero(t, sum.GSTCents)
	assert.Equal(t, 300, sum.HandlingFeeCents)
}

func TestComputeSummary_GSTExemptMerchant(t *testing.T) {
	cart := pricedCart(10000, 10000, 1)

	sum := ComputeSummary(cart, PricingInputs{GSTRateBasisPoints: 500, GSTExempt: true})
	assert.Zero(t, sum.GSTCents)
}

func TestComputeSummary_GSTRoundsHalfUp(t *testing.T) {
	// 5% of 1010 is 50.5, rounds to 51
	cart := pricedCart(1010, 1010, 1)

	sum := ComputeSummary(cart, PricingInputs{GSTRateBasisPoints: 500})
	assert.Equal(t, 51, sum.GSTCents)
}

func TestComputeSummary_HandlingFeeWaived(t *testing.T) {
	cart := pricedCart(10000, 10000, 1)

	sum := ComputeSummary(cart, PricingInputs{HandlingFeeCents: 300, HandlingFeeWaived: true})
	assert.Zero(t, sum.HandlingFeeCents)
	assert.Equal(t, 10000, sum.TotalCents)
}

func TestComputeSummary_TotalFlooredAtZero(t *testing.T) {
	cart := pricedCart(1000, 1000, 1)

	sum := ComputeSummary(cart, PricingInputs{PromoDiscountCents: 5000})
	assert.Zero(t, sum.TotalCents)
}

func TestComputeSummary_StaleQuotePassesThrough(t *testing.T) {
	cart := pricedCart(9000, 9000, 1)

	sum := ComputeSummary(cart, PricingInputs{
		DeliveryFeeCents: 1200,
		Serviceable:      true,
		AddressSelected:  true,
		DistanceKm:       3.1,
		Stale:            true,
	})

	assert.True(t, sum.Stale)
	assert.Equal(t, 1200, sum.DeliveryFeeCents)
	assert.Equal(t, 3.1, sum.DistanceKm)
}
