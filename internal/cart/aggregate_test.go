package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/townbasket/townbasket-backend/pkg/db/models"
	"github.com/townbasket/townbasket-backend/pkg/enums"
	pkgerrors "github.com/townbasket/townbasket-backend/pkg/errors"
)

func groceryLine(merchantID uuid.UUID, name string, unit, list int) models.CartLine {
	return models.CartLine{
		ID:             uuid.New(),
		ItemID:         uuid.New(),
		MerchantID:     merchantID,
		Name:           name,
		UnitPriceCents: unit,
		ListPriceCents: list,
		LineType:       enums.LineTypeGrocery,
	}
}

func TestAddLine_EmptyCartAdoptsMerchant(t *testing.T) {
	merchantID := uuid.New()
	cart := &models.Cart{UserID: uuid.New()}

	mutated, err := AddLine(cart, groceryLine(merchantID, "Toor Dal 1kg", 15000, 16000), "Sharma Kirana", 2)
	require.NoError(t, err)
	assert.True(t, mutated)

	require.NotNil(t, cart.MerchantID)
	assert.Equal(t, merchantID, *cart.MerchantID)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.Equal(t, 0, cart.Lines[0].Position)
}

func TestAddLine_SameItemAccumulates(t *testing.T) {
	merchantID := uuid.New()
	cart := &models.Cart{UserID: uuid.New()}
	line := groceryLine(merchantID, "Toor Dal 1kg", 15000, 16000)

	_, err := AddLine(cart, line, "", 1)
	require.NoError(t, err)
	_, err = AddLine(cart, line, "", 3)
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 4, cart.Lines[0].Quantity)
}

func TestAddLine_SecondItemAppendsInOrder(t *testing.T) {
	merchantID := uuid.New()
	cart := &models.Cart{UserID: uuid.New()}

	_, err := AddLine(cart, groceryLine(merchantID, "Toor Dal 1kg", 15000, 16000), "", 1)
	require.NoError(t, err)
	_, err = AddLine(cart, groceryLine(merchantID, "Basmati Rice 5kg", 45000, 45000), "", 1)
	require.NoError(t, err)

	require.Len(t, cart.Lines, 2)
	assert.Equal(t, 0, cart.Lines[0].Position)
	assert.Equal(t, 1, cart.Lines[1].Position)
}

func TestAddLine_RejectsNonPositiveQuantity(t *testing.T) {
	cart := &models.Cart{UserID: uuid.New()}

	_, err := AddLine(cart, groceryLine(uuid.New(), "Toor Dal 1kg", 15000, 16000), "", 0)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestAddLine_CrossMerchantLeavesCartUntouched(t *testing.T) {
	firstMerchant := uuid.New()
	cart := &models.Cart{UserID: uuid.New()}
	_, err := AddLine(cart, groceryLine(firstMerchant, "Toor Dal 1kg", 15000, 16000), "", 2)
	require.NoError(t, err)

	other := groceryLine(uuid.New(), "Paneer Tikka", 22000, 22000)
	mutated, err := AddLine(cart, other, "Gupta Dhaba", 1)
	require.NoError(t, err)
	assert.False(t, mutated)

	// original contents intact, pending replacement recorded
	assert.Equal(t, firstMerchant, *cart.MerchantID)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "Toor Dal 1kg", cart.Lines[0].Name)
	require.NotNil(t, cart.PendingReplace)
	assert.Equal(t, other.MerchantID, cart.PendingReplace.MerchantID)
	assert.Equal(t, "Gupta Dhaba", cart.PendingReplace.MerchantName)
	assert.Equal(t, 1, cart.PendingReplace.Quantity)
}

func TestAddLine_SameMerchantClearsStalePendingReplace(t *testing.T) {
	firstMerchant := uuid.New()
	cart := &models.Cart{UserID: uuid.New()}
	_, err := AddLine(cart, groceryLine(firstMerchant, "Toor Dal 1kg", 15000, 16000), "", 2)
	require.NoError(t, err)

	// cross-merchant attempt leaves a prompt behind
	_, err = AddLine(cart, groceryLine(uuid.New(), "Paneer Tikka", 22000, 22000), "Gupta Dhaba", 1)
	require.NoError(t, err)
	require.NotNil(t, cart.PendingReplace)

	// the user keeps shopping at the original merchant instead of answering
	mutated, err := AddLine(cart, groceryLine(firstMerchant, "Basmati Rice 5kg", 48000, 52000), "", 1)
	require.NoError(t, err)
	assert.True(t, mutated)
	assert.Nil(t, cart.PendingReplace)
	require.Len(t, cart.Lines, 2)
}

func TestConfirmReplace_SwapsMerchantAndClearsDiscounts(t *testing.T) {
	cart := &models.Cart{UserID: uuid.New(), TipCents: 500, DonationCents: 200}
	_, err := AddLine(cart, groceryLine(uuid.New(), "Toor Dal 1kg", 15000, 16000), "", 2)
	require.NoError(t, err)

	code := "SAVE20"
	cart.PromoCode = &code
	fee := 1500
	cart.LastDeliveryFeeCents = &fee

	other := groceryLine(uuid.New(), "Paneer Tikka", 22000, 22000)
	_, err = AddLine(cart, other, "Gupta Dhaba", 3)
	require.NoError(t, err)

	require.NoError(t, ConfirmReplace(cart))

	assert.Equal(t, other.MerchantID, *cart.MerchantID)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "Paneer Tikka", cart.Lines[0].Name)
	assert.Equal(t, 3, cart.Lines[0].Quantity)
	assert.Nil(t, cart.PromoCode)
	assert.Zero(t, cart.PointsToRedeem)
	assert.Nil(t, cart.PendingReplace)
	assert.Nil(t, cart.LastDeliveryFeeCents)
	// tip and donation are buyer preferences, not merchant state
	assert.Equal(t, 500, cart.TipCents)
	assert.Equal(t, 200, cart.DonationCents)
}

func TestConfirmReplace_WithoutPendingFails(t *testing.T) {
	cart := &models.Cart{UserID: uuid.New()}
	err := ConfirmReplace(cart)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestCancelReplace_KeepsCartAsIs(t *testing.T) {
	firstMerchant := uuid.New()
	cart := &models.Cart{UserID: uuid.New()}
	_, err := AddLine(cart, groceryLine(firstMerchant, "Toor Dal 1kg", 15000, 16000), "", 2)
	require.NoError(t, err)
	_, err = AddLine(cart, groceryLine(uuid.New(), "Paneer Tikka", 22000, 22000), "Gupta Dhaba", 1)
	require.NoError(t, err)

	CancelReplace(cart)

	assert.Nil(t, cart.PendingReplace)
	assert.Equal(t, firstMerchant, *cart.MerchantID)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
}

func TestRemoveLine_LastLineResetsMerchant(t *testing.T) {
	cart := &models.Cart{UserID: uuid.New()}
	line := groceryLine(uuid.New(), "Toor Dal 1kg", 15000, 16000)
	_, err := AddLine(cart, line, "", 1)
	require.NoError(t, err)

	require.NoError(t, RemoveLine(cart, line.ID))

	assert.Empty(t, cart.Lines)
	assert.Nil(t, cart.MerchantID)
	assert.Nil(t, cart.PromoCode)
	assert.Zero(t, cart.PointsToRedeem)
}

func TestRemoveLine_UnknownLine(t *testing.T) {
	cart := &models.Cart{UserID: uuid.New()}
	err := RemoveLine(cart, uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestSetQuantity_ZeroRemoves(t *testing.T) {
	cart := &models.Cart{UserID: uuid.New()}
	line := groceryLine(uuid.New(), "Toor Dal 1kg", 15000, 16000)
	_, err := AddLine(cart, line, "", 2)
	require.NoError(t, err)

	require.NoError(t, SetQuantity(cart, line.ID, 5))
	assert.Equal(t, 5, cart.Lines[0].Quantity)

	require.NoError(t, SetQuantity(cart, line.ID, 0))
	assert.Empty(t, cart.Lines)
}

func TestPromoAndPointsNeverCoexist(t *testing.T) {
	cart := &models.Cart{UserID: uuid.New()}

	SetPoints(cart, 5000)
	assert.Equal(t, 5000, cart.PointsToRedeem)

	ApplyPromo(cart, "SAVE20")
	require.NotNil(t, cart.PromoCode)
	assert.Equal(t, "SAVE20", *cart.PromoCode)
	assert.Zero(t, cart.PointsToRedeem)

	SetPoints(cart, 3000)
	assert.Nil(t, cart.PromoCode)
	assert.Equal(t, 3000, cart.PointsToRedeem)
}

func TestTipAndDonationCoerceNegatives(t *testing.T) {
	cart := &models.Cart{UserID: uuid.New()}

	SetTip(cart, -100)
	assert.Zero(t, cart.TipCents)
	SetTip(cart, 1000)
	assert.Equal(t, 1000, cart.TipCents)

	SetDonation(cart, -1)
	assert.Zero(t, cart.DonationCents)
}

func TestClear_ResetsEverything(t *testing.T) {
	cart := &models.Cart{UserID: uuid.New(), TipCents: 500, DonationCents: 100}
	_, err := AddLine(cart, groceryLine(uuid.New(), "Toor Dal 1kg", 15000, 16000), "", 1)
	require.NoError(t, err)
	SetPoints(cart, 2000)
	SetNote(cart, "leave at the gate")

	Clear(cart)

	assert.Empty(t, cart.Lines)
	assert.Nil(t, cart.MerchantID)
	assert.Zero(t, cart.PointsToRedeem)
	assert.Zero(t, cart.TipCents)
	assert.Zero(t, cart.DonationCents)
	assert.Nil(t, cart.Note)
}

func TestSubtotal(t *testing.T) {
	merchantID := uuid.New()
	cart := &models.Cart{UserID: uuid.New()}
	_, err := AddLine(cart, groceryLine(merchantID, "Toor Dal 1kg", 15000, 16000), "", 2)
	require.NoError(t, err)
	_, err = AddLine(cart, groceryLine(merchantID, "Basmati Rice 5kg", 45000, 45000), "", 1)
	require.NoError(t, err)

	assert.Equal(t, 75000, Subtotal(cart))
}
