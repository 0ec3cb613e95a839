package cart

import (
	"github.com/google/uuid"

	"github.com/townbasket/townbasket-backend/pkg/db/models"
	pkgerrors "github.com/townbasket/townbasket-backend/pkg/errors"
	"github.com/townbasket/townbasket-backend/pkg/types"
)

// AddLine applies the single-merchant rule to the cart. When the incoming
// line belongs to another merchant the cart is left untouched and a pending
// replacement is recorded instead; the caller must confirm or cancel it.
// Returns true when the cart was mutated.
func AddLine(cart *models.Cart, line models.CartLine, merchantName string, qty int) (bool, error) {
	if qty <= 0 {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	if cart.MerchantID == nil || len(cart.Lines) == 0 {
		cart.MerchantID = &line.MerchantID
		line.Quantity = qty
		line.Position = nextPosition(cart.Lines)
		cart.Lines = append(cart.Lines, line)
		cart.PendingReplace = nil
		return true, nil
	}

	if *cart.MerchantID == line.MerchantID {
		// Any successful same-merchant add supersedes an unanswered
		// replace prompt.
		cart.PendingReplace = nil
		for i := range cart.Lines {
			if cart.Lines[i].ItemID == line.ItemID {
				cart.Lines[i].Quantity += qty
				return true, nil
			}
		}
		line.Quantity = qty
		line.Position = nextPosition(cart.Lines)
		cart.Lines = append(cart.Lines, line)
		return true, nil
	}

	cart.PendingReplace = &types.PendingReplace{
		MerchantID:     line.MerchantID,
		MerchantName:   merchantName,
		ItemID:         line.ItemID,
		Name:           line.Name,
		ImageRef:       line.ImageRef,
		UnitPriceCents: line.UnitPriceCents,
		ListPriceCents: line.ListPriceCents,
		LineType:       line.LineType,
		Quantity:       qty,
	}
	return false, nil
}

// ConfirmReplace discards the existing lines and starts the cart over with
// the pending line. Destructive, no undo. Tip and donation survive; promo and
// points do not carry across merchants.
func ConfirmReplace(cart *models.Cart) error {
	pending := cart.PendingReplace
	if pending == nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "no pending cart replacement")
	}

	cart.MerchantID = &pending.MerchantID
	cart.Lines = []models.CartLine{{
		ItemID:         pending.ItemID,
		MerchantID:     pending.MerchantID,
		Name:           pending.Name,
		ImageRef:       pending.ImageRef,
		UnitPriceCents: pending.UnitPriceCents,
		ListPriceCents: pending.ListPriceCents,
		Quantity:       pending.Quantity,
		LineType:       pending.LineType,
		Position:       0,
	}}
	cart.PromoCode = nil
	cart.PointsToRedeem = 0
	cart.PendingReplace = nil
	cart.LastDeliveryFeeCents = nil
	cart.LastDistanceKm = nil
	cart.LastServiceable = nil
	return nil
}

// CancelReplace drops the pending replacement, leaving the cart exactly as
// it was.
func CancelReplace(cart *models.Cart) {
	cart.PendingReplace = nil
}

// RemoveLine deletes the line. Emptying the cart resets the merchant so the
// next add from any merchant succeeds without a replace prompt.
func RemoveLine(cart *models.Cart, lineID uuid.UUID) error {
	idx := -1
	for i := range cart.Lines {
		if cart.Lines[i].ID == lineID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	cart.Lines = append(cart.Lines[:idx], cart.Lines[idx+1:]...)
	if len(cart.Lines) == 0 {
		resetToEmpty(cart)
	}
	return nil
}

// SetQuantity replaces the line quantity. A quantity of zero or less removes
// the line.
func SetQuantity(cart *models.Cart, lineID uuid.UUID, qty int) error {
	if qty <= 0 {
		return RemoveLine(cart, lineID)
	}
	for i := range cart.Lines {
		if cart.Lines[i].ID == lineID {
			cart.Lines[i].Quantity = qty
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
}

// ApplyPromo records the code on the cart. Points redemption is cleared
// first; promo and points never coexist.
func ApplyPromo(cart *models.Cart, code string) {
	cart.PointsToRedeem = 0
	cart.PromoCode = &code
}

// SetPoints records the redemption amount, clearing any applied promo.
func SetPoints(cart *models.Cart, amount int) {
	cart.PromoCode = nil
	cart.PointsToRedeem = amount
}

// ClearPromo removes the applied promo code. Idempotent.
func ClearPromo(cart *models.Cart) {
	cart.PromoCode = nil
}

// ClearPoints resets the redemption amount. Idempotent.
func ClearPoints(cart *models.Cart) {
	cart.PointsToRedeem = 0
}

// SetTip stores the tip; negative input is coerced to zero.
func SetTip(cart *models.Cart, amount int) {
	if amount < 0 {
		amount = 0
	}
	cart.TipCents = amount
}

// SetDonation stores the donation; negative input is coerced to zero.
func SetDonation(cart *models.Cart, amount int) {
	if amount < 0 {
		amount = 0
	}
	cart.DonationCents = amount
}

// SetNote attaches free-text instructions to the cart.
func SetNote(cart *models.Cart, note string) {
	if note == "" {
		cart.Note = nil
		return
	}
	cart.Note = &note
}

// Clear empties the cart entirely.
func Clear(cart *models.Cart) {
	cart.Lines = nil
	resetToEmpty(cart)
	cart.TipCents = 0
	cart.DonationCents = 0
	cart.Note = nil
}

// Subtotal sums unit price times quantity across all lines.
func Subtotal(cart *models.Cart) int {
	total := 0
	for i := range cart.Lines {
		total += cart.Lines[i].UnitPriceCents * cart.Lines[i].Quantity
	}
	return total
}

func resetToEmpty(cart *models.Cart) {
	cart.MerchantID = nil
	cart.PromoCode = nil
	cart.PointsToRedeem = 0
	cart.PendingReplace = nil
	cart.LastDeliveryFeeCents = nil
	cart.LastDistanceKm = nil
	cart.LastServiceable = nil
}

func nextPosition(lines []models.CartLine) int {
	max := -1
	for i := range lines {
		if lines[i].Position > max {
			max = lines[i].Position
		}
	}
	return max + 1
}
