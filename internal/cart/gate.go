package cart

import (
	"github.com/townbasket/townbasket-backend/pkg/db/models"
	"github.com/townbasket/townbasket-backend/pkg/enums"
)

// CheckoutGate evaluates whether the cart can proceed to checkout and, when
// it cannot, why. Reasons are checked in display priority order.
func CheckoutGate(cart *models.Cart, addressSelected, serviceable bool) (bool, enums.BlockReason) {
	if len(cart.Lines) == 0 {
		return false, enums.BlockReasonCartEmpty
	}
	if !addressSelected {
		return false, enums.BlockReasonAddressMissing
	}
	if !serviceable {
		return false, enums.BlockReasonNotServiceable
	}
	if hasOrphanedPrintAddon(cart) {
		return false, enums.BlockReasonPrintAddonOrphaned
	}
	return true, enums.BlockReasonNone
}

// Lamination and binding are add-ons to a print job; they cannot check out
// without a print line in the same cart.
func hasOrphanedPrintAddon(cart *models.Cart) bool {
	hasAddon := false
	hasPrint := false
	for i := range cart.Lines {
		switch {
		case cart.Lines[i].LineType.IsPrintAddon():
			hasAddon = true
		case cart.Lines[i].LineType == enums.LineTypePrint:
			hasPrint = true
		}
	}
	return hasAddon && !hasPrint
}
