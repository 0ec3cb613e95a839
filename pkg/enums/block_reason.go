package enums

// BlockReason explains why checkout is currently gated.
type BlockReason string

const (
	BlockReasonNone               BlockReason = ""
	BlockReasonCartEmpty          BlockReason = "cart_empty"
	BlockReasonAddressMissing     BlockReason = "address_missing"
	BlockReasonNotServiceable     BlockReason = "not_serviceable"
	BlockReasonPrintAddonOrphaned BlockReason = "print_addon_requires_print"
)

// Human returns the reader-facing explanation for a blocked checkout.
func (b BlockReason) Human() string {
	switch b {
	case BlockReasonCartEmpty:
		return "your cart is empty"
	case BlockReasonAddressMissing:
		return "select a delivery address to continue"
	case BlockReasonNotServiceable:
		return "the selected address is outside the delivery zone"
	case BlockReasonPrintAddonOrphaned:
		return "lamination and binding need a print item in the same order"
	default:
		return ""
	}
}
