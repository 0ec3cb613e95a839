package types

import (
	"github.com/google/uuid"

	"github.com/townbasket/townbasket-backend/pkg/enums"
)

// PendingReplace captures a cross-merchant add that is waiting on the buyer's
// decision. The cart itself stays untouched until the replacement is
// confirmed.
type PendingReplace struct {
	MerchantID     uuid.UUID      `json:"merchant_id"`
	MerchantName   string         `json:"merchant_name"`
	ItemID         uuid.UUID      `json:"item_id"`
	Name           string         `json:"name"`
	ImageRef       *string        `json:"image_ref,omitempty"`
	UnitPriceCents int            `json:"unit_price_cents"`
	ListPriceCents int            `json:"list_price_cents"`
	LineType       enums.LineType `json:"line_type"`
	Quantity       int            `json:"quantity"`
}
