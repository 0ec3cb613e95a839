package cart

import (
	"time"

	"github.com/google/uuid"

	cartsvc "github.com/townbasket/townbasket-backend/internal/cart"
	"github.com/townbasket/townbasket-backend/pkg/types"
)

type cartView struct {
	Cart        cartPayload     `json:"cart"`
	Summary     cartsvc.Summary `json:"summary"`
	CanCheckout bool            `json:"can_checkout"`
	BlockReason string          `json:"block_reason,omitempty"`
	BlockDetail string          `json:"block_detail,omitempty"`
}

type cartPayload struct {
	ID             uuid.UUID             `json:"id"`
	MerchantID     *uuid.UUID            `json:"merchant_id,omitempty"`
	Status         string                `json:"status"`
	PromoCode      *string               `json:"promo_code,omitempty"`
	PointsToRedeem int                   `json:"points_to_redeem"`
	TipCents       int                   `json:"tip_cents"`
	DonationCents  int                   `json:"donation_cents"`
	Note           *string               `json:"note,omitempty"`
	PendingReplace *types.PendingReplace `json:"pending_replace,omitempty"`
	Revision       int64                 `json:"revision"`
	Lines          []cartLinePayload     `json:"lines"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

type cartLinePayload struct {
	ID             uuid.UUID `json:"id"`
	ItemID         uuid.UUID `json:"item_id"`
	Name           string    `json:"name"`
	ImageRef       *string   `json:"image_ref,omitempty"`
	UnitPriceCents int       `json:"unit_price_cents"`
	ListPriceCents int       `json:"list_price_cents"`
	Quantity       int       `json:"quantity"`
	LineType       string    `json:"line_type"`
	Position       int       `json:"position"`
}

func newCartView(view *cartsvc.View) cartView {
	out := cartView{
		Summary:     view.Summary,
		CanCheckout: view.CanCheckout,
		BlockReason: view.BlockReason,
		BlockDetail: view.BlockDetail,
	}

	if view.Cart == nil {
		out.Cart.Lines = []cartLinePayload{}
		return out
	}

	lines := make([]cartLinePayload, 0, len(view.Cart.Lines))
	for _, line := range view.Cart.Lines {
		lines = append(lines, cartLinePayload{
			ID:             line.ID,
			ItemID:         line.ItemID,
			Name:           line.Name,
			ImageRef:       line.ImageRef,
			UnitPriceCents: line.UnitPriceCents,
			ListPriceCents: line.ListPriceCents,
			Quantity:       line.Quantity,
			LineType:       string(line.LineType),
			Position:       line.Position,
		})
	}

	out.Cart = cartPayload{
		ID:             view.Cart.ID,
		MerchantID:     view.Cart.MerchantID,
		Status:         string(view.Cart.Status),
		PromoCode:      view.Cart.PromoCode,
		PointsToRedeem: view.Cart.PointsToRedeem,
		TipCents:       view.Cart.TipCents,
		DonationCents:  view.Cart.DonationCents,
		Note:           view.Cart.Note,
		PendingReplace: view.Cart.PendingReplace,
		Revision:       view.Cart.Revision,
		Lines:          lines,
		UpdatedAt:      view.Cart.UpdatedAt,
	}
	return out
}
