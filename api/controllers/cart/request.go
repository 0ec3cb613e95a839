package cart

import "github.com/google/uuid"

type addItemRequest struct {
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,min=1"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

type applyPromoRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}

type redeemPointsRequest struct {
	Amount int `json:"amount" validate:"required,min=1"`
}

type amountRequest struct {
	AmountCents int `json:"amount_cents" validate:"min=0"`
}

const maxNoteLen = 500

type noteRequest struct {
	Note string `json:"note" validate:"max=500"`
}
