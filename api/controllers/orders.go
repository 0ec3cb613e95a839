package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/townbasket/townbasket-backend/api/responses"
	"github.com/townbasket/townbasket-backend/internal/orders"
	"github.com/townbasket/townbasket-backend/pkg/db/models"
	pkgerrors "github.com/townbasket/townbasket-backend/pkg/errors"
	"github.com/townbasket/townbasket-backend/pkg/logger"
	"github.com/townbasket/townbasket-backend/pkg/pagination"
)

// OrderList returns the user's order history, newest first.
func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.Params{}
		if limitStr := strings.TrimSpace(r.URL.Query().Get("limit")); limitStr != "" {
			value, err := strconv.Atoi(limitStr)
			if err != nil || value <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer"))
				return
			}
			params.Limit = value
		}
		if cursor := strings.TrimSpace(r.URL.Query().Get("cursor")); cursor != "" {
			params.Cursor = cursor
		}

		result, err := svc.List(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]orderResponse, 0, len(result.Items))
		for i := range result.Items {
			items = append(items, newOrderResponse(&result.Items[i]))
		}
		responses.WriteSuccess(w, orderListResponse{Items: items, Cursor: result.Cursor})
	}
}

// OrderDetail returns a single order owned by the user.
func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		order, err := svc.Get(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

type orderListResponse struct {
	Items  []orderResponse `json:"items"`
	Cursor string          `json:"cursor,omitempty"`
}

type orderResponse struct {
	ID                  uuid.UUID           `json:"id"`
	MerchantID          uuid.UUID           `json:"merchant_id"`
	AddressID           uuid.UUID           `json:"address_id"`
	Status              string              `json:"status"`
	PaymentMethod       string              `json:"payment_method"`
	SubtotalCents       int                 `json:"subtotal_cents"`
	DeliveryFeeCents    int                 `json:"delivery_fee_cents"`
	HandlingFeeCents    int                 `json:"handling_fee_cents"`
	GSTCents            int                 `json:"gst_cents"`
	PromoCode           *string             `json:"promo_code,omitempty"`
	PromoDiscountCents  int                 `json:"promo_discount_cents"`
	PointsRedeemed      int                 `json:"points_redeemed"`
	PointsDiscountCents int                 `json:"points_discount_cents"`
	TipCents            int                 `json:"tip_cents"`
	DonationCents       int                 `json:"donation_cents"`
	TotalCents          int                 `json:"total_cents"`
	DistanceKm          float64             `json:"distance_km"`
	Note                *string             `json:"note,omitempty"`
	Lines               []orderLineResponse `json:"lines"`
	CreatedAt           time.Time           `json:"created_at"`
}

type orderLineResponse struct {
	ID             uuid.UUID `json:"id"`
	ItemID         uuid.UUID `json:"item_id"`
	Name           string    `json:"name"`
	UnitPriceCents int       `json:"unit_price_cents"`
	ListPriceCents int       `json:"list_price_cents"`
	Quantity       int       `json:"quantity"`
	LineType       string    `json:"line_type"`
}

func newOrderResponse(order *models.Order) orderResponse {
	lines := make([]orderLineResponse, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, orderLineResponse{
			ID:             line.ID,
			ItemID:         line.ItemID,
			Name:           line.Name,
			UnitPriceCents: line.UnitPriceCents,
			ListPriceCents: line.ListPriceCents,
			Quantity:       line.Quantity,
			LineType:       string(line.LineType),
		})
	}

	return orderResponse{
		ID:                  order.ID,
		MerchantID:          order.MerchantID,
		AddressID:           order.AddressID,
		Status:              string(order.Status),
		PaymentMethod:       string(order.PaymentMethod),
		SubtotalCents:       order.SubtotalCents,
		DeliveryFeeCents:    order.DeliveryFeeCents,
		HandlingFeeCents:    order.HandlingFeeCents,
		GSTCents:            order.GSTCents,
		PromoCode:           order.PromoCode,
		PromoDiscountCents:  order.PromoDiscountCents,
		PointsRedeemed:      order.PointsRedeemed,
		PointsDiscountCents: order.PointsDiscountCents,
		TipCents:            order.TipCents,
		DonationCents:       order.DonationCents,
		TotalCents:          order.TotalCents,
		DistanceKm:          order.DistanceKm,
		Note:                order.Note,
		Lines:               lines,
		CreatedAt:           order.CreatedAt,
	}
}
