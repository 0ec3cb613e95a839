package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/townbasket/townbasket-backend/api/responses"
	"github.com/townbasket/townbasket-backend/internal/promo"
	"github.com/townbasket/townbasket-backend/pkg/db/models"
	pkgerrors "github.com/townbasket/townbasket-backend/pkg/errors"
	"github.com/townbasket/townbasket-backend/pkg/logger"
)

// PromoList returns the promos currently open for redemption.
func PromoList(svc promo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo service unavailable"))
			return
		}

		entries, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]promoResponse, 0, len(entries))
		for i := range entries {
			items = append(items, newPromoResponse(&entries[i]))
		}
		responses.WriteSuccess(w, items)
	}
}

type promoResponse struct {
	ID               uuid.UUID  `json:"id"`
	Code             string     `json:"code"`
	Title            string     `json:"title"`
	ValueType        string     `json:"value_type"`
	Value            int        `json:"value"`
	MaxDiscountCents *int       `json:"max_discount_cents,omitempty"`
	MinSubtotalCents int        `json:"min_subtotal_cents"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
}

func newPromoResponse(entry *models.Promo) promoResponse {
	return promoResponse{
		ID:               entry.ID,
		Code:             entry.Code,
		Title:            entry.Title,
		ValueType:        string(entry.ValueType),
		Value:            entry.Value,
		MaxDiscountCents: entry.MaxDiscountCents,
		MinSubtotalCents: entry.MinSubtotalCents,
		ExpiresAt:        entry.ExpiresAt,
	}
}
