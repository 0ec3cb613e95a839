package controllers

import (
	"net/http"

	"github.com/townbasket/townbasket-backend/api/responses"
	"github.com/townbasket/townbasket-backend/api/validators"
	checkoutsvc "github.com/townbasket/townbasket-backend/internal/checkout"
	"github.com/townbasket/townbasket-backend/pkg/enums"
	pkgerrors "github.com/townbasket/townbasket-backend/pkg/errors"
	"github.com/townbasket/townbasket-backend/pkg/logger"
)

// Checkout converts the active cart into a placed order.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Place(r.Context(), userID, checkoutsvc.PlaceInput{
			PaymentMethod: enums.PaymentMethod(payload.PaymentMethod),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(order))
	}
}

type checkoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cod online"`
}
