package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/townbasket/townbasket-backend/api/responses"
	"github.com/townbasket/townbasket-backend/api/validators"
	"github.com/townbasket/townbasket-backend/internal/address"
	"github.com/townbasket/townbasket-backend/pkg/db/models"
	pkgerrors "github.com/townbasket/townbasket-backend/pkg/errors"
	"github.com/townbasket/townbasket-backend/pkg/logger"
)

// AddressList returns the user's address book.
func AddressList(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]addressResponse, 0, len(entries))
		for i := range entries {
			items = append(items, newAddressResponse(&entries[i]))
		}
		responses.WriteSuccess(w, items)
	}
}

// AddressCreate adds an address book entry.
func AddressCreate(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addressCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), userID, address.CreateInput{
			Label:      validators.SanitizeString(payload.Label, 50),
			Line1:      validators.SanitizeString(payload.Line1, 200),
			Line2:      payload.Line2,
			City:       payload.City,
			State:      payload.State,
			PostalCode: payload.PostalCode,
			Lat:        payload.Lat,
			Lng:        payload.Lng,
			Selected:   payload.Selected,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newAddressResponse(created))
	}
}

// AddressSelect marks the address as the delivery target.
func AddressSelect(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addressID, err := uuid.Parse(chi.URLParam(r, "addressId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address id"))
			return
		}

		if err := svc.Select(r.Context(), userID, addressID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "selected"})
	}
}

type addressCreateRequest struct {
	Label      string  `json:"label" validate:"max=50"`
	Line1      string  `json:"line1" validate:"required,max=200"`
	Line2      *string `json:"line2,omitempty" validate:"omitempty,max=200"`
	City       string  `json:"city" validate:"required,max=100"`
	State      string  `json:"state" validate:"required,max=100"`
	PostalCode string  `json:"postal_code" validate:"required,max=12"`
	Lat        float64 `json:"lat" validate:"required,latitude"`
	Lng        float64 `json:"lng" validate:"required,longitude"`
	Selected   bool    `json:"selected"`
}

type addressResponse struct {
	ID         uuid.UUID `json:"id"`
	Label      string    `json:"label"`
	Line1      string    `json:"line1"`
	Line2      *string   `json:"line2,omitempty"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Selected   bool      `json:"selected"`
	CreatedAt  time.Time `json:"created_at"`
}

func newAddressResponse(entry *models.Address) addressResponse {
	return addressResponse{
		ID:         entry.ID,
		Label:      entry.Label,
		Line1:      entry.Line1,
		Line2:      entry.Line2,
		City:       entry.City,
		State:      entry.State,
		PostalCode: entry.PostalCode,
		Lat:        entry.Lat,
		Lng:        entry.Lng,
		Selected:   entry.Selected,
		CreatedAt:  entry.CreatedAt,
	}
}
