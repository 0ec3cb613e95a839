package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/townbasket/townbasket-backend/api/responses"
	"github.com/townbasket/townbasket-backend/internal/catalog"
	"github.com/townbasket/townbasket-backend/internal/merchants"
	"github.com/townbasket/townbasket-backend/pkg/db/models"
	pkgerrors "github.com/townbasket/townbasket-backend/pkg/errors"
	"github.com/townbasket/townbasket-backend/pkg/logger"
)

// MerchantList returns open merchants, optionally filtered by category.
func MerchantList(svc merchants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "merchant service unavailable"))
			return
		}

		category := strings.TrimSpace(r.URL.Query().Get("category"))

		entries, err := svc.List(r.Context(), category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]merchantResponse, 0, len(entries))
		for i := range entries {
			items = append(items, newMerchantResponse(&entries[i]))
		}
		responses.WriteSuccess(w, items)
	}
}

// MerchantMenu returns the merchant's active catalog items.
func MerchantMenu(merchantSvc merchants.Service, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if merchantSvc == nil || catalogSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		merchantID, err := uuid.Parse(chi.URLParam(r, "merchantId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid merchant id"))
			return
		}

		merchant, err := merchantSvc.GetByID(r.Context(), merchantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		menu, err := catalogSvc.Menu(r.Context(), merchantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]catalogItemResponse, 0, len(menu))
		for i := range menu {
			items = append(items, newCatalogItemResponse(&menu[i]))
		}
		responses.WriteSuccess(w, merchantMenuResponse{
			Merchant: newMerchantResponse(merchant),
			Items:    items,
		})
	}
}

type merchantResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Lat             float64   `json:"lat"`
	Lng             float64   `json:"lng"`
	ServiceRadiusKm float64   `json:"service_radius_km"`
	GSTExempt       bool      `json:"gst_exempt"`
	IsOpen          bool      `json:"is_open"`
	Categories      []string  `json:"categories"`
}

type merchantMenuResponse struct {
	Merchant merchantResponse      `json:"merchant"`
	Items    []catalogItemResponse `json:"items"`
}

type catalogItemResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	ImageRef       *string   `json:"image_ref,omitempty"`
	UnitPriceCents int       `json:"unit_price_cents"`
	ListPriceCents int       `json:"list_price_cents"`
	LineType       string    `json:"line_type"`
}

func newMerchantResponse(merchant *models.Merchant) merchantResponse {
	return merchantResponse{
		ID:              merchant.ID,
		Name:            merchant.Name,
		Lat:             merchant.Lat,
		Lng:             merchant.Lng,
		ServiceRadiusKm: merchant.ServiceRadiusKm,
		GSTExempt:       merchant.GSTExempt,
		IsOpen:          merchant.IsOpen,
		Categories:      []string(merchant.Categories),
	}
}

func newCatalogItemResponse(item *models.CatalogItem) catalogItemResponse {
	return catalogItemResponse{
		ID:             item.ID,
		Name:           item.Name,
		ImageRef:       item.ImageRef,
		UnitPriceCents: item.UnitPriceCents,
		ListPriceCents: item.ListPriceCents,
		LineType:       string(item.LineType),
	}
}
