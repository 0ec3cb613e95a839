package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/townbasket/townbasket-backend/api/middleware"
	checkoutsvc "github.com/townbasket/townbasket-backend/internal/checkout"
	"github.com/townbasket/townbasket-backend/pkg/db/models"
	"github.com/townbasket/townbasket-backend/pkg/enums"
	pkgerrors "github.com/townbasket/townbasket-backend/pkg/errors"
	"github.com/townbasket/townbasket-backend/pkg/logger"
)

type testCheckoutService struct {
	placeFn func(ctx context.Context, userID uuid.UUID, input checkoutsvc.PlaceInput) (*models.Order, error)
}

func (s *testCheckoutService) Place(ctx context.Context, userID uuid.UUID, input checkoutsvc.PlaceInput) (*models.Order, error) {
	if s.placeFn != nil {
		return s.placeFn(ctx, userID, input)
	}
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func authedRequest(method, target string, body io.Reader, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
}

func TestCheckoutPlacesOrder(t *testing.T) {
	userID := uuid.New()
	orderID := uuid.New()
	svc := &testCheckoutService{
		placeFn: func(ctx context.Context, uid uuid.UUID, input checkoutsvc.PlaceInput) (*models.Order, error) {
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			if input.PaymentMethod != enums.PaymentMethodCOD {
				t.Fatalf("unexpected payment method %s", input.PaymentMethod)
			}
			return &models.Order{
				ID:            orderID,
				UserID:        uid,
				MerchantID:    uuid.New(),
				AddressID:     uuid.New(),
				Status:        enums.OrderStatusPlaced,
				PaymentMethod: enums.PaymentMethodCOD,
				SubtotalCents: 45000,
				TotalCents:    48750,
			}, nil
		},
	}

	body := strings.NewReader(`{"payment_method":"cod"}`)
	resp := httptest.NewRecorder()
	Checkout(svc, testLogger())(resp, authedRequest(http.MethodPost, "/api/v1/checkout", body, userID))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data orderResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != orderID {
		t.Fatalf("unexpected order id %s", envelope.Data.ID)
	}
	if envelope.Data.Status != string(enums.OrderStatusPlaced) {
		t.Fatalf("unexpected status %s", envelope.Data.Status)
	}
}

func TestCheckoutRejectsUnknownPaymentMethod(t *testing.T) {
	body := strings.NewReader(`{"payment_method":"crypto"}`)
	resp := httptest.NewRecorder()
	Checkout(&testCheckoutService{}, testLogger())(resp, authedRequest(http.MethodPost, "/api/v1/checkout", body, uuid.New()))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutSurfacesBlockedCart(t *testing.T) {
	svc := &testCheckoutService{
		placeFn: func(ctx context.Context, uid uuid.UUID, input checkoutsvc.PlaceInput) (*models.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty").
				WithDetails(map[string]any{"block_reason": "cart_empty"})
		},
	}

	body := strings.NewReader(`{"payment_method":"online"}`)
	resp := httptest.NewRecorder()
	Checkout(svc, testLogger())(resp, authedRequest(http.MethodPost, "/api/v1/checkout", body, uuid.New()))

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeStateConflict) {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
	if envelope.Error.Message != "cart is empty" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestCheckoutRequiresUserContext(t *testing.T) {
	body := strings.NewReader(`{"payment_method":"cod"}`)
	resp := httptest.NewRecorder()
	Checkout(&testCheckoutService{}, testLogger())(resp, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", body))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
