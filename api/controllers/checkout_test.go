package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/tuanleanh/shopline-backend/api/middleware"
	checkoutsvc "github.com/tuanleanh/shopline-backend/internal/checkout"
	ordersvc "github.com/tuanleanh/shopline-backend/internal/orders"
	pkgerrors "github.com/tuanleanh/shopline-backend/pkg/errors"
	"github.com/tuanleanh/shopline-backend/pkg/pagination"
)

type fakeCheckoutService struct {
	result *checkoutsvc.CheckoutResponse
	err    error
	userID uuid.UUID
}

func (f *fakeCheckoutService) Checkout(ctx context.Context, userID uuid.UUID) (*checkoutsvc.CheckoutResponse, error) {
	f.userID = userID
	return f.result, f.err
}

type fakeOrderService struct {
	completeErr error
	completed   []uuid.UUID
}

func (f *fakeOrderService) Complete(ctx context.Context, orderID uuid.UUID) error {
	f.completed = append(f.completed, orderID)
	return f.completeErr
}

func (f *fakeOrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*ordersvc.OrderDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (f *fakeOrderService) ListOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ordersvc.OrderListDTO, error) {
	return &ordersvc.OrderListDTO{}, nil
}

func withUser(req *http.Request, userID uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
}

func TestCheckout_RequiresUserContext(t *testing.T) {
	handler := Checkout(&fakeCheckoutService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user context, got %d", rec.Code)
	}
}

func TestCheckout_CreatesSession(t *testing.T) {
	userID := uuid.New()
	svc := &fakeCheckoutService{
		result: &checkoutsvc.CheckoutResponse{
			OrderID:   uuid.New(),
			SessionID: "cs_test_123",
			URL:       "https://pay.example/cs_test_123",
		},
	}
	handler := Checkout(svc, nil)

	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil), userID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.userID != userID {
		t.Fatalf("expected service called with %s, got %s", userID, svc.userID)
	}
}

func TestCheckout_EmptyCartConflict(t *testing.T) {
	svc := &fakeCheckoutService{err: pkgerrors.New(pkgerrors.CodeConflict, "cart is empty")}
	handler := Checkout(svc, nil)

	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil), uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for empty cart, got %d", rec.Code)
	}
}

func TestCheckoutSuccess_MissingOrderID(t *testing.T) {
	orders := &fakeOrderService{}
	handler := CheckoutSuccess(orders, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/success", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without order_id, got %d", rec.Code)
	}
	if len(orders.completed) != 0 {
		t.Fatalf("no completion expected, got %v", orders.completed)
	}
}

// Complete treats unknown and already-settled orders as a no-op, so the
// landing response may not vouch for the order having completed.
func TestCheckoutSuccess_AcknowledgesWithoutClaimingCompletion(t *testing.T) {
	orders := &fakeOrderService{}
	handler := CheckoutSuccess(orders, nil)

	orderID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/success?order_id="+orderID.String(), nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["order_id"] != orderID.String() {
		t.Fatalf("expected order_id %s, got %q", orderID, envelope.Data["order_id"])
	}
	if envelope.Data["status"] != "received" {
		t.Fatalf("expected status received, got %q", envelope.Data["status"])
	}
}

func TestCheckoutSuccess_CompletionFailurePropagates(t *testing.T) {
	orders := &fakeOrderService{completeErr: pkgerrors.New(pkgerrors.CodeInternal, "settling payment")}
	handler := CheckoutSuccess(orders, nil)

	orderID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/success?order_id="+orderID.String(), nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on completion failure, got %d", rec.Code)
	}
}
