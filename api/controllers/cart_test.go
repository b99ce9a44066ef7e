package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	cartsvc "github.com/tuanleanh/shopline-backend/internal/cart"
	pkgerrors "github.com/tuanleanh/shopline-backend/pkg/errors"
)

type fakeCartService struct {
	cart *cartsvc.CartDTO
	err  error

	addReq    cartsvc.AddItemRequest
	removed   uuid.UUID
	updatedID uuid.UUID
	updatedQ  int
}

func (f *fakeCartService) GetCart(ctx context.Context, userID uuid.UUID) (*cartsvc.CartDTO, error) {
	return f.cart, f.err
}

func (f *fakeCartService) AddItem(ctx context.Context, userID uuid.UUID, req cartsvc.AddItemRequest) (*cartsvc.CartDTO, error) {
	f.addReq = req
	return f.cart, f.err
}

func (f *fakeCartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*cartsvc.CartDTO, error) {
	f.removed = productID
	return f.cart, f.err
}

func (f *fakeCartService) UpdateQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) (*cartsvc.CartDTO, error) {
	f.updatedID = lineID
	f.updatedQ = quantity
	return f.cart, f.err
}

func cartTestRouter(svc cartsvc.Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/cart", CartFetch(svc, nil))
	r.Post("/cart/items", CartAddItem(svc, nil))
	r.Delete("/cart/items/{productId}", CartRemoveItem(svc, nil))
	r.Patch("/cart/lines/{lineId}", CartUpdateLine(svc, nil))
	return r
}

func TestCartFetch_NotFoundBeforeFirstAdd(t *testing.T) {
	svc := &fakeCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")}
	router := cartTestRouter(svc)

	req := withUser(httptest.NewRequest(http.MethodGet, "/cart", nil), uuid.New())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCartAddItem_PassesPayload(t *testing.T) {
	productID := uuid.New()
	svc := &fakeCartService{cart: &cartsvc.CartDTO{ID: uuid.New(), Status: "active"}}
	router := cartTestRouter(svc)

	body := `{"product_id":"` + productID.String() + `","quantity":3}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(body)), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.addReq.ProductID != productID || svc.addReq.Quantity != 3 {
		t.Fatalf("unexpected payload forwarded: %+v", svc.addReq)
	}
}

func TestCartAddItem_RejectsZeroQuantity(t *testing.T) {
	svc := &fakeCartService{cart: &cartsvc.CartDTO{}}
	router := cartTestRouter(svc)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":0}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(body)), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero quantity, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestCartRemoveItem_BadProductID(t *testing.T) {
	svc := &fakeCartService{cart: &cartsvc.CartDTO{}}
	router := cartTestRouter(svc)

	req := withUser(httptest.NewRequest(http.MethodDelete, "/cart/items/not-a-uuid", nil), uuid.New())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad product id, got %d", rec.Code)
	}
}

func TestCartUpdateLine_ForwardsQuantity(t *testing.T) {
	lineID := uuid.New()
	svc := &fakeCartService{cart: &cartsvc.CartDTO{ID: uuid.New(), Status: "active"}}
	router := cartTestRouter(svc)

	req := withUser(httptest.NewRequest(http.MethodPatch, "/cart/lines/"+lineID.String(), strings.NewReader(`{"quantity":5}`)), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.updatedID != lineID || svc.updatedQ != 5 {
		t.Fatalf("unexpected update forwarded: line=%s qty=%d", svc.updatedID, svc.updatedQ)
	}
}
