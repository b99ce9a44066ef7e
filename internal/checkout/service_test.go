package checkout

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tuanleanh/shopline-backend/internal/cart"
	"github.com/tuanleanh/shopline-backend/internal/orders"
	"github.com/tuanleanh/shopline-backend/pkg/config"
	"github.com/tuanleanh/shopline-backend/pkg/enums"
	pkgerrors "github.com/tuanleanh/shopline-backend/pkg/errors"
	"github.com/tuanleanh/shopline-backend/pkg/logger"
)

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type fakeGateway struct {
	lastRequest *SessionRequest
	result      *SessionResult
	err         error
}

func (f *fakeGateway) CreateSession(_ context.Context, req SessionRequest) (*SessionResult, error) {
	f.lastRequest = &req
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &SessionResult{SessionID: "cs_test_abc", URL: "https://checkout.stripe.com/pay/cs_test_abc"}, nil
}

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL,
  images TEXT NOT NULL DEFAULT '{}',
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  status TEXT NOT NULL DEFAULT 'pending',
  total_price NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS cart_lines (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  total NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_lines (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  quantity INTEGER NOT NULL,
  price NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS payments (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  session_id TEXT NOT NULL DEFAULT '',
  amount NUMERIC NOT NULL,
  method TEXT NOT NULL DEFAULT 'card',
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func seedCheckoutCart(t *testing.T, db *gorm.DB, userID uuid.UUID) {
	t.Helper()

	productID := uuid.New()
	err := db.Exec(
		`INSERT INTO products (id, name, description, price, images, is_active, created_at, updated_at)
		 VALUES (?, 'Widget', 'A widget', '12.50', '{}', 1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		productID.String(),
	).Error
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}

	cartID := uuid.New()
	err = db.Exec(
		`INSERT INTO carts (id, user_id, status, total_price, created_at, updated_at)
		 VALUES (?, ?, 'pending', '25.00', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		cartID.String(), userID.String(),
	).Error
	if err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	err = db.Exec(
		`INSERT INTO cart_lines (id, cart_id, product_id, quantity, unit_price, created_at, updated_at)
		 VALUES (?, ?, ?, 2, '12.50', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		uuid.NewString(), cartID.String(), productID.String(),
	).Error
	if err != nil {
		t.Fatalf("seed cart line: %v", err)
	}
}

func newCheckoutService(t *testing.T, db *gorm.DB, gateway PaymentSessionCreator) Service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "checkout-test", Output: &bytes.Buffer{}})
	cfg := config.CheckoutConfig{
		SuccessURL: "https://shop.example.com/checkout/success",
		CancelURL:  "https://shop.example.com/cart",
		Currency:   "usd",
	}

	svc, err := NewService(cart.NewRepository(db), orders.NewRepository(db), testTxRunner{db: db}, gateway, cfg, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCheckoutSnapshotsCartIntoPendingOrder(t *testing.T) {
	db := setupCheckoutTestDB(t)
	gateway := &fakeGateway{}
	svc := newCheckoutService(t, db, gateway)
	ctx := context.Background()
	userID := uuid.New()

	seedCheckoutCart(t, db, userID)

	resp, err := svc.Checkout(ctx, userID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if resp.SessionID != "cs_test_abc" {
		t.Fatalf("unexpected session id %q", resp.SessionID)
	}

	order, err := orders.NewRepository(db).FindByIDAndUser(ctx, resp.OrderID, userID)
	if err != nil {
		t.Fatalf("load order: %v", err)
	}
	if order.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending order, got %s", order.Status)
	}
	if !order.Total.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("expected total 25.00, got %s", order.Total)
	}
	if len(order.Lines) != 1 || order.Lines[0].Name != "Widget" || order.Lines[0].Quantity != 2 {
		t.Fatalf("unexpected lines %+v", order.Lines)
	}
	if order.Payment == nil || order.Payment.SessionID != "cs_test_abc" {
		t.Fatalf("expected recorded session, got %+v", order.Payment)
	}

	// the cart must survive until the order completes
	var lineCount int64
	if err := db.Table("cart_lines").Count(&lineCount).Error; err != nil {
		t.Fatalf("count cart lines: %v", err)
	}
	if lineCount != 1 {
		t.Fatalf("checkout must not clear the cart, got %d lines", lineCount)
	}
}

func TestCheckoutSendsMinorUnitsAndOrderID(t *testing.T) {
	db := setupCheckoutTestDB(t)
	gateway := &fakeGateway{}
	svc := newCheckoutService(t, db, gateway)
	userID := uuid.New()

	seedCheckoutCart(t, db, userID)

	resp, err := svc.Checkout(context.Background(), userID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	req := gateway.lastRequest
	if req == nil {
		t.Fatal("expected gateway call")
	}
	if req.OrderID != resp.OrderID {
		t.Fatalf("expected order id %s, got %s", resp.OrderID, req.OrderID)
	}
	if len(req.Lines) != 1 || req.Lines[0].UnitAmount != 1250 || req.Lines[0].Quantity != 2 {
		t.Fatalf("unexpected gateway lines %+v", req.Lines)
	}
	if !strings.Contains(req.SuccessURL, "order_id="+resp.OrderID.String()) {
		t.Fatalf("success url missing order id: %q", req.SuccessURL)
	}
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, db, &fakeGateway{})
	ctx := context.Background()

	// no cart at all
	_, err := svc.Checkout(ctx, uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}

	// cart exists but has no lines
	userID := uuid.New()
	if err := db.Exec(
		`INSERT INTO carts (id, user_id, status, total_price, created_at, updated_at)
		 VALUES (?, ?, 'pending', '0', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		uuid.NewString(), userID.String(),
	).Error; err != nil {
		t.Fatalf("seed empty cart: %v", err)
	}

	_, err = svc.Checkout(ctx, userID)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT for empty cart, got %v", err)
	}
}

func TestCheckoutGatewayFailureLeavesOrderPending(t *testing.T) {
	db := setupCheckoutTestDB(t)
	gateway := &fakeGateway{err: fmt.Errorf("stripe unavailable")}
	svc := newCheckoutService(t, db, gateway)
	ctx := context.Background()
	userID := uuid.New()

	seedCheckoutCart(t, db, userID)

	_, err := svc.Checkout(ctx, userID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected DEPENDENCY_ERROR, got %v", err)
	}

	var count int64
	if err := db.Table("orders").Where("status = ?", "pending").Count(&count).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected pending order to survive gateway failure, got %d", count)
	}
}

func TestMinorUnitsRounding(t *testing.T) {
	t.Parallel()

	cases := []struct {
		price string
		want  int64
	}{
		{price: "25.00", want: 2500},
		{price: "12.50", want: 1250},
		{price: "0.99", want: 99},
		{price: "10.005", want: 1001},
	}
	for _, tc := range cases {
		if got := minorUnits(decimal.RequireFromString(tc.price)); got != tc.want {
			t.Errorf("minorUnits(%s) = %d, want %d", tc.price, got, tc.want)
		}
	}
}

func TestBuildSessionParamsCarriesMetadata(t *testing.T) {
	t.Parallel()

	orderID := uuid.New()
	params := buildSessionParams(SessionRequest{
		OrderID:    orderID,
		Currency:   "usd",
		SuccessURL: "https://shop.example.com/success",
		CancelURL:  "https://shop.example.com/cancel",
		Lines:      []SessionLine{{Name: "Widget", UnitAmount: 1250, Quantity: 2}},
	})

	if params.Metadata["order_id"] != orderID.String() {
		t.Fatalf("expected order_id metadata, got %v", params.Metadata)
	}
	if *params.Mode != "payment" {
		t.Fatalf("expected payment mode, got %s", *params.Mode)
	}
	if len(params.LineItems) != 1 || *params.LineItems[0].PriceData.UnitAmount != 1250 {
		t.Fatalf("unexpected line items %+v", params.LineItems)
	}
	if params.LineItems[0].PriceData.ProductData.Description != nil {
		t.Fatal("empty description must be omitted")
	}
}
