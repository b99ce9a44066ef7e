package orders

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tuanleanh/shopline-backend/pkg/db/models"
	"github.com/tuanleanh/shopline-backend/pkg/enums"
	"github.com/tuanleanh/shopline-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	statements := []string{
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
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func newPendingOrder(userID uuid.UUID) *models.Order {
	return &models.Order{
		UserID: userID,
		Status: enums.OrderStatusPending,
		Total:  decimal.RequireFromString("25.00"),
		Lines: []models.OrderLine{
			{
				ProductID:   uuid.New(),
				Name:        "Widget",
				Description: "A widget",
				Quantity:    2,
				Price:       decimal.RequireFromString("12.50"),
			},
		},
		Payment: &models.Payment{
			Amount: decimal.RequireFromString("25.00"),
			Method: enums.PaymentMethodCard,
			Status: enums.PaymentStatusPending,
		},
	}
}

func TestCreateWithLinesPersistsAggregate(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	created, err := repo.CreateWithLines(ctx, newPendingOrder(userID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	loaded, err := repo.FindByIDAndUser(ctx, created.ID, userID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(loaded.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(loaded.Lines))
	}
	if loaded.Payment == nil || !loaded.Payment.Amount.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("unexpected payment %+v", loaded.Payment)
	}
	if loaded.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending, got %s", loaded.Status)
	}
}

func TestMarkCompletedIfPendingHasOneWinner(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.CreateWithLines(ctx, newPendingOrder(uuid.New()))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	won, err := repo.MarkCompletedIfPending(ctx, created.ID)
	if err != nil {
		t.Fatalf("first attempt: %v", err)
	}
	if !won {
		t.Fatal("expected first attempt to win")
	}

	won, err = repo.MarkCompletedIfPending(ctx, created.ID)
	if err != nil {
		t.Fatalf("second attempt: %v", err)
	}
	if won {
		t.Fatal("expected second attempt to lose")
	}

	loaded, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if loaded.Status != enums.OrderStatusCompleted {
		t.Fatalf("expected completed, got %s", loaded.Status)
	}
}

func TestMarkCompletedIfPendingUnknownOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	won, err := repo.MarkCompletedIfPending(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if won {
		t.Fatal("expected no winner for unknown order")
	}
}

func TestSettlePaymentAndSession(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.CreateWithLines(ctx, newPendingOrder(uuid.New()))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.UpdatePaymentSession(ctx, created.ID, "cs_test_123"); err != nil {
		t.Fatalf("update session: %v", err)
	}
	if err := repo.SettlePayment(ctx, created.ID); err != nil {
		t.Fatalf("settle: %v", err)
	}

	loaded, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if loaded.Payment.SessionID != "cs_test_123" {
		t.Fatalf("expected session recorded, got %q", loaded.Payment.SessionID)
	}
	if loaded.Payment.Status != enums.PaymentStatusCompleted {
		t.Fatalf("expected completed payment, got %s", loaded.Payment.Status)
	}
}

func TestListByUserPaginates(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		if _, err := repo.CreateWithLines(ctx, newPendingOrder(userID)); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	if _, err := repo.CreateWithLines(ctx, newPendingOrder(uuid.New())); err != nil {
		t.Fatalf("create other user: %v", err)
	}

	items, total, err := repo.ListByUser(ctx, userID, pagination.Params{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total 3, got %d", total)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}
