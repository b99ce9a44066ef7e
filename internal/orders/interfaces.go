package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tuanleanh/shopline-backend/pkg/db/models"
	"github.com/tuanleanh/shopline-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their payments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateWithLines(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindByIDAndUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, int64, error)
	MarkCompletedIfPending(ctx context.Context, orderID uuid.UUID) (bool, error)
	UpdatePaymentSession(ctx context.Context, orderID uuid.UUID, sessionID string) error
	SettlePayment(ctx context.Context, orderID uuid.UUID) error
}
