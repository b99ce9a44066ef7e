package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tuanleanh/shopline-backend/pkg/db/models"
)

// Repository defines persistence operations for carts and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	FindLineByProduct(ctx context.Context, cartID, productID uuid.UUID) (*models.CartLine, error)
	FindLineByID(ctx context.Context, cartID, lineID uuid.UUID) (*models.CartLine, error)
	CreateLine(ctx context.Context, line *models.CartLine) error
	UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error
	DeleteLine(ctx context.Context, lineID uuid.UUID) error
	DeleteLineByProduct(ctx context.Context, cartID, productID uuid.UUID) (int64, error)
	RecalculateTotal(ctx context.Context, cartID uuid.UUID) error
	ClearLines(ctx context.Context, cartID uuid.UUID) error
}
