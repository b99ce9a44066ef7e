package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanleanh/shopline-backend/pkg/enums"
)

// Cart is the single mutable cart owned by a user. It is emptied, never
// deleted, when a checkout completes.
type Cart struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID        `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Status     enums.CartStatus `gorm:"column:status;not null;default:'pending'"`
	TotalPrice decimal.Decimal  `gorm:"column:total_price;type:numeric(12,2);not null;default:0"`
	Lines      []CartLine       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
