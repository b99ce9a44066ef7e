package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanleanh/shopline-backend/pkg/db/models"
)

// OrderLineDTO is one snapshotted product line on an order.
type OrderLineDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// PaymentDTO is the audit view of an order's gateway session.
type PaymentDTO struct {
	SessionID string          `json:"session_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Status    string          `json:"status"`
}

// OrderDTO is the order payload returned to clients.
type OrderDTO struct {
	ID        uuid.UUID       `json:"id"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	Lines     []OrderLineDTO  `json:"lines"`
	Payment   *PaymentDTO     `json:"payment,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderListDTO wraps an order history page plus paging metadata.
type OrderListDTO struct {
	Orders []OrderDTO `json:"orders"`
	Total  int64      `json:"total"`
	Page   int        `json:"page"`
	Limit  int        `json:"limit"`
}

func toOrderDTO(order *models.Order) *OrderDTO {
	lines := make([]OrderLineDTO, 0, len(order.Lines))
	for i := range order.Lines {
		line := &order.Lines[i]
		lines = append(lines, OrderLineDTO{
			ID:          line.ID,
			ProductID:   line.ProductID,
			Name:        line.Name,
			Description: line.Description,
			Quantity:    line.Quantity,
			Price:       line.Price,
		})
	}

	var payment *PaymentDTO
	if order.Payment != nil {
		payment = &PaymentDTO{
			SessionID: order.Payment.SessionID,
			Amount:    order.Payment.Amount,
			Method:    order.Payment.Method.String(),
			Status:    order.Payment.Status.String(),
		}
	}

	return &OrderDTO{
		ID:        order.ID,
		Status:    order.Status.String(),
		Total:     order.Total,
		Lines:     lines,
		Payment:   payment,
		CreatedAt: order.CreatedAt,
	}
}
