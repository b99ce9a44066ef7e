package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanleanh/shopline-backend/pkg/db/models"
)

// CartLineDTO is one product line inside the cart payload.
type CartLineDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// CartDTO is the cart payload returned to clients.
type CartDTO struct {
	ID         uuid.UUID       `json:"id"`
	Status     string          `json:"status"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Lines      []CartLineDTO   `json:"lines"`
}

// AddItemRequest is the add-to-cart payload.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// UpdateQuantityRequest changes one line's quantity; zero or less removes it.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}

func toCartDTO(cart *models.Cart) *CartDTO {
	lines := make([]CartLineDTO, 0, len(cart.Lines))
	for i := range cart.Lines {
		line := &cart.Lines[i]
		name := ""
		if line.Product != nil {
			name = line.Product.Name
		}
		lines = append(lines, CartLineDTO{
			ID:        line.ID,
			ProductID: line.ProductID,
			Name:      name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
	}
	return &CartDTO{
		ID:         cart.ID,
		Status:     cart.Status.String(),
		TotalPrice: cart.TotalPrice,
		Lines:      lines,
	}
}
