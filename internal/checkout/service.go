package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tuanleanh/shopline-backend/internal/cart"
	"github.com/tuanleanh/shopline-backend/internal/orders"
	"github.com/tuanleanh/shopline-backend/pkg/config"
	"github.com/tuanleanh/shopline-backend/pkg/db/models"
	"github.com/tuanleanh/shopline-backend/pkg/enums"
	pkgerrors "github.com/tuanleanh/shopline-backend/pkg/errors"
	"github.com/tuanleanh/shopline-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CheckoutResponse points the client at the hosted payment page.
type CheckoutResponse struct {
	OrderID   uuid.UUID `json:"order_id"`
	SessionID string    `json:"session_id"`
	URL       string    `json:"url"`
}

// Service turns the user's cart into a pending order and opens the payment
// session for it.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID) (*CheckoutResponse, error)
}

type service struct {
	carts   cart.Repository
	orders  orders.Repository
	tx      txRunner
	gateway PaymentSessionCreator
	cfg     config.CheckoutConfig
	logg    *logger.Logger
}

// NewService builds a checkout service with the required dependencies.
func NewService(carts cart.Repository, orderRepo orders.Repository, tx txRunner, gateway PaymentSessionCreator, cfg config.CheckoutConfig, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		carts:   carts,
		orders:  orderRepo,
		tx:      tx,
		gateway: gateway,
		cfg:     cfg,
		logg:    logg,
	}, nil
}

// Checkout snapshots the cart into a pending order before touching the
// gateway. A gateway failure leaves the pending order behind; the cart is
// only cleared later, when the order completes.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID) (*CheckoutResponse, error) {
	userCart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	if len(userCart.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart is empty")
	}

	order := buildOrder(userCart)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.orders.WithTx(tx).CreateWithLines(ctx, order)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
	}

	result, err := s.gateway.CreateSession(ctx, s.sessionRequest(order))
	if err != nil {
		ctx = s.logg.WithField(ctx, "order_id", order.ID.String())
		s.logg.Error(ctx, "payment session creation failed, order left pending", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "opening payment session")
	}

	if err := s.orders.UpdatePaymentSession(ctx, order.ID, result.SessionID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording payment session")
	}

	return &CheckoutResponse{
		OrderID:   order.ID,
		SessionID: result.SessionID,
		URL:       result.URL,
	}, nil
}

func buildOrder(userCart *models.Cart) *models.Order {
	lines := make([]models.OrderLine, 0, len(userCart.Lines))
	total := decimal.Zero
	for i := range userCart.Lines {
		cartLine := &userCart.Lines[i]
		name := ""
		description := ""
		if cartLine.Product != nil {
			name = cartLine.Product.Name
			description = cartLine.Product.Description
		}
		lines = append(lines, models.OrderLine{
			ProductID:   cartLine.ProductID,
			Name:        name,
			Description: description,
			Quantity:    cartLine.Quantity,
			Price:       cartLine.UnitPrice,
		})
		total = total.Add(cartLine.UnitPrice.Mul(decimal.NewFromInt(int64(cartLine.Quantity))))
	}

	return &models.Order{
		UserID: userCart.UserID,
		Status: enums.OrderStatusPending,
		Total:  total,
		Lines:  lines,
		Payment: &models.Payment{
			Amount: total,
			Method: enums.PaymentMethodCard,
			Status: enums.PaymentStatusPending,
		},
	}
}

func (s *service) sessionRequest(order *models.Order) SessionRequest {
	lines := make([]SessionLine, 0, len(order.Lines))
	for i := range order.Lines {
		line := &order.Lines[i]
		lines = append(lines, SessionLine{
			Name:        line.Name,
			Description: line.Description,
			UnitAmount:  minorUnits(line.Price),
			Quantity:    int64(line.Quantity),
		})
	}

	return SessionRequest{
		OrderID:    order.ID,
		Currency:   s.cfg.Currency,
		SuccessURL: withOrderID(s.cfg.SuccessURL, order.ID),
		CancelURL:  s.cfg.CancelURL,
		Lines:      lines,
	}
}

// minorUnits converts a decimal major-unit price to gateway minor units.
func minorUnits(price decimal.Decimal) int64 {
	return price.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func withOrderID(rawURL string, orderID uuid.UUID) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	query.Set("order_id", orderID.String())
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
