package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/checkout/session"

	pkgstripe "github.com/tuanleanh/shopline-backend/pkg/stripe"
)

// SessionLine is one display line forwarded to the payment gateway, with the
// amount already converted to minor units.
type SessionLine struct {
	Name        string
	Description string
	UnitAmount  int64
	Quantity    int64
}

// SessionRequest carries everything the gateway needs to host a payment page.
type SessionRequest struct {
	OrderID    uuid.UUID
	Currency   string
	SuccessURL string
	CancelURL  string
	Lines      []SessionLine
}

// SessionResult is the hosted payment page reference.
type SessionResult struct {
	SessionID string
	URL       string
}

// PaymentSessionCreator opens a hosted payment session for an order.
type PaymentSessionCreator interface {
	CreateSession(ctx context.Context, req SessionRequest) (*SessionResult, error)
}

type stripeGateway struct{}

// NewStripeGateway wraps the shared Stripe client so the checkout service can
// be tested against a fake.
func NewStripeGateway(api *pkgstripe.Client) PaymentSessionCreator {
	if api == nil {
		return nil
	}
	return &stripeGateway{}
}

func (g *stripeGateway) CreateSession(ctx context.Context, req SessionRequest) (*SessionResult, error) {
	params := buildSessionParams(req)
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("creating checkout session: %w", err)
	}
	return &SessionResult{SessionID: sess.ID, URL: sess.URL}, nil
}

func buildSessionParams(req SessionRequest) *stripe.CheckoutSessionParams {
	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Lines))
	for _, line := range req.Lines {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(line.Name),
		}
		if line.Description != "" {
			productData.Description = stripe.String(line.Description)
		}
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(req.Currency),
				ProductData: productData,
				UnitAmount:  stripe.Int64(line.UnitAmount),
			},
			Quantity: stripe.Int64(line.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems:  items,
	}
	params.AddMetadata("order_id", req.OrderID.String())
	return params
}
