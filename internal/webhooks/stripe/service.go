package stripewebhook

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	pkgerrors "github.com/tuanleanh/shopline-backend/pkg/errors"
	"github.com/tuanleanh/shopline-backend/pkg/logger"
)

type orderCompleter interface {
	Complete(ctx context.Context, orderID uuid.UUID) error
}

// ServiceParams bundles the dependencies required to build the webhook service.
type ServiceParams struct {
	Orders orderCompleter
	Logger *logger.Logger
}

// Service routes verified Stripe events to the order ledger.
type Service struct {
	orders orderCompleter
	logg   *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders service required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{orders: params.Orders, logg: params.Logger}, nil
}

// HandleEvent applies the event to the order ledger. Events this service
// does not care about are acknowledged without side effects.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode checkout session event")
		}
		return s.completeOrder(ctx, event.ID, session.Metadata)
	default:
		return nil
	}
}

func (s *Service) completeOrder(ctx context.Context, eventID string, metadata map[string]string) error {
	raw, ok := metadata["order_id"]
	if !ok || raw == "" {
		ctx = s.logg.WithField(ctx, "event_id", eventID)
		s.logg.Warn(ctx, "checkout session completed without order_id metadata")
		return nil
	}

	orderID, err := uuid.Parse(raw)
	if err != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{"event_id": eventID, "order_id": raw})
		s.logg.Warn(ctx, "checkout session completed with malformed order_id metadata")
		return nil
	}

	return s.orders.Complete(ctx, orderID)
}
