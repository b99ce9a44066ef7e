package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tuanleanh/shopline-backend/api/responses"
	checkoutsvc "github.com/tuanleanh/shopline-backend/internal/checkout"
	ordersvc "github.com/tuanleanh/shopline-backend/internal/orders"
	pkgerrors "github.com/tuanleanh/shopline-backend/pkg/errors"
	"github.com/tuanleanh/shopline-backend/pkg/logger"
)

// Checkout snapshots the caller's cart into a pending order and opens a
// hosted payment session for it.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Checkout(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// CheckoutSuccess lands the buyer after payment. Completion here is advisory;
// the webhook delivers the same transition and whichever arrives first wins.
func CheckoutSuccess(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		raw := r.URL.Query().Get("order_id")
		if raw == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order_id missing"))
			return
		}

		orderID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		if err := svc.Complete(r.Context(), orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// Complete is a no-op for unknown or already-settled orders, so this
		// acknowledges the redirect rather than vouching for the order state.
		responses.WriteSuccess(w, map[string]string{
			"order_id": orderID.String(),
			"status":   "received",
		})
	}
}
