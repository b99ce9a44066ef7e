package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tuanleanh/shopline-backend/internal/cart"
	pkgerrors "github.com/tuanleanh/shopline-backend/pkg/errors"
	"github.com/tuanleanh/shopline-backend/pkg/logger"
	"github.com/tuanleanh/shopline-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes order reads plus the idempotent completion used by both
// the payment webhook and the browser success redirect.
type Service interface {
	Complete(ctx context.Context, orderID uuid.UUID) error
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderListDTO, error)
}

type service struct {
	repo  Repository
	carts cart.Repository
	tx    txRunner
	logg  *logger.Logger
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, carts cart.Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, carts: carts, tx: tx, logg: logg}, nil
}

// Complete settles the order exactly once. Whichever caller flips the order
// from pending to completed also clears the owner's cart and settles the
// payment in the same transaction; every other caller is a successful no-op,
// so webhook retries and redirect races cannot double-apply.
func (s *service) Complete(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logg.Warn(s.logg.WithField(ctx, "order_id", orderID.String()), "completion for unknown order ignored")
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		won, err := repo.MarkCompletedIfPending(ctx, order.ID)
		if err != nil {
			return err
		}
		if !won {
			// duplicate delivery or lost race
			return nil
		}

		if err := repo.SettlePayment(ctx, order.ID); err != nil {
			return err
		}

		carts := s.carts.WithTx(tx)
		userCart, err := carts.FindByUser(ctx, order.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		return carts.ClearLines(ctx, userCart.ID)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "completing order")
	}
	return nil
}

func (s *service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return toOrderDTO(order), nil
}

func (s *service) ListOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderListDTO, error) {
	params = pagination.Normalize(params)

	items, total, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}

	dtos := make([]OrderDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *toOrderDTO(&items[i]))
	}

	return &OrderListDTO{
		Orders: dtos,
		Total:  total,
		Page:   params.Page,
		Limit:  params.Limit,
	}, nil
}
