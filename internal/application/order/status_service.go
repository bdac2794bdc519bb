package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopcore/backend/internal/application/checkout"
	"github.com/shopcore/backend/internal/domain/order"
	"github.com/shopcore/backend/internal/domain/shared"
)

// Notifier is the fire-and-forget email collaborator told about status
// changes. A notification failure is observed only through logging; it never
// affects the already-committed transition.
type Notifier interface {
	Notify(ctx context.Context, orderID uuid.UUID, newStatus order.Status) error
}

// StatusService enforces the fulfillment status lifecycle for
// administrator-driven changes.
type StatusService struct {
	orderRepo order.Repository
	notifier  Notifier
	logger    *zap.Logger
}

// NewStatusService creates a new StatusService
func NewStatusService(orderRepo order.Repository, notifier Notifier, logger *zap.Logger) *StatusService {
	return &StatusService{
		orderRepo: orderRepo,
		notifier:  notifier,
		logger:    logger,
	}
}

// Transition moves an order along the status DAG. The edge check plus the
// conditional check-and-set write means a stale read loses cleanly: the
// update only lands while the status still equals what was checked.
func (s *StatusService) Transition(ctx context.Context, orderID uuid.UUID, target order.Status, actor order.Actor) (*checkout.OrderResponse, error) {
	if !target.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Unknown status %q", target))
	}

	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	from := o.Status
	if err := o.TransitionTo(target, actor); err != nil {
		return nil, err
	}

	applied, err := s.orderRepo.TransitionStatus(ctx, orderID, from, target)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, shared.ErrConcurrencyConflict
	}

	s.logger.Info("Order status changed",
		zap.String("order_id", orderID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(target)),
		zap.String("actor", string(actor)))

	// Fire-and-forget: dispatched after the commit, failure only logged.
	go s.notify(orderID, target)

	resp := checkout.ToOrderResponse(o)
	return &resp, nil
}

// GetByID retrieves an order with its items
func (s *StatusService) GetByID(ctx context.Context, orderID uuid.UUID) (*checkout.OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := checkout.ToOrderResponse(o)
	return &resp, nil
}

// ListByUser retrieves a user's orders, newest first
func (s *StatusService) ListByUser(ctx context.Context, userID uuid.UUID) ([]checkout.OrderResponse, error) {
	orders, err := s.orderRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	responses := make([]checkout.OrderResponse, len(orders))
	for i := range orders {
		responses[i] = checkout.ToOrderResponse(&orders[i])
	}
	return responses, nil
}

// notify runs outside the request transaction with its own timeout-free
// background context; the request may already have completed.
func (s *StatusService) notify(orderID uuid.UUID, newStatus order.Status) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(context.Background(), orderID, newStatus); err != nil {
		s.logger.Warn("Status notification failed",
			zap.String("order_id", orderID.String()),
			zap.String("status", string(newStatus)),
			zap.Error(err))
	}
}
