package payment

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/shopcore/backend/internal/application/tx"
	"github.com/shopcore/backend/internal/domain/order"
	"github.com/shopcore/backend/internal/domain/payment"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/infrastructure/telemetry"
)

// WebhookResult contains the outcome of processing a gateway webhook.
// A replayed, already-settled event is not an error: it reports Applied=false
// with a 200 outcome.
type WebhookResult struct {
	EventID string            `json:"event_id"`
	Kind    payment.EventKind `json:"kind"`
	Applied bool              `json:"applied"`
	Message string            `json:"message,omitempty"`
}

// WebhookService reconciles asynchronous gateway events against local orders.
// Correctness under at-least-once, out-of-order delivery relies entirely on
// the status-guarded conditional transitions, not on event-id deduplication.
type WebhookService struct {
	gateway payment.Gateway
	scope   tx.Scope
	logger  *zap.Logger
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(gateway payment.Gateway, scope tx.Scope, logger *zap.Logger) *WebhookService {
	return &WebhookService{
		gateway: gateway,
		scope:   scope,
		logger:  logger,
	}
}

// Handle verifies and applies one raw webhook delivery. Unverifiable payloads
// are rejected before any transaction is opened.
func (s *WebhookService) Handle(ctx context.Context, payload []byte, sigHeader string) (*WebhookResult, error) {
	event, err := s.gateway.VerifyEvent(payload, sigHeader)
	if err != nil {
		s.logger.Warn("Rejected unverifiable webhook payload", zap.Error(err))
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "payment_webhook", "handle",
		attribute.String("event_id", event.ID),
		attribute.String("event_kind", string(event.Kind)))
	defer span.End()

	s.logger.Info("Processing gateway event",
		zap.String("event_id", event.ID),
		zap.String("kind", string(event.Kind)))

	switch event.Kind {
	case payment.EventKindCompleted:
		return s.applySettlement(ctx, event)
	case payment.EventKindExpired:
		return s.applyExpiry(ctx, event)
	case payment.EventKindOther:
		return &WebhookResult{
			EventID: event.ID,
			Kind:    event.Kind,
			Applied: false,
			Message: "event kind not handled",
		}, nil
	}
	return &WebhookResult{EventID: event.ID, Kind: event.Kind, Applied: false, Message: "event kind not handled"}, nil
}

// applySettlement settles a pending_payment order: one transaction covering
// the conditional status check-and-set, the per-item stock decrements and the
// cart clear. Losing the check-and-set means the event was already applied or
// the order was cancelled; both are acknowledged no-ops.
func (s *WebhookService) applySettlement(ctx context.Context, event payment.Event) (*WebhookResult, error) {
	result := &WebhookResult{EventID: event.ID, Kind: event.Kind}
	orderID := event.Token.OrderID()

	err := s.scope.Execute(ctx, func(repos tx.Repositories) error {
		o, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		now := time.Now()
		applied, err := repos.OrderRepo().Settle(ctx, orderID, now)
		if err != nil {
			return err
		}
		if !applied {
			result.Message = "order not in pending_payment; nothing to settle"
			return nil
		}
		o.Settle(now)

		for _, item := range o.Items {
			if err := repos.ProductRepo().DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := repos.CartRepo().ClearForUser(ctx, o.UserID); err != nil {
			return err
		}

		result.Applied = true
		return nil
	})
	if err != nil {
		// Unknown correlation tokens are acknowledged: the gateway may emit
		// events for sessions this system never created.
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("No order for correlation token",
				zap.String("event_id", event.ID),
				zap.String("order_id", orderID.String()))
			result.Message = "no order for correlation token"
			return result, nil
		}
		s.logger.Error("Failed to settle order",
			zap.String("event_id", event.ID),
			zap.String("order_id", orderID.String()),
			zap.Error(err))
		return nil, err
	}

	if result.Applied {
		s.logger.Info("Order settled",
			zap.String("event_id", event.ID),
			zap.String("order_id", orderID.String()))
	}

	return result, nil
}

// applyExpiry cancels an order whose payment session expired. Stock was never
// reserved on the deferred path, so none is restored. Orders past
// pending_payment are left alone.
func (s *WebhookService) applyExpiry(ctx context.Context, event payment.Event) (*WebhookResult, error) {
	result := &WebhookResult{EventID: event.ID, Kind: event.Kind}
	orderID := event.Token.OrderID()

	err := s.scope.Execute(ctx, func(repos tx.Repositories) error {
		for _, from := range []order.Status{order.StatusPendingPayment, order.StatusPending} {
			applied, err := repos.OrderRepo().TransitionStatus(ctx, orderID, from, order.StatusCancelled)
			if err != nil {
				return err
			}
			if applied {
				result.Applied = true
				return nil
			}
		}
		result.Message = "order not awaiting payment; nothing to cancel"
		return nil
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			result.Message = "no order for correlation token"
			return result, nil
		}
		s.logger.Error("Failed to cancel expired order",
			zap.String("event_id", event.ID),
			zap.String("order_id", orderID.String()),
			zap.Error(err))
		return nil, err
	}

	if result.Applied {
		s.logger.Info("Expired order cancelled",
			zap.String("event_id", event.ID),
			zap.String("order_id", orderID.String()))
	}

	return result, nil
}
