package checkout

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/shopcore/backend/internal/application/tx"
	"github.com/shopcore/backend/internal/domain/cart"
	"github.com/shopcore/backend/internal/domain/order"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shared/valueobject"
	"github.com/shopcore/backend/internal/infrastructure/telemetry"
)

// Service turns a user's cart into a durable order. Two checkout policies
// share validation and total computation and diverge on when stock is touched:
// the immediate policy reserves stock at checkout, the deferred policy leaves
// reservation to the payment reconciler.
type Service struct {
	scope  tx.Scope
	logger *zap.Logger
}

// NewService creates a new checkout Service
func NewService(scope tx.Scope, logger *zap.Logger) *Service {
	return &Service{
		scope:  scope,
		logger: logger,
	}
}

// CreateImmediate runs the reserve-at-checkout policy: inside one transaction
// it validates the cart snapshot, creates the order with captured prices,
// decrements stock for every line and clears the cart. Any failure rolls the
// entire transaction back; nothing survives a partial failure.
func (s *Service) CreateImmediate(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "create_immediate",
		attribute.String("user_id", userID.String()))
	defer span.End()

	var resp OrderResponse

	err := s.scope.Execute(ctx, func(repos tx.Repositories) error {
		o, lines, err := s.buildOrder(ctx, repos, userID, order.StatusPending, req)
		if err != nil {
			return err
		}

		if err := repos.OrderRepo().Create(ctx, o); err != nil {
			return err
		}

		for _, line := range lines {
			if err := repos.ProductRepo().DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		if err := repos.CartRepo().ClearForUser(ctx, userID); err != nil {
			return err
		}

		resp = ToOrderResponse(o)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Immediate checkout completed",
		zap.String("user_id", userID.String()),
		zap.String("order_id", resp.ID.String()),
		zap.String("total", resp.Total))

	return &resp, nil
}

// CreateDeferred runs the reserve-at-confirmation policy: inside one
// transaction it validates and creates the order in pending_payment with
// captured prices, but does not touch stock and does not clear the cart.
// The returned order id is embedded as the correlation token in the payment
// session created afterwards; settlement is the reconciler's job.
func (s *Service) CreateDeferred(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "create_deferred",
		attribute.String("user_id", userID.String()))
	defer span.End()

	var resp OrderResponse

	err := s.scope.Execute(ctx, func(repos tx.Repositories) error {
		o, _, err := s.buildOrder(ctx, repos, userID, order.StatusPendingPayment, req)
		if err != nil {
			return err
		}

		if err := repos.OrderRepo().Create(ctx, o); err != nil {
			return err
		}

		resp = ToOrderResponse(o)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Deferred checkout created",
		zap.String("user_id", userID.String()),
		zap.String("order_id", resp.ID.String()),
		zap.String("total", resp.Total))

	return &resp, nil
}

// buildOrder snapshots the cart, validates every line and assembles the order
// aggregate with price snapshots. Returns the validated snapshot lines so the
// caller can drive stock decrements from the same data the totals came from.
func (s *Service) buildOrder(ctx context.Context, repos tx.Repositories, userID uuid.UUID, initial order.Status, req CreateOrderRequest) (*order.Order, []cart.SnapshotLine, error) {
	lines, err := repos.CartRepo().SnapshotForUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if len(lines) == 0 {
		return nil, nil, shared.ErrEmptyCart
	}

	if verr := validateLines(lines); verr != nil {
		return nil, nil, verr
	}

	o, err := order.New(userID, initial)
	if err != nil {
		return nil, nil, err
	}
	o.SetShipping(req.Recipient, req.Phone, req.Address)

	for _, line := range lines {
		if _, err := o.AddItem(line.ProductID, line.ProductName, line.Quantity, valueobject.NewMoneyUSD(line.UnitPrice)); err != nil {
			return nil, nil, err
		}
	}

	return o, lines, nil
}

// validateLines checks every snapshot line and collects all violations into
// one error list rather than failing on the first.
func validateLines(lines []cart.SnapshotLine) *StockValidationError {
	var shortages []ShortageLine
	for _, line := range lines {
		switch {
		case line.Quantity < 1:
			shortages = append(shortages, ShortageLine{
				ProductID:   line.ProductID,
				ProductName: line.ProductName,
				Requested:   line.Quantity,
				Available:   line.Stock,
				Reason:      "quantity must be at least 1",
			})
		case line.Quantity > line.Stock:
			shortages = append(shortages, ShortageLine{
				ProductID:   line.ProductID,
				ProductName: line.ProductName,
				Requested:   line.Quantity,
				Available:   line.Stock,
				Reason:      "insufficient stock",
			})
		}
	}
	if len(shortages) > 0 {
		return &StockValidationError{Lines: shortages}
	}
	return nil
}
