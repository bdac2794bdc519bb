package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopcore/backend/internal/application/checkout"
	"github.com/shopcore/backend/internal/domain/payment"
	"github.com/shopcore/backend/internal/domain/shared/valueobject"
)

// SessionService drives the deferred checkout path: it creates the
// pending_payment order and hands its id to the payment gateway as the
// correlation token of a hosted payment session.
type SessionService struct {
	checkout   *checkout.Service
	gateway    payment.Gateway
	successURL string
	cancelURL  string
	logger     *zap.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(checkoutSvc *checkout.Service, gateway payment.Gateway, successURL, cancelURL string, logger *zap.Logger) *SessionService {
	return &SessionService{
		checkout:   checkoutSvc,
		gateway:    gateway,
		successURL: successURL,
		cancelURL:  cancelURL,
		logger:     logger,
	}
}

// CreateCheckoutSession creates a pending_payment order for the user's cart
// and a gateway session redirecting to the hosted payment page. The order is
// a committed side effect even though no payment has occurred yet.
func (s *SessionService) CreateCheckoutSession(ctx context.Context, userID uuid.UUID, req checkout.CreateOrderRequest) (*checkout.DeferredCheckoutResponse, error) {
	orderResp, err := s.checkout.CreateDeferred(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	items, err := buildLineItems(orderResp)
	if err != nil {
		return nil, err
	}

	token := payment.NewCorrelationToken(orderResp.ID)
	sess, err := s.gateway.CreateSession(ctx, items, s.successURL, s.cancelURL, token)
	if err != nil {
		s.logger.Error("Failed to create payment session",
			zap.String("order_id", orderResp.ID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("create payment session for order %s: %w", orderResp.ID, err)
	}

	s.logger.Info("Payment session created",
		zap.String("order_id", orderResp.ID.String()),
		zap.String("session_id", sess.SessionID))

	resp := checkout.NewDeferredCheckoutResponse(token, sess.RedirectURL)
	return &resp, nil
}

// buildLineItems maps order lines to the gateway's display lines
func buildLineItems(orderResp *checkout.OrderResponse) ([]payment.LineItem, error) {
	items := make([]payment.LineItem, len(orderResp.Items))
	for i, item := range orderResp.Items {
		price, err := valueobject.NewMoneyFromString(item.UnitPrice, valueobject.DefaultCurrency)
		if err != nil {
			return nil, fmt.Errorf("invalid unit price on order item %s: %w", item.ID, err)
		}
		items[i] = payment.LineItem{
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: price,
		}
	}
	return items, nil
}
