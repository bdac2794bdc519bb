package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"

	domain "github.com/shopcore/backend/internal/domain/payment"
)

// orderIDMetadataKey is the session metadata key carrying the correlation
// token back on webhook events.
const orderIDMetadataKey = "order_id"

// StripeGateway implements the domain Gateway against Stripe hosted checkout
type StripeGateway struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeGateway creates a new Stripe gateway adapter
func NewStripeGateway(config *StripeConfig, logger *zap.Logger) (*StripeGateway, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.InitStripeClient()

	return &StripeGateway{
		config: config,
		logger: logger,
	}, nil
}

// CreateSession creates a Stripe Checkout session in payment mode. The
// correlation token travels in the session metadata; it is the only link
// between later webhook events and the local order.
func (g *StripeGateway) CreateSession(ctx context.Context, items []domain.LineItem, successURL, cancelURL string, token domain.CorrelationToken) (*domain.Session, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, len(items))
	for i, item := range items {
		lineItems[i] = &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(strings.ToLower(string(item.UnitPrice.Currency()))),
				UnitAmount: stripe.Int64(item.UnitPrice.MinorUnits()),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
			Quantity: stripe.Int64(item.Quantity),
		}
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	params.AddMetadata(orderIDMetadataKey, token.String())

	sess, err := session.New(params)
	if err != nil {
		g.logger.Error("Failed to create Stripe checkout session",
			zap.String("order_id", token.String()),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create checkout session: %w", err)
	}

	g.logger.Info("Created Stripe checkout session",
		zap.String("order_id", token.String()),
		zap.String("session_id", sess.ID))

	return &domain.Session{
		SessionID:   sess.ID,
		RedirectURL: sess.URL,
	}, nil
}

// VerifyEvent verifies the payload signature and maps Stripe's event types
// into the domain's closed event union.
func (g *StripeGateway) VerifyEvent(payload []byte, sigHeader string) (domain.Event, error) {
	// The endpoint's API version is pinned in the Stripe dashboard, not by
	// this SDK, so version mismatches are expected and ignored.
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, g.config.WebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("%w: %v", domain.ErrVerificationFailed, err)
	}

	switch event.Type {
	case "checkout.session.completed":
		return g.mapSessionEvent(event, domain.EventKindCompleted)
	case "checkout.session.expired":
		return g.mapSessionEvent(event, domain.EventKindExpired)
	default:
		g.logger.Debug("Unhandled Stripe event type",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
		return domain.Event{ID: event.ID, Kind: domain.EventKindOther}, nil
	}
}

// mapSessionEvent extracts the correlation token from a checkout.session
// event. A session without a parseable order_id is downgraded to Other;
// Stripe may deliver sessions this system never created.
func (g *StripeGateway) mapSessionEvent(event stripe.Event, kind domain.EventKind) (domain.Event, error) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return domain.Event{}, fmt.Errorf("stripe: failed to unmarshal checkout session: %w", err)
	}

	token, err := domain.ParseCorrelationToken(sess.Metadata[orderIDMetadataKey])
	if err != nil {
		g.logger.Warn("Checkout session without usable order_id metadata",
			zap.String("event_id", event.ID),
			zap.String("session_id", sess.ID))
		return domain.Event{ID: event.ID, Kind: domain.EventKindOther}, nil
	}

	return domain.Event{
		ID:    event.ID,
		Kind:  kind,
		Token: token,
	}, nil
}

var _ domain.Gateway = (*StripeGateway)(nil)
