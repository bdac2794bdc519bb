package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopcore/backend/internal/application/checkout"
	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/order"
	"github.com/shopcore/backend/internal/domain/payment"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shared/valueobject"
	"github.com/shopcore/backend/internal/testutil"
)

// capturingGateway records the CreateSession arguments
type capturingGateway struct {
	items      []payment.LineItem
	successURL string
	cancelURL  string
	token      payment.CorrelationToken
	err        error
}

func (g *capturingGateway) CreateSession(ctx context.Context, items []payment.LineItem, successURL, cancelURL string, token payment.CorrelationToken) (*payment.Session, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.items = items
	g.successURL = successURL
	g.cancelURL = cancelURL
	g.token = token
	return &payment.Session{
		SessionID:   "cs_test_123",
		RedirectURL: "https://pay.example.com/cs_test_123",
	}, nil
}

func (g *capturingGateway) VerifyEvent(payload []byte, sigHeader string) (payment.Event, error) {
	return payment.Event{}, payment.ErrVerificationFailed
}

func newSessionService(st *testutil.State, gw payment.Gateway) *SessionService {
	checkoutSvc := checkout.NewService(testutil.NewScope(st), zap.NewNop())
	return NewSessionService(checkoutSvc, gw, "https://shop.example.com/success", "https://shop.example.com/cancel", zap.NewNop())
}

func TestSessionService_CreateCheckoutSession(t *testing.T) {
	t.Run("creates pending_payment order and session with order id as token", func(t *testing.T) {
		st := testutil.NewState()
		userID := uuid.New()
		p, err := catalog.NewProduct("Keyboard", "SKU-KB", valueobject.NewMoneyUSDFromFloat(79.99), 5)
		require.NoError(t, err)
		st.AddProduct(p)
		st.AddCartLine(userID, p.ID, 2)

		gw := &capturingGateway{}
		svc := newSessionService(st, gw)

		resp, err := svc.CreateCheckoutSession(context.Background(), userID, checkout.CreateOrderRequest{})
		require.NoError(t, err)

		assert.Equal(t, "https://pay.example.com/cs_test_123", resp.RedirectURL)
		assert.Equal(t, resp.OrderID, gw.token.OrderID(), "token must carry the created order id")

		o, ok := st.Orders[resp.OrderID]
		require.True(t, ok, "deferred order must be committed before the session call")
		assert.Equal(t, order.StatusPendingPayment, o.Status)

		require.Len(t, gw.items, 1)
		assert.Equal(t, "Keyboard", gw.items[0].Name)
		assert.Equal(t, int64(2), gw.items[0].Quantity)
		assert.Equal(t, "79.99 USD", gw.items[0].UnitPrice.String())
		assert.Equal(t, "https://shop.example.com/success", gw.successURL)
		assert.Equal(t, "https://shop.example.com/cancel", gw.cancelURL)

		// Deferred policy: no stock reserved, cart kept until settlement.
		assert.Equal(t, int64(5), st.Products[p.ID].Stock)
		assert.Len(t, st.Carts[userID], 1)
	})

	t.Run("empty cart never reaches the gateway", func(t *testing.T) {
		st := testutil.NewState()
		gw := &capturingGateway{}
		svc := newSessionService(st, gw)

		_, err := svc.CreateCheckoutSession(context.Background(), uuid.New(), checkout.CreateOrderRequest{})
		require.ErrorIs(t, err, shared.ErrEmptyCart)
		assert.True(t, gw.token.IsZero())
		assert.Empty(t, st.Orders)
	})

	t.Run("gateway failure surfaces but the order stays committed", func(t *testing.T) {
		st := testutil.NewState()
		userID := uuid.New()
		p, err := catalog.NewProduct("Keyboard", "SKU-KB", valueobject.NewMoneyUSDFromFloat(79.99), 5)
		require.NoError(t, err)
		st.AddProduct(p)
		st.AddCartLine(userID, p.ID, 1)

		gw := &capturingGateway{err: errors.New("gateway unavailable")}
		svc := newSessionService(st, gw)

		_, err = svc.CreateCheckoutSession(context.Background(), userID, checkout.CreateOrderRequest{})
		require.Error(t, err)

		// The pending_payment order outlives the failed session call; the
		// expiry path or an admin cancel reaps it later.
		require.Len(t, st.Orders, 1)
		for _, o := range st.Orders {
			assert.Equal(t, order.StatusPendingPayment, o.Status)
		}
	})
}
