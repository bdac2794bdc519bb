package payment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopcore/backend/internal/application/checkout"
	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/order"
	"github.com/shopcore/backend/internal/domain/payment"
	"github.com/shopcore/backend/internal/domain/shared/valueobject"
	"github.com/shopcore/backend/internal/testutil"
)

// fakeGateway returns canned events keyed by signature header
type fakeGateway struct {
	events   map[string]payment.Event
	sessions []payment.Session
}

func (g *fakeGateway) CreateSession(ctx context.Context, items []payment.LineItem, successURL, cancelURL string, token payment.CorrelationToken) (*payment.Session, error) {
	sess := payment.Session{
		SessionID:   "cs_test_" + token.String()[:8],
		RedirectURL: "https://pay.example.com/" + token.String(),
	}
	g.sessions = append(g.sessions, sess)
	return &sess, nil
}

func (g *fakeGateway) VerifyEvent(payload []byte, sigHeader string) (payment.Event, error) {
	event, ok := g.events[sigHeader]
	if !ok {
		return payment.Event{}, payment.ErrVerificationFailed
	}
	return event, nil
}

// deferredOrder seeds a product, a cart line and a pending_payment order the
// way the deferred checkout path would.
func deferredOrder(t *testing.T, st *testutil.State, price float64, stock, qty int64) (uuid.UUID, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	p, err := catalog.NewProduct("Widget", "SKU-1", valueobject.NewMoneyUSDFromFloat(price), stock)
	require.NoError(t, err)
	st.AddProduct(p)
	st.AddCartLine(userID, p.ID, qty)

	svc := checkout.NewService(testutil.NewScope(st), zap.NewNop())
	resp, err := svc.CreateDeferred(context.Background(), userID, checkout.CreateOrderRequest{})
	require.NoError(t, err)

	return resp.ID, p.ID
}

func completedEvent(orderID uuid.UUID) payment.Event {
	return payment.Event{
		ID:    "evt_completed_1",
		Kind:  payment.EventKindCompleted,
		Token: payment.NewCorrelationToken(orderID),
	}
}

func TestWebhookService_Handle_Completed(t *testing.T) {
	t.Run("settles pending_payment order", func(t *testing.T) {
		st := testutil.NewState()
		orderID, productID := deferredOrder(t, st, 50, 10, 2)

		gw := &fakeGateway{events: map[string]payment.Event{"sig": completedEvent(orderID)}}
		svc := NewWebhookService(gw, testutil.NewScope(st), zap.NewNop())

		result, err := svc.Handle(context.Background(), []byte("{}"), "sig")
		require.NoError(t, err)
		assert.True(t, result.Applied)

		o := st.Orders[orderID]
		assert.Equal(t, order.StatusCompleted, o.Status)
		assert.Equal(t, order.PaymentStatusPaid, o.PaymentStatus)
		assert.NotNil(t, o.SettledAt)
		assert.Equal(t, int64(8), st.Products[productID].Stock)
		assert.Empty(t, st.Carts[o.UserID])
	})

	t.Run("replay is an acknowledged no-op", func(t *testing.T) {
		st := testutil.NewState()
		orderID, productID := deferredOrder(t, st, 50, 10, 2)

		gw := &fakeGateway{events: map[string]payment.Event{"sig": completedEvent(orderID)}}
		svc := NewWebhookService(gw, testutil.NewScope(st), zap.NewNop())

		first, err := svc.Handle(context.Background(), []byte("{}"), "sig")
		require.NoError(t, err)
		require.True(t, first.Applied)

		second, err := svc.Handle(context.Background(), []byte("{}"), "sig")
		require.NoError(t, err)
		assert.False(t, second.Applied)

		// Exactly one decrement and one cart clear across both deliveries.
		assert.Equal(t, int64(8), st.Products[productID].Stock)
		assert.Equal(t, 1, st.Decrements)
		assert.Equal(t, 1, st.CartClears)
	})

	t.Run("settlement losing the stock race rolls back fully", func(t *testing.T) {
		st := testutil.NewState()
		orderID, productID := deferredOrder(t, st, 50, 10, 2)

		// Stock drained between deferred checkout and settlement: the
		// deferred path's documented oversell window. The ledger guard
		// stops the oversell; the transaction aborts for redelivery.
		st.Products[productID].Stock = 1

		gw := &fakeGateway{events: map[string]payment.Event{"sig": completedEvent(orderID)}}
		svc := NewWebhookService(gw, testutil.NewScope(st), zap.NewNop())

		_, err := svc.Handle(context.Background(), []byte("{}"), "sig")
		require.Error(t, err)

		o := st.Orders[orderID]
		assert.Equal(t, order.StatusPendingPayment, o.Status, "settlement must roll back")
		assert.Equal(t, int64(1), st.Products[productID].Stock)
		assert.NotEmpty(t, st.Carts[o.UserID])
	})

	t.Run("unknown correlation token is acknowledged", func(t *testing.T) {
		st := testutil.NewState()
		gw := &fakeGateway{events: map[string]payment.Event{"sig": completedEvent(uuid.New())}}
		svc := NewWebhookService(gw, testutil.NewScope(st), zap.NewNop())

		result, err := svc.Handle(context.Background(), []byte("{}"), "sig")
		require.NoError(t, err)
		assert.False(t, result.Applied)
	})
}

func TestWebhookService_Handle_Expired(t *testing.T) {
	t.Run("cancels pending_payment order without touching stock", func(t *testing.T) {
		st := testutil.NewState()
		orderID, productID := deferredOrder(t, st, 50, 10, 2)

		event := payment.Event{ID: "evt_expired_1", Kind: payment.EventKindExpired, Token: payment.NewCorrelationToken(orderID)}
		gw := &fakeGateway{events: map[string]payment.Event{"sig": event}}
		svc := NewWebhookService(gw, testutil.NewScope(st), zap.NewNop())

		result, err := svc.Handle(context.Background(), []byte("{}"), "sig")
		require.NoError(t, err)
		assert.True(t, result.Applied)

		assert.Equal(t, order.StatusCancelled, st.Orders[orderID].Status)
		assert.Equal(t, int64(10), st.Products[productID].Stock)
		assert.Zero(t, st.Decrements)
	})

	t.Run("expiry after settlement is a no-op", func(t *testing.T) {
		st := testutil.NewState()
		orderID, _ := deferredOrder(t, st, 50, 10, 2)

		gw := &fakeGateway{events: map[string]payment.Event{
			"sig-completed": completedEvent(orderID),
			"sig-expired":   {ID: "evt_expired_1", Kind: payment.EventKindExpired, Token: payment.NewCorrelationToken(orderID)},
		}}
		svc := NewWebhookService(gw, testutil.NewScope(st), zap.NewNop())

		_, err := svc.Handle(context.Background(), []byte("{}"), "sig-completed")
		require.NoError(t, err)

		result, err := svc.Handle(context.Background(), []byte("{}"), "sig-expired")
		require.NoError(t, err)
		assert.False(t, result.Applied)
		assert.Equal(t, order.StatusCompleted, st.Orders[orderID].Status)
	})
}

func TestWebhookService_Handle_Unverifiable(t *testing.T) {
	st := testutil.NewState()
	gw := &fakeGateway{events: map[string]payment.Event{}}
	svc := NewWebhookService(gw, testutil.NewScope(st), zap.NewNop())

	_, err := svc.Handle(context.Background(), []byte("{}"), "bad-sig")
	require.ErrorIs(t, err, payment.ErrVerificationFailed)
	assert.Empty(t, st.Orders)
	assert.Zero(t, st.Decrements)
}

func TestWebhookService_Handle_OtherKind(t *testing.T) {
	st := testutil.NewState()
	event := payment.Event{ID: "evt_other", Kind: payment.EventKindOther}
	gw := &fakeGateway{events: map[string]payment.Event{"sig": event}}
	svc := NewWebhookService(gw, testutil.NewScope(st), zap.NewNop())

	result, err := svc.Handle(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.Equal(t, "event kind not handled", result.Message)
}
