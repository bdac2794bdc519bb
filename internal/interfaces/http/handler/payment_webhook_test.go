package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	checkoutapp "github.com/shopcore/backend/internal/application/checkout"
	paymentapp "github.com/shopcore/backend/internal/application/payment"
	"github.com/shopcore/backend/internal/domain/payment"
	"github.com/shopcore/backend/internal/testutil"
)

func newWebhookEngine(st *testutil.State, gw payment.Gateway) *gin.Engine {
	svc := paymentapp.NewWebhookService(gw, testutil.NewScope(st), zap.NewNop())
	h := NewPaymentWebhookHandler(svc)

	engine := gin.New()
	engine.POST("/api/v1/webhooks/payment", h.Handle)
	return engine
}

// seedDeferredOrder runs a deferred checkout and returns the order id
func seedDeferredOrder(t *testing.T, st *testutil.State, userID uuid.UUID) uuid.UUID {
	t.Helper()
	p := addProduct(t, st, "Gadget", 30, 10)
	st.AddCartLine(userID, p.ID, 2)

	svc := checkoutapp.NewService(testutil.NewScope(st), zap.NewNop())
	resp, err := svc.CreateDeferred(context.Background(), userID, checkoutapp.CreateOrderRequest{})
	require.NoError(t, err)
	return resp.ID
}

func postWebhook(engine *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payment", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestPaymentWebhookHandler_Handle(t *testing.T) {
	t.Run("settles order on completed event", func(t *testing.T) {
		st := testutil.NewState()
		userID := uuid.New()
		orderID := seedDeferredOrder(t, st, userID)

		gw := &stubGateway{events: map[string]payment.Event{
			"sig-ok": {ID: "evt_1", Kind: payment.EventKindCompleted, Token: payment.NewCorrelationToken(orderID)},
		}}
		engine := newWebhookEngine(st, gw)

		w := postWebhook(engine, []byte(`{"type":"checkout.session.completed"}`), "sig-ok")

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp WebhookResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Received)
		assert.True(t, resp.Applied)
		assert.Equal(t, "completed", string(st.Orders[orderID].Status))
	})

	t.Run("replay is acknowledged without reapplying", func(t *testing.T) {
		st := testutil.NewState()
		orderID := seedDeferredOrder(t, st, uuid.New())

		gw := &stubGateway{events: map[string]payment.Event{
			"sig-ok": {ID: "evt_1", Kind: payment.EventKindCompleted, Token: payment.NewCorrelationToken(orderID)},
		}}
		engine := newWebhookEngine(st, gw)

		first := postWebhook(engine, []byte(`{}`), "sig-ok")
		require.Equal(t, http.StatusOK, first.Code)

		second := postWebhook(engine, []byte(`{}`), "sig-ok")
		require.Equal(t, http.StatusOK, second.Code)

		var resp WebhookResponse
		require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
		assert.True(t, resp.Received)
		assert.False(t, resp.Applied)
		assert.Equal(t, 1, st.Decrements)
	})

	t.Run("unknown correlation token is acknowledged", func(t *testing.T) {
		st := testutil.NewState()
		gw := &stubGateway{events: map[string]payment.Event{
			"sig-ok": {ID: "evt_2", Kind: payment.EventKindCompleted, Token: payment.NewCorrelationToken(uuid.New())},
		}}
		engine := newWebhookEngine(st, gw)

		w := postWebhook(engine, []byte(`{}`), "sig-ok")

		require.Equal(t, http.StatusOK, w.Code)
		var resp WebhookResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Applied)
	})

	t.Run("verification failure is rejected with 400", func(t *testing.T) {
		engine := newWebhookEngine(testutil.NewState(), &stubGateway{})

		w := postWebhook(engine, []byte(`{}`), "sig-bad")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_WEBHOOK_VERIFICATION_FAILED")
	})

	t.Run("missing signature header is rejected with 400", func(t *testing.T) {
		engine := newWebhookEngine(testutil.NewState(), &stubGateway{})

		w := postWebhook(engine, []byte(`{}`), "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("oversized payload is rejected with 413", func(t *testing.T) {
		engine := newWebhookEngine(testutil.NewState(), &stubGateway{})

		huge := []byte(strings.Repeat("x", maxWebhookPayloadSize+1))
		w := postWebhook(engine, huge, "sig-ok")

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}
