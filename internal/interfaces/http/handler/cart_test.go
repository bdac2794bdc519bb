package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cartapp "github.com/shopcore/backend/internal/application/cart"
	"github.com/shopcore/backend/internal/interfaces/http/dto"
	"github.com/shopcore/backend/internal/testutil"
)

func newCartEngine(st *testutil.State) *gin.Engine {
	repos := &testutil.Repos{St: st}
	svc := cartapp.NewService(repos.CartRepo(), repos.ProductRepo(), zap.NewNop())
	h := NewCartHandler(svc)

	engine := gin.New()
	engine.GET("/api/v1/cart", h.List)
	engine.POST("/api/v1/cart/items", h.AddItem)
	engine.DELETE("/api/v1/cart/items/:product_id", h.RemoveItem)
	engine.DELETE("/api/v1/cart", h.Clear)
	return engine
}

func TestCartHandler_AddItem(t *testing.T) {
	t.Run("adds a line", func(t *testing.T) {
		st := testutil.NewState()
		userID := uuid.New()
		p := addProduct(t, st, "Mug", 12.50, 40)

		engine := newCartEngine(st)
		w := doJSON(engine, http.MethodPost, "/api/v1/cart/items", userID.String(),
			gin.H{"product_id": p.ID.String(), "quantity": 3})

		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
		require.Len(t, st.Carts[userID], 1)
		assert.Equal(t, int64(3), st.Carts[userID][0].Quantity)
	})

	t.Run("unknown product is not found", func(t *testing.T) {
		engine := newCartEngine(testutil.NewState())
		w := doJSON(engine, http.MethodPost, "/api/v1/cart/items", uuid.NewString(),
			gin.H{"product_id": uuid.NewString(), "quantity": 1})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("zero quantity fails binding", func(t *testing.T) {
		st := testutil.NewState()
		p := addProduct(t, st, "Mug", 12.50, 40)

		engine := newCartEngine(st)
		w := doJSON(engine, http.MethodPost, "/api/v1/cart/items", uuid.NewString(),
			gin.H{"product_id": p.ID.String(), "quantity": 0})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed product id is a bad request", func(t *testing.T) {
		engine := newCartEngine(testutil.NewState())
		w := doJSON(engine, http.MethodPost, "/api/v1/cart/items", uuid.NewString(),
			gin.H{"product_id": "nope", "quantity": 1})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCartHandler_List(t *testing.T) {
	st := testutil.NewState()
	userID := uuid.New()
	p := addProduct(t, st, "Mug", 12.50, 40)
	st.AddCartLine(userID, p.ID, 2)

	engine := newCartEngine(st)
	w := doJSON(engine, http.MethodGet, "/api/v1/cart", userID.String(), nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	lines := resp.Data.([]any)
	require.Len(t, lines, 1)
	line := lines[0].(map[string]any)
	assert.Equal(t, "Mug", line["product_name"])
	assert.Equal(t, "12.50", line["unit_price"])
	assert.EqualValues(t, 2, line["quantity"])
}

func TestCartHandler_RemoveAndClear(t *testing.T) {
	st := testutil.NewState()
	userID := uuid.New()
	first := addProduct(t, st, "First", 5, 10)
	second := addProduct(t, st, "Second", 7, 10)
	st.AddCartLine(userID, first.ID, 1)
	st.AddCartLine(userID, second.ID, 1)

	engine := newCartEngine(st)

	w := doJSON(engine, http.MethodDelete, "/api/v1/cart/items/"+first.ID.String(), userID.String(), nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Len(t, st.Carts[userID], 1)

	w = doJSON(engine, http.MethodDelete, "/api/v1/cart", userID.String(), nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, st.Carts[userID])
}
