package handler

import (
	"github.com/gin-gonic/gin"

	checkoutapp "github.com/shopcore/backend/internal/application/checkout"
	paymentapp "github.com/shopcore/backend/internal/application/payment"
)

// CheckoutHandler handles checkout API endpoints for both stock policies
type CheckoutHandler struct {
	BaseHandler
	checkoutService *checkoutapp.Service
	sessionService  *paymentapp.SessionService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *checkoutapp.Service, sessionService *paymentapp.SessionService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		sessionService:  sessionService,
	}
}

// bindCheckoutRequest decodes the optional request body. Checkout needs only
// the authenticated user; a body, when present, carries shipping attributes.
func bindCheckoutRequest(c *gin.Context) (checkoutapp.CreateOrderRequest, error) {
	var req checkoutapp.CreateOrderRequest
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return req, nil
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, nil
}

// CreateOrder converts the authenticated user's cart into an order under the
// immediate policy: stock is decremented in the checkout transaction and the
// order starts as pending.
func (h *CheckoutHandler) CreateOrder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	req, err := bindCheckoutRequest(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.checkoutService.CreateImmediate(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// CreateSession runs a deferred checkout: the order is committed as
// pending_payment, then a hosted payment session is created with the order id
// as the correlation token. Stock is not touched until the webhook settles.
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	req, err := bindCheckoutRequest(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.sessionService.CreateCheckoutSession(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}
