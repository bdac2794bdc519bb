package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orderapp "github.com/shopcore/backend/internal/application/order"
	"github.com/shopcore/backend/internal/domain/order"
	"github.com/shopcore/backend/internal/infrastructure/auth"
	"github.com/shopcore/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order query and admin status endpoints
type OrderHandler struct {
	BaseHandler
	statusService *orderapp.StatusService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(statusService *orderapp.StatusService) *OrderHandler {
	return &OrderHandler{
		statusService: statusService,
	}
}

// UpdateStatusRequest represents an admin status transition request
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// List returns the authenticated user's orders, newest first
func (h *OrderHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orders, err := h.statusService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}

// GetByID returns a single order. Customers can only read their own
// orders; a missing or foreign order is reported as not found either way.
func (h *OrderHandler) GetByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	resp, err := h.statusService.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if resp.UserID != userID && middleware.GetJWTRole(c) != auth.RoleAdmin {
		h.NotFound(c, "Order not found")
		return
	}

	h.Success(c, resp)
}

// UpdateStatus applies an admin-driven status transition
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.statusService.Transition(c.Request.Context(), orderID, order.Status(req.Status), order.ActorAdmin)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
