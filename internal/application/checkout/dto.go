package checkout

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopcore/backend/internal/domain/order"
	"github.com/shopcore/backend/internal/domain/payment"
)

// CreateOrderRequest carries the optional shipping attributes for checkout
type CreateOrderRequest struct {
	Recipient string `json:"recipient" binding:"omitempty,max=200"`
	Phone     string `json:"phone" binding:"omitempty,max=50"`
	Address   string `json:"address" binding:"omitempty,max=500"`
}

// OrderItemResponse represents an order line in responses
type OrderItemResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int64     `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	LineTotal   string    `json:"line_total"`
}

// OrderResponse represents an order in responses
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	UserID        uuid.UUID           `json:"user_id"`
	Status        order.Status        `json:"status"`
	PaymentStatus order.PaymentStatus `json:"payment_status"`
	Total         string              `json:"total"`
	Items         []OrderItemResponse `json:"items"`
	Recipient     string              `json:"recipient,omitempty"`
	Phone         string              `json:"phone,omitempty"`
	Address       string              `json:"address,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// ToOrderResponse converts a domain order to its response representation
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			LineTotal:   item.LineTotal().StringFixed(2),
		}
	}
	return OrderResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		Total:         o.Total.StringFixed(2),
		Items:         items,
		Recipient:     o.Recipient,
		Phone:         o.Phone,
		Address:       o.Address,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// DeferredCheckoutResponse is the result of a deferred checkout: the created
// order id doubles as the correlation token for the payment session.
type DeferredCheckoutResponse struct {
	OrderID     uuid.UUID `json:"order_id"`
	RedirectURL string    `json:"redirect_url"`
}

// NewDeferredCheckoutResponse builds the response from the session result
func NewDeferredCheckoutResponse(token payment.CorrelationToken, redirectURL string) DeferredCheckoutResponse {
	return DeferredCheckoutResponse{
		OrderID:     token.OrderID(),
		RedirectURL: redirectURL,
	}
}
