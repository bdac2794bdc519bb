package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	paymentapp "github.com/shopcore/backend/internal/application/payment"
	"github.com/shopcore/backend/internal/domain/payment"
	"github.com/shopcore/backend/internal/interfaces/http/dto"
)

// Maximum webhook payload size (64KB - gateway webhooks are small)
const maxWebhookPayloadSize = 65536

// PaymentWebhookHandler handles payment gateway webhook endpoints.
// These endpoints are called by the gateway and authenticate by payload
// signature instead of bearer token.
type PaymentWebhookHandler struct {
	BaseHandler
	webhookService *paymentapp.WebhookService
}

// NewPaymentWebhookHandler creates a new PaymentWebhookHandler
func NewPaymentWebhookHandler(webhookService *paymentapp.WebhookService) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{
		webhookService: webhookService,
	}
}

// WebhookResponse represents the acknowledgement sent back to the gateway
type WebhookResponse struct {
	Received bool   `json:"received"`
	EventID  string `json:"event_id,omitempty"`
	Applied  bool   `json:"applied"`
	Message  string `json:"message,omitempty"`
}

// Handle receives one raw webhook delivery. Replays and events for unknown
// orders are acknowledged with 200 so the gateway stops retrying; only a
// failed signature verification is rejected with 400. Infrastructure
// failures return 500, which makes the gateway redeliver.
func (h *PaymentWebhookHandler) Handle(c *gin.Context) {
	// The raw body is needed for signature verification
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}

	if len(payload) > maxWebhookPayloadSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge, "Payload too large")
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeWebhookVerificationFailed, "Missing Stripe-Signature header")
		return
	}

	result, err := h.webhookService.Handle(c.Request.Context(), payload, signature)
	if err != nil {
		if errors.Is(err, payment.ErrVerificationFailed) {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeWebhookVerificationFailed, "Webhook signature verification failed")
			return
		}
		// Transient failure: do not acknowledge, let the gateway retry
		h.InternalError(c, "Webhook processing failed")
		return
	}

	c.JSON(http.StatusOK, WebhookResponse{
		Received: true,
		EventID:  result.EventID,
		Applied:  result.Applied,
		Message:  result.Message,
	})
}
