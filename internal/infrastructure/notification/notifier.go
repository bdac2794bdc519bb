// Package notification delivers order status change notices to customers
// through an external mail relay.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	orderapp "github.com/shopcore/backend/internal/application/order"
	"github.com/shopcore/backend/internal/domain/order"
	"github.com/shopcore/backend/internal/infrastructure/config"
)

// statusNotice is the JSON body posted to the mail relay
type statusNotice struct {
	OrderID   string    `json:"order_id"`
	NewStatus string    `json:"new_status"`
	SentAt    time.Time `json:"sent_at"`
}

// HTTPNotifier posts status change notices to a mail relay endpoint.
// Failures are the caller's to log; the dispatch path treats them as
// fire-and-forget.
type HTTPNotifier struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPNotifier creates a new HTTPNotifier
func NewHTTPNotifier(cfg *config.NotifierConfig, logger *zap.Logger) *HTTPNotifier {
	return &HTTPNotifier{
		endpoint: cfg.Endpoint,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Notify implements the status notification contract
func (n *HTTPNotifier) Notify(ctx context.Context, orderID uuid.UUID, newStatus order.Status) error {
	body, err := json.Marshal(statusNotice{
		OrderID:   orderID.String(),
		NewStatus: string(newStatus),
		SentAt:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshal status notice: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("deliver status notice: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail relay rejected notice: status %d", resp.StatusCode)
	}

	n.logger.Debug("Status notice delivered",
		zap.String("order_id", orderID.String()),
		zap.String("status", string(newStatus)))
	return nil
}

// LogNotifier writes notices to the log only. Used when no relay endpoint
// is configured, typically in development.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify implements the status notification contract
func (n *LogNotifier) Notify(ctx context.Context, orderID uuid.UUID, newStatus order.Status) error {
	n.logger.Info("Order status notice",
		zap.String("order_id", orderID.String()),
		zap.String("status", string(newStatus)))
	return nil
}

// FromConfig picks the notifier implementation for the configuration.
// Returns nil when notifications are disabled.
func FromConfig(cfg *config.NotifierConfig, logger *zap.Logger) orderapp.Notifier {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Endpoint == "" {
		return NewLogNotifier(logger)
	}
	return NewHTTPNotifier(cfg, logger)
}

var _ orderapp.Notifier = (*HTTPNotifier)(nil)
var _ orderapp.Notifier = (*LogNotifier)(nil)
