package payment

import (
	"context"

	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shared/valueobject"
)

// ErrVerificationFailed is returned when a webhook payload fails signature
// verification. Such payloads are rejected before any transaction is opened.
var ErrVerificationFailed = shared.NewDomainError("WEBHOOK_VERIFICATION_FAILED", "Webhook signature verification failed")

// LineItem is a display line passed to the gateway's hosted payment page
type LineItem struct {
	Name      string
	Quantity  int64
	UnitPrice valueobject.Money
}

// Session is a created payment session at the external gateway
type Session struct {
	// SessionID is the gateway's session identifier
	SessionID string
	// RedirectURL is where the customer completes payment
	RedirectURL string
}

// Gateway is the external payment session collaborator.
type Gateway interface {
	// CreateSession creates a hosted payment session carrying the
	// correlation token in its metadata and returns the redirect target.
	CreateSession(ctx context.Context, items []LineItem, successURL, cancelURL string, token CorrelationToken) (*Session, error)

	// VerifyEvent verifies the raw payload against the signature header and
	// maps it into the closed Event union. Returns ErrVerificationFailed
	// when the signature does not check out.
	VerifyEvent(payload []byte, sigHeader string) (Event, error)
}
