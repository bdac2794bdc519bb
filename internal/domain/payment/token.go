package payment

import (
	"fmt"

	"github.com/google/uuid"
)

// CorrelationToken links an external payment session back to a local order.
// It is the order id, carried opaquely inside the gateway session metadata,
// with explicit parse/format instead of implicit string coercion.
type CorrelationToken struct {
	orderID uuid.UUID
}

// NewCorrelationToken creates a token for the given order id
func NewCorrelationToken(orderID uuid.UUID) CorrelationToken {
	return CorrelationToken{orderID: orderID}
}

// ParseCorrelationToken parses the metadata string form of a token
func ParseCorrelationToken(s string) (CorrelationToken, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return CorrelationToken{}, fmt.Errorf("invalid correlation token %q: %w", s, err)
	}
	return CorrelationToken{orderID: id}, nil
}

// OrderID returns the order id the token resolves to
func (t CorrelationToken) OrderID() uuid.UUID {
	return t.orderID
}

// String returns the metadata string form of the token
func (t CorrelationToken) String() string {
	return t.orderID.String()
}

// IsZero returns true for the zero token
func (t CorrelationToken) IsZero() bool {
	return t.orderID == uuid.Nil
}
