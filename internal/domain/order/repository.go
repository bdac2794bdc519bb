package order

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines persistence operations for orders.
type Repository interface {
	// Create persists a new order together with its items
	Create(ctx context.Context, o *Order) error

	// FindByID finds an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByUser finds a user's orders, newest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Order, error)

	// TransitionStatus applies the status change as a single conditional
	// check-and-set: the row is updated only while its status still equals
	// from. Returns false, without error, when the guard did not match, so
	// two concurrent appliers of the same transition converge to one effect.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status) (bool, error)

	// Settle marks a pending_payment order completed and paid in one
	// conditional write. settledAt records the reconciliation time.
	Settle(ctx context.Context, id uuid.UUID, settledAt time.Time) (bool, error)
}
