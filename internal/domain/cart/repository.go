package cart

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for cart lines.
type Repository interface {
	// SnapshotForUser returns the user's pending cart lines joined with each
	// product's current price and stock. Run on the caller's transaction
	// handle so the snapshot stays consistent with later stock checks.
	SnapshotForUser(ctx context.Context, userID uuid.UUID) ([]SnapshotLine, error)

	// Upsert adds a line or replaces the quantity of an existing line
	Upsert(ctx context.Context, item *Item) error

	// RemoveLine deletes a single product line from the user's cart
	RemoveLine(ctx context.Context, userID, productID uuid.UUID) error

	// ClearForUser deletes all cart lines for the user
	ClearForUser(ctx context.Context, userID uuid.UUID) error
}
