package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines persistence operations for products.
//
// DecrementStock and IncrementStock form the stock ledger: each is a single
// conditional write that both checks its precondition and applies the change,
// so concurrent callers serialize on the row and stock never goes negative.
// They must be called on a repository bound to the caller's transaction so a
// failed decrement rolls the whole operation back.
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// DecrementStock atomically applies stock = stock - quantity where
	// stock >= quantity. Returns shared.ErrInsufficientStock when the
	// condition does not hold and shared.ErrNotFound for unknown products.
	DecrementStock(ctx context.Context, productID uuid.UUID, quantity int64) error

	// IncrementStock atomically applies stock = stock + quantity.
	// Restock primitive, reserved for returns and cancellation extensions.
	IncrementStock(ctx context.Context, productID uuid.UUID, quantity int64) error
}
