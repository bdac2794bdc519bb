// Package tx defines the transactional boundary used by the application
// services. A scope executes a function against repositories that all share
// one database transaction; any error rolls the whole unit back.
package tx

import (
	"context"

	"github.com/shopcore/backend/internal/domain/cart"
	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/order"
)

// Scope provides transactional access to the core repositories.
type Scope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories provides access to the repositories within a transaction.
// All repositories returned share the same underlying database transaction.
type Repositories interface {
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// CartRepo returns the cart repository scoped to the current transaction
	CartRepo() cart.Repository
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() order.Repository
}
