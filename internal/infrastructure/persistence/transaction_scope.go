package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/shopcore/backend/internal/application/tx"
	"github.com/shopcore/backend/internal/domain/cart"
	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/order"
)

// GormScope implements tx.Scope using GORM transactions. Every repository
// handed to the callback is bound to the same transaction, so the conditional
// stock and status writes commit or roll back as one unit.
type GormScope struct {
	db *gorm.DB
}

// NewGormScope creates a new GormScope
func NewGormScope(db *gorm.DB) *GormScope {
	return &GormScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormScope) Execute(ctx context.Context, fn func(repos tx.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(txDB *gorm.DB) error {
		return fn(&gormRepositories{tx: txDB})
	})
}

// gormRepositories provides access to all repositories within a transaction
type gormRepositories struct {
	tx *gorm.DB
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// CartRepo returns the cart repository scoped to the current transaction
func (r *gormRepositories) CartRepo() cart.Repository {
	return NewGormCartRepository(r.tx)
}

// OrderRepo returns the order repository scoped to the current transaction
func (r *gormRepositories) OrderRepo() order.Repository {
	return NewGormOrderRepository(r.tx)
}

var _ tx.Scope = (*GormScope)(nil)
var _ tx.Repositories = (*gormRepositories)(nil)
