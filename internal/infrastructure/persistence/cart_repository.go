package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopcore/backend/internal/domain/cart"
)

// GormCartRepository implements cart.Repository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// SnapshotForUser joins the user's cart lines with the current product rows.
// Inside a transaction the returned prices and stock are the values the
// subsequent conditional writes will be checked against.
func (r *GormCartRepository) SnapshotForUser(ctx context.Context, userID uuid.UUID) ([]cart.SnapshotLine, error) {
	var lines []cart.SnapshotLine
	err := r.db.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.product_id, products.name AS product_name, cart_items.quantity, products.price AS unit_price, products.stock").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.created_at ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// Upsert inserts a cart line or replaces the quantity of an existing one.
// The unique index on (user_id, product_id) backs the conflict target.
func (r *GormCartRepository) Upsert(ctx context.Context, item *cart.Item) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   item.Quantity,
				"updated_at": item.UpdatedAt,
			}),
		}).
		Create(item).Error
}

// RemoveLine deletes a single product line from the user's cart
func (r *GormCartRepository) RemoveLine(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&cart.Item{}, "user_id = ? AND product_id = ?", userID, productID).Error
}

// ClearForUser deletes all cart lines for the user
func (r *GormCartRepository) ClearForUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&cart.Item{}, "user_id = ?", userID).Error
}

var _ cart.Repository = (*GormCartRepository)(nil)
