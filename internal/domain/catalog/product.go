package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shared/valueobject"
)

// Product represents a sellable catalog product.
// Catalog CRUD is owned by the catalog service; this core only reads price
// snapshots and mutates stock through the guarded ledger primitives.
type Product struct {
	shared.BaseAggregateRoot
	Name  string          `gorm:"type:varchar(200);not null"`
	SKU   string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Price decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Stock int64           `gorm:"not null;default:0;check:stock >= 0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name, sku string, price valueobject.Money, stock int64) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Product stock cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		SKU:               sku,
		Price:             price.Amount().Round(2),
		Stock:             stock,
	}, nil
}

// PriceMoney returns the selling price as a Money value object
func (p *Product) PriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.Price)
}

// HasStock reports whether the product can cover the requested quantity
func (p *Product) HasStock(quantity int64) bool {
	return quantity >= 1 && quantity <= p.Stock
}
