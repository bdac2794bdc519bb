package cart

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopcore/backend/internal/domain/cart"
	"github.com/shopcore/backend/internal/domain/catalog"
)

// AddItemRequest adds or replaces a pending cart line
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,min=1"`
}

// LineResponse represents a cart line joined with the product snapshot
type LineResponse struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int64     `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	Stock       int64     `json:"stock"`
}

// Service manages a user's pending cart lines. Checkout consumes the cart
// through its own transactional snapshot; this service only covers the
// line upkeep around it.
type Service struct {
	cartRepo    cart.Repository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewService creates a new cart Service
func NewService(cartRepo cart.Repository, productRepo catalog.ProductRepository, logger *zap.Logger) *Service {
	return &Service{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// AddItem adds a line or replaces the quantity of an existing line.
// The product must exist; stock is not reserved here.
func (s *Service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) error {
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		return err
	}

	item, err := cart.NewItem(userID, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}

	return s.cartRepo.Upsert(ctx, item)
}

// RemoveItem deletes a single product line from the user's cart
func (s *Service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	return s.cartRepo.RemoveLine(ctx, userID, productID)
}

// List returns the user's cart lines with price and stock snapshots
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]LineResponse, error) {
	lines, err := s.cartRepo.SnapshotForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	responses := make([]LineResponse, len(lines))
	for i, line := range lines {
		responses[i] = LineResponse{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice.StringFixed(2),
			Stock:       line.Stock,
		}
	}
	return responses, nil
}

// Clear deletes all cart lines for the user
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.cartRepo.ClearForUser(ctx, userID)
}
