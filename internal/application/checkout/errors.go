package checkout

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/shopcore/backend/internal/domain/shared"
)

// ShortageLine describes one cart line that failed stock validation.
type ShortageLine struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Requested   int64     `json:"requested"`
	Available   int64     `json:"available"`
	Reason      string    `json:"reason"`
}

// StockValidationError aggregates every violating cart line so the caller can
// report all problems at once instead of failing on the first.
type StockValidationError struct {
	Lines []ShortageLine
}

// Error implements the error interface
func (e *StockValidationError) Error() string {
	return fmt.Sprintf("insufficient stock for %d cart line(s)", len(e.Lines))
}

// Unwrap lets errors.Is match shared.ErrInsufficientStock
func (e *StockValidationError) Unwrap() error {
	return shared.ErrInsufficientStock
}
