package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backend/internal/domain/shared"
)

// Event type constants
const (
	EventTypeCreated       = "order.created"
	EventTypeStatusChanged = "order.status_changed"
	EventTypeSettled       = "order.settled"
)

// CreatedEvent is raised when an order is created
type CreatedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID
	Status Status
	Total  decimal.Decimal
}

// NewCreatedEvent creates a new CreatedEvent
func NewCreatedEvent(o *Order) *CreatedEvent {
	return &CreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCreated, o.ID),
		UserID:          o.UserID,
		Status:          o.Status,
		Total:           o.Total,
	}
}

// StatusChangedEvent is raised when an order's status transitions
type StatusChangedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID
	From   Status
	To     Status
	Actor  Actor
}

// NewStatusChangedEvent creates a new StatusChangedEvent
func NewStatusChangedEvent(o *Order, from, to Status, actor Actor) *StatusChangedEvent {
	return &StatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStatusChanged, o.ID),
		UserID:          o.UserID,
		From:            from,
		To:              to,
		Actor:           actor,
	}
}

// SettledEvent is raised when the reconciler settles payment for an order
type SettledEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID
	Total  decimal.Decimal
}

// NewSettledEvent creates a new SettledEvent
func NewSettledEvent(o *Order) *SettledEvent {
	return &SettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSettled, o.ID),
		UserID:          o.UserID,
		Total:           o.Total,
	}
}
