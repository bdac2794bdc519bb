package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shared/valueobject"
)

// Item represents a line item in an order.
// UnitPrice is a snapshot captured at order-creation time and is immutable
// thereafter, independent of later catalog price changes.
type Item struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int64           `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt   time.Time
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "order_items"
}

// NewItem creates a new order item with the captured price snapshot
func NewItem(orderID, productID uuid.UUID, productName string, quantity int64, unitPrice valueobject.Money) (*Item, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &Item{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount().Round(2),
		CreatedAt:   time.Now(),
	}, nil
}

// LineTotal returns quantity * unit price for this line
func (i *Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// Order represents an order aggregate root. It owns an ordered list of Items;
// items reference products by id only. Orders are created by checkout, mutated
// only through the status machine or the webhook reconciler, never deleted.
type Order struct {
	shared.BaseAggregateRoot
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Items         []Item          `gorm:"foreignKey:OrderID;references:ID"`
	Total         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Status        Status          `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending'"`
	Recipient     string          `gorm:"type:varchar(200)"`
	Phone         string          `gorm:"type:varchar(50)"`
	Address       string          `gorm:"type:varchar(500)"`
	SettledAt     *time.Time
	CancelledAt   *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// New creates a new order for a user in the given initial status.
// Immediate checkout starts at pending; deferred checkout starts at
// pending_payment.
func New(userID uuid.UUID, initial Status) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if initial != StatusPending && initial != StatusPendingPayment {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Order cannot be created in %s status", initial))
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Items:             make([]Item, 0),
		Total:             decimal.Zero,
		Status:            initial,
		PaymentStatus:     PaymentStatusPending,
	}

	o.AddDomainEvent(NewCreatedEvent(o))

	return o, nil
}

// AddItem appends a line with the captured price snapshot and updates the
// total. Only meaningful during order construction.
func (o *Order) AddItem(productID uuid.UUID, productName string, quantity int64, unitPrice valueobject.Money) (*Item, error) {
	item, err := NewItem(o.ID, productID, productName, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotal()
	o.UpdatedAt = time.Now()

	return item, nil
}

// SetShipping sets the optional shipping attributes
func (o *Order) SetShipping(recipient, phone, address string) {
	o.Recipient = recipient
	o.Phone = phone
	o.Address = address
	o.UpdatedAt = time.Now()
}

// TransitionTo moves the order along the status graph and raises the
// status-changed event. Persistence still guards the write with a conditional
// update keyed on the status this aggregate was loaded with.
func (o *Order) TransitionTo(target Status, actor Actor) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot transition order from %s to %s", o.Status, target))
	}
	// Settling a pending_payment order is the reconciler's edge; an
	// administrator cannot mark an unpaid order completed.
	if actor != ActorReconciler && o.Status == StatusPendingPayment && target == StatusCompleted {
		return shared.NewDomainError("INVALID_TRANSITION",
			"Only payment reconciliation may complete a pending_payment order")
	}

	from := o.Status
	now := time.Now()
	o.Status = target
	o.UpdatedAt = now
	if target == StatusCancelled {
		o.CancelledAt = &now
	}
	o.AddDomainEvent(NewStatusChangedEvent(o, from, target, actor))

	return nil
}

// Settle marks payment as reconciled: the order completes, payment flips to
// paid and the settlement timestamp is recorded.
func (o *Order) Settle(at time.Time) {
	o.Status = StatusCompleted
	o.PaymentStatus = PaymentStatusPaid
	o.SettledAt = &at
	o.UpdatedAt = at
	o.AddDomainEvent(NewSettledEvent(o))
}

// TotalMoney returns the order total as a Money value object
func (o *Order) TotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.Total)
}

// ItemCount returns the number of lines in the order
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// IsSettled returns true once payment has been reconciled
func (o *Order) IsSettled() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

// recalculateTotal recomputes the total from the item snapshots,
// rounded to 2 decimal places.
func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	o.Total = total.Round(2)
}
