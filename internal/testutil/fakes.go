// Package testutil provides in-memory repository fakes with transaction-like
// rollback semantics for exercising the application services without a
// database.
package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shopcore/backend/internal/application/tx"
	"github.com/shopcore/backend/internal/domain/cart"
	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/order"
	"github.com/shopcore/backend/internal/domain/shared"
)

// State is the in-memory store backing the fake repositories.
type State struct {
	Products map[uuid.UUID]*catalog.Product
	Carts    map[uuid.UUID][]cart.Item
	Orders   map[uuid.UUID]*order.Order

	// Decrements counts every successful stock decrement, so tests can
	// assert exactly-once semantics.
	Decrements int
	// FailDecrementFor forces DecrementStock to report insufficient stock
	// for the listed products, simulating a lost conditional write.
	FailDecrementFor map[uuid.UUID]bool
	// CartClears counts ClearForUser calls that removed lines.
	CartClears int
}

// NewState creates an empty State
func NewState() *State {
	return &State{
		Products: make(map[uuid.UUID]*catalog.Product),
		Carts:    make(map[uuid.UUID][]cart.Item),
		Orders:   make(map[uuid.UUID]*order.Order),
	}
}

// AddProduct stores a product and returns it
func (s *State) AddProduct(p *catalog.Product) *catalog.Product {
	s.Products[p.ID] = p
	return p
}

// AddCartLine appends a pending cart line for the user
func (s *State) AddCartLine(userID, productID uuid.UUID, quantity int64) {
	item, _ := cart.NewItem(userID, productID, quantity)
	s.Carts[userID] = append(s.Carts[userID], *item)
}

// clone deep-copies the state for rollback
func (s *State) clone() *State {
	c := NewState()
	for id, p := range s.Products {
		cp := *p
		c.Products[id] = &cp
	}
	for userID, items := range s.Carts {
		c.Carts[userID] = append([]cart.Item(nil), items...)
	}
	for id, o := range s.Orders {
		co := *o
		co.Items = append([]order.Item(nil), o.Items...)
		c.Orders[id] = &co
	}
	c.Decrements = s.Decrements
	c.CartClears = s.CartClears
	c.FailDecrementFor = s.FailDecrementFor
	return c
}

// Scope is an in-memory tx.Scope. On error it restores the pre-transaction
// state, mimicking a database rollback.
type Scope struct {
	St *State
}

// NewScope creates a Scope over the given state
func NewScope(st *State) *Scope {
	return &Scope{St: st}
}

// Execute implements tx.Scope
func (s *Scope) Execute(ctx context.Context, fn func(repos tx.Repositories) error) error {
	backup := s.St.clone()
	if err := fn(&Repos{St: s.St}); err != nil {
		*s.St = *backup
		return err
	}
	return nil
}

// Repos implements tx.Repositories over a State
type Repos struct {
	St *State
}

// ProductRepo implements tx.Repositories
func (r *Repos) ProductRepo() catalog.ProductRepository { return &productRepo{st: r.St} }

// CartRepo implements tx.Repositories
func (r *Repos) CartRepo() cart.Repository { return &cartRepo{st: r.St} }

// OrderRepo implements tx.Repositories
func (r *Repos) OrderRepo() order.Repository { return &orderRepo{st: r.St} }

var _ tx.Scope = (*Scope)(nil)
var _ tx.Repositories = (*Repos)(nil)

type productRepo struct {
	st *State
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.st.Products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *productRepo) Save(ctx context.Context, product *catalog.Product) error {
	cp := *product
	r.st.Products[product.ID] = &cp
	return nil
}

func (r *productRepo) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int64) error {
	p, ok := r.st.Products[productID]
	if !ok {
		return shared.ErrNotFound
	}
	if r.st.FailDecrementFor[productID] {
		return shared.ErrInsufficientStock
	}
	if p.Stock < quantity {
		return shared.ErrInsufficientStock
	}
	p.Stock -= quantity
	r.st.Decrements++
	return nil
}

func (r *productRepo) IncrementStock(ctx context.Context, productID uuid.UUID, quantity int64) error {
	p, ok := r.st.Products[productID]
	if !ok {
		return shared.ErrNotFound
	}
	p.Stock += quantity
	return nil
}

type cartRepo struct {
	st *State
}

func (r *cartRepo) SnapshotForUser(ctx context.Context, userID uuid.UUID) ([]cart.SnapshotLine, error) {
	var lines []cart.SnapshotLine
	for _, item := range r.st.Carts[userID] {
		p, ok := r.st.Products[item.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, cart.SnapshotLine{
			ProductID:   item.ProductID,
			ProductName: p.Name,
			Quantity:    item.Quantity,
			UnitPrice:   p.Price,
			Stock:       p.Stock,
		})
	}
	return lines, nil
}

func (r *cartRepo) Upsert(ctx context.Context, item *cart.Item) error {
	items := r.st.Carts[item.UserID]
	for i := range items {
		if items[i].ProductID == item.ProductID {
			items[i].Quantity = item.Quantity
			return nil
		}
	}
	r.st.Carts[item.UserID] = append(items, *item)
	return nil
}

func (r *cartRepo) RemoveLine(ctx context.Context, userID, productID uuid.UUID) error {
	items := r.st.Carts[userID]
	for i := range items {
		if items[i].ProductID == productID {
			r.st.Carts[userID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *cartRepo) ClearForUser(ctx context.Context, userID uuid.UUID) error {
	if len(r.st.Carts[userID]) > 0 {
		r.st.CartClears++
	}
	delete(r.st.Carts, userID)
	return nil
}

type orderRepo struct {
	st *State
}

func (r *orderRepo) Create(ctx context.Context, o *order.Order) error {
	co := *o
	co.Items = append([]order.Item(nil), o.Items...)
	r.st.Orders[o.ID] = &co
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	o, ok := r.st.Orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	co := *o
	co.Items = append([]order.Item(nil), o.Items...)
	return &co, nil
}

func (r *orderRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]order.Order, error) {
	var out []order.Order
	for _, o := range r.st.Orders {
		if o.UserID == userID {
			co := *o
			co.Items = append([]order.Item(nil), o.Items...)
			out = append(out, co)
		}
	}
	return out, nil
}

func (r *orderRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to order.Status) (bool, error) {
	o, ok := r.st.Orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	if to == order.StatusCancelled {
		now := time.Now()
		o.CancelledAt = &now
	}
	return true, nil
}

func (r *orderRepo) Settle(ctx context.Context, id uuid.UUID, settledAt time.Time) (bool, error) {
	o, ok := r.st.Orders[id]
	if !ok || o.Status != order.StatusPendingPayment {
		return false, nil
	}
	o.Status = order.StatusCompleted
	o.PaymentStatus = order.PaymentStatusPaid
	o.SettledAt = &settledAt
	return true, nil
}
