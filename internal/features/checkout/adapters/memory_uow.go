package adapters

import (
	"context"
	"errors"
	"sync"

	"bookstore-checkout/internal/core/database"
	"bookstore-checkout/internal/features/checkout/ports"
	orderdomain "bookstore-checkout/internal/features/orders/domain"
	paymentdomain "bookstore-checkout/internal/features/payments/domain"
	shippingdomain "bookstore-checkout/internal/features/shipping/domain"
)

var (
	errMissingOrder = errors.New("referenced order does not exist")
	errDuplicate    = errors.New("record already exists for order")
)

type memoryState struct {
	nextOrderID    int64
	nextPaymentID  int64
	nextShippingID int64
	orders         map[int64]orderdomain.Order
	payments       map[int64]paymentdomain.Payment
	shipping       map[int64]shippingdomain.Shipping
}

func newMemoryState() *memoryState {
	return &memoryState{
		orders:   map[int64]orderdomain.Order{},
		payments: map[int64]paymentdomain.Payment{},
		shipping: map[int64]shippingdomain.Shipping{},
	}
}

// changeSet records the writes of one unit on top of the committed state.
// Reads see staged rows first and fall through to committed ones.
type changeSet struct {
	base           *memoryState
	nextOrderID    int64
	nextPaymentID  int64
	nextShippingID int64
	orders         map[int64]orderdomain.Order
	payments       map[int64]paymentdomain.Payment
	shipping       map[int64]shippingdomain.Shipping
}

func newChangeSet(base *memoryState) *changeSet {
	return &changeSet{
		base:           base,
		nextOrderID:    base.nextOrderID,
		nextPaymentID:  base.nextPaymentID,
		nextShippingID: base.nextShippingID,
		orders:         map[int64]orderdomain.Order{},
		payments:       map[int64]paymentdomain.Payment{},
		shipping:       map[int64]shippingdomain.Shipping{},
	}
}

func (c *changeSet) order(id int64) (orderdomain.Order, bool) {
	if o, ok := c.orders[id]; ok {
		return o, true
	}
	o, ok := c.base.orders[id]
	return o, ok
}

func (c *changeSet) payment(orderID int64) (paymentdomain.Payment, bool) {
	if p, ok := c.payments[orderID]; ok {
		return p, true
	}
	p, ok := c.base.payments[orderID]
	return p, ok
}

func (c *changeSet) shipment(orderID int64) (shippingdomain.Shipping, bool) {
	if sh, ok := c.shipping[orderID]; ok {
		return sh, true
	}
	sh, ok := c.base.shipping[orderID]
	return sh, ok
}

// apply publishes the staged rows and counters into the committed state.
func (c *changeSet) apply() {
	c.base.nextOrderID = c.nextOrderID
	c.base.nextPaymentID = c.nextPaymentID
	c.base.nextShippingID = c.nextShippingID
	for id, o := range c.orders {
		c.base.orders[id] = o
	}
	for id, p := range c.payments {
		c.base.payments[id] = p
	}
	for id, sh := range c.shipping {
		c.base.shipping[id] = sh
	}
}

func copyOrder(o orderdomain.Order) orderdomain.Order {
	o.Items = append([]orderdomain.OrderItem(nil), o.Items...)
	return o
}

func copyShipping(sh shippingdomain.Shipping) shippingdomain.Shipping {
	if sh.ShippedAt != nil {
		t := *sh.ShippedAt
		sh.ShippedAt = &t
	}
	return sh
}

// MemoryUnitOfWork keeps orders, payments and shipments in process memory.
// Each Do stages its writes in a change set that is applied only on
// success, so a failed unit leaves nothing behind. Units are serialized.
type MemoryUnitOfWork struct {
	mu    sync.Mutex
	state *memoryState
}

// NewMemoryUnitOfWork returns an empty in-memory store.
func NewMemoryUnitOfWork() *MemoryUnitOfWork {
	return &MemoryUnitOfWork{state: newMemoryState()}
}

// Do implements ports.UnitOfWork.
func (u *MemoryUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, stores ports.Stores) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return database.Wrap("tx.begin", err)
	}

	staged := newChangeSet(u.state)
	stores := ports.Stores{
		Orders:   &memoryOrderStore{state: staged},
		Payments: &memoryPaymentStore{state: staged},
		Shipping: &memoryShippingStore{state: staged},
	}

	if err := fn(ctx, stores); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return database.Wrap("tx.commit", err)
	}

	staged.apply()
	return nil
}

type memoryOrderStore struct {
	state *changeSet
}

func (s *memoryOrderStore) Create(ctx context.Context, o *orderdomain.Order) (int64, error) {
	s.state.nextOrderID++
	o.ID = s.state.nextOrderID
	s.state.orders[o.ID] = copyOrder(*o)
	return o.ID, nil
}

func (s *memoryOrderStore) UpdateStatus(ctx context.Context, orderID int64, status orderdomain.OrderStatus) error {
	o, ok := s.state.order(orderID)
	if !ok {
		return database.NotFound("orders.update_status")
	}
	o.Status = status
	s.state.orders[orderID] = o
	return nil
}

func (s *memoryOrderStore) Get(ctx context.Context, orderID int64) (*orderdomain.Order, error) {
	o, ok := s.state.order(orderID)
	if !ok {
		return nil, database.NotFound("orders.get")
	}
	o = copyOrder(o)
	return &o, nil
}

type memoryPaymentStore struct {
	state *changeSet
}

func (s *memoryPaymentStore) Create(ctx context.Context, p *paymentdomain.Payment) (int64, error) {
	if err := checkOrderRef(s.state, "payments.create", p.OrderID); err != nil {
		return 0, err
	}
	if _, exists := s.state.payment(p.OrderID); exists {
		return 0, &database.Error{Op: "payments.create", Kind: database.KindConstraint, Err: errDuplicate}
	}
	s.state.nextPaymentID++
	p.ID = s.state.nextPaymentID
	s.state.payments[p.OrderID] = *p
	return p.ID, nil
}

func (s *memoryPaymentStore) UpdateStatus(ctx context.Context, orderID int64, status paymentdomain.PaymentStatus) error {
	p, ok := s.state.payment(orderID)
	if !ok {
		return database.NotFound("payments.update_status")
	}
	p.Status = status
	s.state.payments[orderID] = p
	return nil
}

func (s *memoryPaymentStore) GetByOrderID(ctx context.Context, orderID int64) (*paymentdomain.Payment, error) {
	p, ok := s.state.payment(orderID)
	if !ok {
		return nil, database.NotFound("payments.get")
	}
	return &p, nil
}

type memoryShippingStore struct {
	state *changeSet
}

func (s *memoryShippingStore) Create(ctx context.Context, sh *shippingdomain.Shipping) (int64, error) {
	if err := checkOrderRef(s.state, "shipping.create", sh.OrderID); err != nil {
		return 0, err
	}
	if _, exists := s.state.shipment(sh.OrderID); exists {
		return 0, &database.Error{Op: "shipping.create", Kind: database.KindConstraint, Err: errDuplicate}
	}
	s.state.nextShippingID++
	sh.ID = s.state.nextShippingID
	s.state.shipping[sh.OrderID] = copyShipping(*sh)
	return sh.ID, nil
}

func (s *memoryShippingStore) Update(ctx context.Context, sh *shippingdomain.Shipping) error {
	current, ok := s.state.shipment(sh.OrderID)
	if !ok {
		return database.NotFound("shipping.update")
	}
	updated := copyShipping(*sh)
	updated.ID = current.ID
	s.state.shipping[sh.OrderID] = updated
	return nil
}

func (s *memoryShippingStore) GetByOrderID(ctx context.Context, orderID int64) (*shippingdomain.Shipping, error) {
	sh, ok := s.state.shipment(orderID)
	if !ok {
		return nil, database.NotFound("shipping.get")
	}
	sh = copyShipping(sh)
	return &sh, nil
}

func checkOrderRef(state *changeSet, op string, orderID int64) error {
	if _, ok := state.order(orderID); !ok {
		return &database.Error{Op: op, Kind: database.KindConstraint, Err: errMissingOrder}
	}
	return nil
}
