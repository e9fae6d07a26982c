package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/domain"
)

// memStore is an in-memory Store. memTx serializes transactions on a mutex
// and restores a snapshot on error, so the fake behaves like the real thing:
// one checkout at a time per contended rows, all-or-nothing writes.
type memStore struct {
	carts     map[string]*domain.Cart
	lines     map[string]*domain.CartLine
	products  map[string]*domain.Product
	sales     map[string]*domain.Sale
	saleLines map[string]*domain.SaleLine
	payments  map[string]*domain.Payment
	invoices  map[string]*domain.Invoice

	// fault injection for mid-transaction write failures
	insertPaymentErr error
	insertInvoiceErr error
}

func newMemStore() *memStore {
	return &memStore{
		carts:     map[string]*domain.Cart{},
		lines:     map[string]*domain.CartLine{},
		products:  map[string]*domain.Product{},
		sales:     map[string]*domain.Sale{},
		saleLines: map[string]*domain.SaleLine{},
		payments:  map[string]*domain.Payment{},
		invoices:  map[string]*domain.Invoice{},
	}
}

func (m *memStore) snapshot() *memStore {
	c := newMemStore()
	for k, v := range m.carts {
		cp := *v
		c.carts[k] = &cp
	}
	for k, v := range m.lines {
		cp := *v
		c.lines[k] = &cp
	}
	for k, v := range m.products {
		cp := *v
		c.products[k] = &cp
	}
	for k, v := range m.sales {
		cp := *v
		c.sales[k] = &cp
	}
	for k, v := range m.saleLines {
		cp := *v
		c.saleLines[k] = &cp
	}
	for k, v := range m.payments {
		cp := *v
		c.payments[k] = &cp
	}
	for k, v := range m.invoices {
		cp := *v
		c.invoices[k] = &cp
	}
	return c
}

func (m *memStore) restore(s *memStore) {
	m.carts = s.carts
	m.lines = s.lines
	m.products = s.products
	m.sales = s.sales
	m.saleLines = s.saleLines
	m.payments = s.payments
	m.invoices = s.invoices
}

func (m *memStore) GetActiveCart(_ context.Context, customerID string) (*domain.Cart, error) {
	for _, c := range m.carts {
		if c.CustomerID == customerID && c.Status == domain.CartActive {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNoActiveCart
}

func (m *memStore) LockActiveCart(ctx context.Context, customerID string) (*domain.Cart, error) {
	return m.GetActiveCart(ctx, customerID)
}

func (m *memStore) CreateCart(_ context.Context, c *domain.Cart) error {
	for _, existing := range m.carts {
		if existing.CustomerID == c.CustomerID && existing.Status == domain.CartActive {
			return domain.ErrAlreadyExists
		}
	}
	cp := *c
	m.carts[c.ID] = &cp
	return nil
}

func (m *memStore) CloseCart(_ context.Context, cartID string) error {
	c, ok := m.carts[cartID]
	if !ok {
		return domain.ErrNotFound
	}
	c.Status = domain.CartClosed
	return nil
}

func (m *memStore) ListCartLines(_ context.Context, cartID string) ([]domain.CartLine, error) {
	var out []domain.CartLine
	for _, l := range m.lines {
		if l.CartID == cartID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) LockCartLines(ctx context.Context, cartID string) ([]domain.CartLine, error) {
	return m.ListCartLines(ctx, cartID)
}

func (m *memStore) LockCartLine(_ context.Context, cartID, productID string) (*domain.CartLine, error) {
	for _, l := range m.lines {
		if l.CartID == cartID && l.ProductID == productID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) InsertCartLine(_ context.Context, l *domain.CartLine) error {
	for _, existing := range m.lines {
		if existing.CartID == l.CartID && existing.ProductID == l.ProductID {
			return domain.ErrAlreadyExists
		}
	}
	cp := *l
	m.lines[l.ID] = &cp
	return nil
}

func (m *memStore) UpdateCartLine(_ context.Context, l *domain.CartLine) error {
	if _, ok := m.lines[l.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *l
	m.lines[l.ID] = &cp
	return nil
}

func (m *memStore) DeleteCartLine(_ context.Context, lineID string) error {
	delete(m.lines, lineID)
	return nil
}

func (m *memStore) DeleteCartLines(_ context.Context, cartID string) error {
	for id, l := range m.lines {
		if l.CartID == cartID {
			delete(m.lines, id)
		}
	}
	return nil
}

func (m *memStore) LockProducts(_ context.Context, ids []string) (map[string]domain.Product, error) {
	out := make(map[string]domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out[id] = *p
		}
	}
	return out, nil
}

func (m *memStore) DecrementStock(_ context.Context, productID string, qty int) error {
	p, ok := m.products[productID]
	if !ok || p.Stock < qty {
		return fmt.Errorf("stock conflict for product %s", productID)
	}
	p.Stock -= qty
	return nil
}

func (m *memStore) InsertSale(_ context.Context, s *domain.Sale) error {
	cp := *s
	m.sales[s.ID] = &cp
	return nil
}

func (m *memStore) InsertSaleLine(_ context.Context, l *domain.SaleLine) error {
	cp := *l
	m.saleLines[l.ID] = &cp
	return nil
}

func (m *memStore) InsertPayment(_ context.Context, p *domain.Payment) error {
	if m.insertPaymentErr != nil {
		return m.insertPaymentErr
	}
	cp := *p
	m.payments[p.ID] = &cp
	return nil
}

func (m *memStore) InsertInvoice(_ context.Context, inv *domain.Invoice) error {
	if m.insertInvoiceErr != nil {
		return m.insertInvoiceErr
	}
	for _, existing := range m.invoices {
		if existing.Number == inv.Number {
			return domain.ErrAlreadyExists
		}
	}
	cp := *inv
	m.invoices[inv.ID] = &cp
	return nil
}

type memTx struct {
	mu    sync.Mutex
	store *memStore
}

func newMemTx(store *memStore) *memTx { return &memTx{store: store} }

func (t *memTx) Do(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := t.store.snapshot()
	if err := fn(ctx, t.store); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

type memCustomerRepo struct {
	mu        sync.Mutex
	customers map[string]*domain.Customer
}

func newMemCustomerRepo(customers ...*domain.Customer) *memCustomerRepo {
	r := &memCustomerRepo{customers: map[string]*domain.Customer{}}
	for _, c := range customers {
		r.customers[c.ID] = c
	}
	return r
}

func (r *memCustomerRepo) Create(_ context.Context, c *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[c.ID]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *memCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCustomerRepo) List(_ context.Context) ([]domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Customer
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (r *memCustomerRepo) Update(_ context.Context, c *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

type capturingPublisher struct {
	mu   sync.Mutex
	msgs []SaleCompletedMsg
	err  error
}

func (p *capturingPublisher) PublishSaleCompleted(_ context.Context, msg SaleCompletedMsg) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}
