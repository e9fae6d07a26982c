package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/domain"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/usecase"
)

// stubStore implements just the slice of usecase.Store that checkout
// touches; the embedded interface panics loudly if anything else is called.
type stubStore struct {
	usecase.Store

	cart     *domain.Cart
	lines    []domain.CartLine
	products map[string]domain.Product

	sales    []*domain.Sale
	payments []*domain.Payment
	invoices []*domain.Invoice
}

func (s *stubStore) LockActiveCart(context.Context, string) (*domain.Cart, error) {
	if s.cart == nil || s.cart.Status != domain.CartActive {
		return nil, domain.ErrNoActiveCart
	}
	return s.cart, nil
}

func (s *stubStore) LockCartLines(context.Context, string) ([]domain.CartLine, error) {
	return s.lines, nil
}

func (s *stubStore) LockProducts(_ context.Context, ids []string) (map[string]domain.Product, error) {
	out := map[string]domain.Product{}
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (s *stubStore) DecrementStock(_ context.Context, id string, qty int) error {
	p := s.products[id]
	p.Stock -= qty
	s.products[id] = p
	return nil
}

func (s *stubStore) InsertSale(_ context.Context, sale *domain.Sale) error {
	s.sales = append(s.sales, sale)
	return nil
}
func (s *stubStore) InsertSaleLine(context.Context, *domain.SaleLine) error { return nil }
func (s *stubStore) InsertPayment(_ context.Context, p *domain.Payment) error {
	s.payments = append(s.payments, p)
	return nil
}
func (s *stubStore) InsertInvoice(_ context.Context, inv *domain.Invoice) error {
	s.invoices = append(s.invoices, inv)
	return nil
}
func (s *stubStore) CloseCart(context.Context, string) error {
	s.cart.Status = domain.CartClosed
	return nil
}
func (s *stubStore) DeleteCartLines(context.Context, string) error {
	s.lines = nil
	return nil
}

type stubTx struct{ store *stubStore }

func (t stubTx) Do(ctx context.Context, fn func(ctx context.Context, s usecase.Store) error) error {
	return fn(ctx, t.store)
}

type stubCustomers struct{ known map[string]bool }

func (r stubCustomers) Create(context.Context, *domain.Customer) error { return nil }
func (r stubCustomers) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	if !r.known[id] {
		return nil, domain.ErrNotFound
	}
	return &domain.Customer{ID: id}, nil
}
func (r stubCustomers) List(context.Context) ([]domain.Customer, error)  { return nil, nil }
func (r stubCustomers) Update(context.Context, *domain.Customer) error   { return nil }

func newCheckoutTestStore() *stubStore {
	d := decimal.RequireFromString
	return &stubStore{
		cart: &domain.Cart{ID: "cart-1", CustomerID: "cust-1", Status: domain.CartActive},
		lines: []domain.CartLine{
			{ID: "l1", CartID: "cart-1", ProductID: "prod-a", Quantity: 2, UnitPrice: d("10.00")},
			{ID: "l2", CartID: "cart-1", ProductID: "prod-b", Quantity: 1, UnitPrice: d("20.00")},
		},
		products: map[string]domain.Product{
			"prod-a": {ID: "prod-a", Name: "Keyboard", Price: d("10.00"), Stock: 5},
			"prod-b": {ID: "prod-b", Name: "Monitor", Price: d("20.00"), Stock: 1},
		},
	}
}

func checkoutRouter(store *stubStore, principal string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	uc := usecase.NewCheckout(stubCustomers{known: map[string]bool{"cust-1": true}}, stubTx{store: store}, nil)
	h := NewCheckoutHandler(uc, nil, nil)

	r := gin.New()
	r.POST("/v1/checkout", func(c *gin.Context) {
		if principal != "" {
			c.Set("principal", principal)
		}
		c.Next()
	}, h.Checkout)
	return r
}

func postCheckout(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCheckoutEndpointSuccess(t *testing.T) {
	store := newCheckoutTestStore()
	r := checkoutRouter(store, "cust-1")

	w := postCheckout(r, `{"payment_method":"efectivo","descuento":"5.00","referencia_transaccion":"tx-9"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Venta struct {
			Total    string `json:"total"`
			Estado   string `json:"estado"`
			Detalles []struct {
				ProductoID     string `json:"producto_id"`
				Cantidad       int    `json:"cantidad"`
				PrecioUnitario string `json:"precio_unitario"`
				Subtotal       string `json:"subtotal"`
			} `json:"detalles"`
		} `json:"venta"`
		Pago struct {
			Monto        string `json:"monto"`
			Estado       string `json:"estado"`
			ReferenciaTx string `json:"referencia_transaccion"`
		} `json:"pago"`
		Factura struct {
			Numero    string `json:"numero"`
			Subtotal  string `json:"subtotal"`
			Descuento string `json:"descuento"`
			Total     string `json:"total"`
		} `json:"factura"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "35.00", resp.Venta.Total)
	assert.Equal(t, "completed", resp.Venta.Estado)
	require.Len(t, resp.Venta.Detalles, 2)
	assert.Equal(t, "10.00", resp.Venta.Detalles[0].PrecioUnitario)
	assert.Equal(t, "20.00", resp.Venta.Detalles[0].Subtotal)

	assert.Equal(t, "35.00", resp.Pago.Monto)
	assert.Equal(t, "successful", resp.Pago.Estado)
	assert.Equal(t, "tx-9", resp.Pago.ReferenciaTx)

	assert.True(t, strings.HasPrefix(resp.Factura.Numero, "F-"))
	assert.Equal(t, "40.00", resp.Factura.Subtotal)
	assert.Equal(t, "5.00", resp.Factura.Descuento)
	assert.Equal(t, "35.00", resp.Factura.Total)

	// side effects took place
	assert.Equal(t, 3, store.products["prod-a"].Stock)
	assert.Equal(t, domain.CartClosed, store.cart.Status)
	assert.Empty(t, store.lines)
}

func TestCheckoutEndpointDomainErrors(t *testing.T) {
	cases := []struct {
		name   string
		setup  func(*stubStore)
		body   string
		detail string
	}{
		{
			name:   "empty cart",
			setup:  func(s *stubStore) { s.lines = nil },
			body:   `{}`,
			detail: "cart is empty",
		},
		{
			name:   "no active cart",
			setup:  func(s *stubStore) { s.cart.Status = domain.CartClosed },
			body:   `{}`,
			detail: "no active cart",
		},
		{
			name: "insufficient stock",
			setup: func(s *stubStore) {
				p := s.products["prod-b"]
				p.Stock = 0
				s.products["prod-b"] = p
			},
			body:   `{}`,
			detail: "insufficient stock for Monitor",
		},
		{
			name:   "negative discount",
			setup:  func(*stubStore) {},
			body:   `{"descuento":"-1"}`,
			detail: "discount must be zero or positive",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newCheckoutTestStore()
			tc.setup(store)
			r := checkoutRouter(store, "cust-1")

			w := postCheckout(r, tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Contains(t, resp["detail"], tc.detail)
		})
	}
}

func TestCheckoutEndpointMissingProfile(t *testing.T) {
	r := checkoutRouter(newCheckoutTestStore(), "")

	w := postCheckout(r, `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no customer profile")
}

type stubIdem struct {
	remembered map[string]string
	locked     bool
}

func (s *stubIdem) TryLock(context.Context, string, string) (bool, error) {
	if s.locked {
		return false, nil
	}
	s.locked = true
	return true, nil
}
func (s *stubIdem) Release(context.Context, string, string) error {
	s.locked = false
	return nil
}
func (s *stubIdem) Remember(_ context.Context, _, key, value string) error {
	s.remembered[key] = value
	return nil
}
func (s *stubIdem) Recall(_ context.Context, _, key string) (string, bool, error) {
	v, ok := s.remembered[key]
	return v, ok, nil
}

func TestCheckoutEndpointIdempotencyConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newCheckoutTestStore()
	uc := usecase.NewCheckout(stubCustomers{known: map[string]bool{"cust-1": true}}, stubTx{store: store}, nil)
	idem := &stubIdem{remembered: map[string]string{}, locked: true}
	h := NewCheckoutHandler(uc, nil, idem)

	r := gin.New()
	r.POST("/v1/checkout", func(c *gin.Context) { c.Set("principal", "cust-1") }, h.Checkout)

	req := httptest.NewRequest(http.MethodPost, "/v1/checkout", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Idempotency-Key", "key-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	// the underlying checkout never ran
	assert.Equal(t, domain.CartActive, store.cart.Status)
	assert.Empty(t, store.sales)
}

func TestCheckoutEndpointKeyRetryableAfterFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newCheckoutTestStore()
	p := store.products["prod-b"]
	p.Stock = 0
	store.products["prod-b"] = p

	uc := usecase.NewCheckout(stubCustomers{known: map[string]bool{"cust-1": true}}, stubTx{store: store}, nil)
	idem := &stubIdem{remembered: map[string]string{}}
	h := NewCheckoutHandler(uc, nil, idem)

	r := gin.New()
	r.POST("/v1/checkout", func(c *gin.Context) { c.Set("principal", "cust-1") }, h.Checkout)

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/checkout", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Idempotency-Key", "key-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do()
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "insufficient stock")
	assert.False(t, idem.locked, "failed checkout must not keep holding the key")

	// restock and resubmit the same key: this is a fresh attempt, not a
	// duplicate of an in-flight one
	p.Stock = 1
	store.products["prod-b"] = p

	w = do()
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, store.sales, 1)
	assert.Equal(t, store.sales[0].ID, idem.remembered["key-1"])
}
