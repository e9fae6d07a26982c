package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// seedCart populates a customer with an active cart holding 2 x product A
// (10.00, stock 5) and 1 x product B (20.00, stock 1).
func seedCart(store *memStore) {
	store.products["prod-a"] = &domain.Product{
		ID: "prod-a", Name: "Keyboard", Price: dec("10.00"), Stock: 5,
		Status: domain.ProductActive,
	}
	store.products["prod-b"] = &domain.Product{
		ID: "prod-b", Name: "Monitor", Price: dec("20.00"), Stock: 1,
		Status: domain.ProductActive,
	}
	store.carts["cart-1"] = &domain.Cart{
		ID: "cart-1", CustomerID: "cust-1", Status: domain.CartActive,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	store.lines["line-a"] = &domain.CartLine{
		ID: "line-a", CartID: "cart-1", ProductID: "prod-a", Quantity: 2, UnitPrice: dec("10.00"),
	}
	store.lines["line-b"] = &domain.CartLine{
		ID: "line-b", CartID: "cart-1", ProductID: "prod-b", Quantity: 1, UnitPrice: dec("20.00"),
	}
}

func newCheckoutFixture() (*Checkout, *memStore, *capturingPublisher) {
	store := newMemStore()
	seedCart(store)
	customers := newMemCustomerRepo(&domain.Customer{ID: "cust-1", Username: "ana"})
	pub := &capturingPublisher{}
	return NewCheckout(customers, newMemTx(store), pub), store, pub
}

func TestCheckoutSuccess(t *testing.T) {
	uc, store, pub := newCheckoutFixture()

	res, err := uc.Execute(context.Background(), CheckoutInput{
		CustomerID:    "cust-1",
		PaymentMethod: "card",
		Discount:      dec("5.00"),
		ExternalRef:   "tx-123",
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	// totals come from the cart line snapshots
	assert.True(t, res.Sale.Total.Equal(dec("35.00")), "total = %s", res.Sale.Total)
	assert.True(t, res.Invoice.Subtotal.Equal(dec("40.00")))
	assert.True(t, res.Invoice.Discount.Equal(dec("5.00")))
	assert.True(t, res.Invoice.Total.Equal(dec("35.00")))
	assert.True(t, res.Payment.Amount.Equal(dec("35.00")))

	assert.Equal(t, domain.SaleCompleted, res.Sale.Status)
	assert.Equal(t, domain.PaymentSuccessful, res.Payment.Status)
	assert.Equal(t, domain.InvoiceIssued, res.Invoice.Status)
	assert.Equal(t, "tx-123", res.Payment.ExternalRef)
	assert.Equal(t, domain.InvoiceNumber(res.Sale.ID), res.Invoice.Number)
	require.Len(t, res.Lines, 2)

	// stock decremented exactly by the cart quantities
	assert.Equal(t, 3, store.products["prod-a"].Stock)
	assert.Equal(t, 0, store.products["prod-b"].Stock)

	// cart closed and emptied
	assert.Equal(t, domain.CartClosed, store.carts["cart-1"].Status)
	lines, _ := store.ListCartLines(context.Background(), "cart-1")
	assert.Empty(t, lines)

	// one sale.completed event
	require.Len(t, pub.msgs, 1)
	assert.Equal(t, res.Sale.ID, pub.msgs[0].SaleID)
	assert.Equal(t, "35.00", pub.msgs[0].Total)
}

func TestCheckoutInsufficientStock(t *testing.T) {
	uc, store, pub := newCheckoutFixture()
	store.products["prod-b"].Stock = 0

	_, err := uc.Execute(context.Background(), CheckoutInput{CustomerID: "cust-1"})

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "prod-b", stockErr.ProductID)
	assert.Equal(t, "Monitor", stockErr.ProductName)
	assert.Equal(t, 1, stockErr.Requested)
	assert.Equal(t, 0, stockErr.Available)

	// nothing changed: stock, cart, ledger
	assert.Equal(t, 5, store.products["prod-a"].Stock)
	assert.Equal(t, domain.CartActive, store.carts["cart-1"].Status)
	lines, _ := store.ListCartLines(context.Background(), "cart-1")
	assert.Len(t, lines, 2)
	assert.Empty(t, store.sales)
	assert.Empty(t, store.payments)
	assert.Empty(t, store.invoices)
	assert.Empty(t, pub.msgs)
}

// A write failing after the sale and stock decrements already happened must
// undo all of it, not just refuse the remaining writes.
func TestCheckoutRollsBackOnLateWriteFailure(t *testing.T) {
	for name, inject := range map[string]func(*memStore, error){
		"payment insert fails": func(s *memStore, err error) { s.insertPaymentErr = err },
		"invoice insert fails": func(s *memStore, err error) { s.insertInvoiceErr = err },
	} {
		t.Run(name, func(t *testing.T) {
			uc, store, pub := newCheckoutFixture()
			boom := errors.New("mysql has gone away")
			inject(store, boom)

			_, err := uc.Execute(context.Background(), CheckoutInput{CustomerID: "cust-1"})
			require.ErrorIs(t, err, boom)

			// the sale and the stock decrements that preceded the failing
			// write were rolled back with it
			assert.Equal(t, 5, store.products["prod-a"].Stock)
			assert.Equal(t, 1, store.products["prod-b"].Stock)
			assert.Equal(t, domain.CartActive, store.carts["cart-1"].Status)
			lines, _ := store.ListCartLines(context.Background(), "cart-1")
			assert.Len(t, lines, 2)
			assert.Empty(t, store.sales)
			assert.Empty(t, store.saleLines)
			assert.Empty(t, store.payments)
			assert.Empty(t, store.invoices)
			assert.Empty(t, pub.msgs)
		})
	}
}

func TestCheckoutPreconditions(t *testing.T) {
	t.Run("negative discount", func(t *testing.T) {
		uc, _, _ := newCheckoutFixture()
		_, err := uc.Execute(context.Background(), CheckoutInput{
			CustomerID: "cust-1", Discount: dec("-1"),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidDiscount)
	})

	t.Run("missing customer profile", func(t *testing.T) {
		uc, _, _ := newCheckoutFixture()
		_, err := uc.Execute(context.Background(), CheckoutInput{CustomerID: "nobody"})
		assert.ErrorIs(t, err, domain.ErrProfileMissing)
	})

	t.Run("no active cart", func(t *testing.T) {
		store := newMemStore()
		customers := newMemCustomerRepo(&domain.Customer{ID: "cust-1"})
		uc := NewCheckout(customers, newMemTx(store), nil)

		_, err := uc.Execute(context.Background(), CheckoutInput{CustomerID: "cust-1"})
		assert.ErrorIs(t, err, domain.ErrNoActiveCart)
	})

	t.Run("empty cart", func(t *testing.T) {
		uc, store, _ := newCheckoutFixture()
		require.NoError(t, store.DeleteCartLines(context.Background(), "cart-1"))

		_, err := uc.Execute(context.Background(), CheckoutInput{CustomerID: "cust-1"})
		assert.ErrorIs(t, err, domain.ErrEmptyCart)
	})
}

func TestCheckoutDiscountClampedAtZero(t *testing.T) {
	uc, _, _ := newCheckoutFixture()

	res, err := uc.Execute(context.Background(), CheckoutInput{
		CustomerID: "cust-1", Discount: dec("100.00"),
	})
	require.NoError(t, err)
	assert.True(t, res.Sale.Total.IsZero(), "total = %s", res.Sale.Total)
	assert.True(t, res.Invoice.Subtotal.Equal(dec("40.00")))
}

func TestCheckoutChargesSnapshotPrice(t *testing.T) {
	uc, store, _ := newCheckoutFixture()

	// catalog price changes after the item entered the cart
	store.products["prod-a"].Price = dec("99.00")

	res, err := uc.Execute(context.Background(), CheckoutInput{CustomerID: "cust-1"})
	require.NoError(t, err)
	assert.True(t, res.Sale.Total.Equal(dec("40.00")), "total = %s", res.Sale.Total)
}

func TestCheckoutTwiceSecondSeesNoActiveCart(t *testing.T) {
	uc, _, _ := newCheckoutFixture()

	_, err := uc.Execute(context.Background(), CheckoutInput{CustomerID: "cust-1"})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), CheckoutInput{CustomerID: "cust-1"})
	assert.ErrorIs(t, err, domain.ErrNoActiveCart)
}

func TestCheckoutConcurrentOnlyOneWins(t *testing.T) {
	uc, store, _ := newCheckoutFixture()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), CheckoutInput{CustomerID: "cust-1"})
		}(i)
	}
	wg.Wait()

	var wins, losses int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrNoActiveCart):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)

	// stock charged exactly once
	assert.Equal(t, 3, store.products["prod-a"].Stock)
	assert.Equal(t, 0, store.products["prod-b"].Stock)
	assert.Len(t, store.sales, 1)
}

func TestCheckoutPublishFailureDoesNotFailSale(t *testing.T) {
	uc, store, pub := newCheckoutFixture()
	pub.err = errors.New("broker down")

	res, err := uc.Execute(context.Background(), CheckoutInput{CustomerID: "cust-1"})
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Equal(t, domain.CartClosed, store.carts["cart-1"].Status)
}

func TestCheckoutDefaultsPaymentMethod(t *testing.T) {
	uc, _, _ := newCheckoutFixture()

	res, err := uc.Execute(context.Background(), CheckoutInput{CustomerID: "cust-1"})
	require.NoError(t, err)
	assert.Equal(t, "card", res.Sale.PaymentMethod)
	assert.Equal(t, "card", res.Payment.Method)
	assert.Equal(t, "card", res.Invoice.PaymentMethod)
}
