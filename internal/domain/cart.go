package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartStatus string

const (
	CartActive    CartStatus = "active"
	CartClosed    CartStatus = "closed"
	CartCancelled CartStatus = "cancelled"
)

// Cart is a customer's in-progress selection. Invariant: at most one active
// cart per customer, enforced by a unique key in storage. A closed cart is
// never resurrected; the next cart interaction lazily creates a fresh one.
type Cart struct {
	ID         string     `json:"id"`
	CustomerID string     `json:"customer_id"`
	Status     CartStatus `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CartLine holds one product in a cart. UnitPrice is a snapshot taken when
// the product was added (or last re-added) and is what the customer is
// charged at checkout, regardless of later catalog price changes.
type CartLine struct {
	ID        string          `json:"id"`
	CartID    string          `json:"cart_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartTotal is derived, never stored.
func CartTotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
