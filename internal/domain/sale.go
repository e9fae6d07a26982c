package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type SaleStatus string

const (
	SalePending   SaleStatus = "pending"
	SaleCompleted SaleStatus = "completed"
	SaleCancelled SaleStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentSuccessful PaymentStatus = "successful"
	PaymentFailed     PaymentStatus = "failed"
)

type InvoiceStatus string

const (
	InvoiceIssued  InvoiceStatus = "issued"
	InvoiceVoided  InvoiceStatus = "voided"
	InvoicePending InvoiceStatus = "pending"
)

// Sale is a finalized, priced transaction. Immutable once completed except
// through explicit lifecycle transitions.
type Sale struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"customer_id"`
	SoldAt        time.Time       `json:"sold_at"`
	PaymentMethod string          `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
	Status        SaleStatus      `json:"status"`
}

// SaleLine copies quantity and unit price from the cart line at checkout
// time; it never re-reads the catalog price.
type SaleLine struct {
	ID        string          `json:"id"`
	SaleID    string          `json:"sale_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// Payment is one-to-one with Sale.
type Payment struct {
	ID          string          `json:"id"`
	SaleID      string          `json:"sale_id"`
	Method      string          `json:"method"`
	Amount      decimal.Decimal `json:"amount"`
	PaidAt      time.Time       `json:"paid_at"`
	Status      PaymentStatus   `json:"status"`
	ExternalRef string          `json:"external_ref,omitempty"`
}

// Invoice is one-to-one with Sale. Total = Subtotal - Discount, clamped at
// zero.
type Invoice struct {
	ID            string          `json:"id"`
	SaleID        string          `json:"sale_id"`
	Number        string          `json:"number"`
	IssuedAt      time.Time       `json:"issued_at"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	Status        InvoiceStatus   `json:"status"`
	Notes         string          `json:"notes,omitempty"`
}

// InvoiceNumber derives a deterministic, globally-unique invoice number from
// the sale id.
func InvoiceNumber(saleID string) string {
	return "F-" + strings.ToUpper(strings.ReplaceAll(saleID, "-", ""))
}

// ChargeTotal applies an absolute discount to a subtotal, clamped at zero.
func ChargeTotal(subtotal, discount decimal.Decimal) decimal.Decimal {
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}
