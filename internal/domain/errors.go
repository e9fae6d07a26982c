package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the generic lookup failure used by every repository.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists maps unique-key violations (duplicate active cart,
	// duplicate invoice number, ...).
	ErrAlreadyExists = errors.New("already exists")

	// Checkout precondition failures, in the order they are evaluated.
	ErrProfileMissing  = errors.New("this user has no customer profile")
	ErrNoActiveCart    = errors.New("no active cart")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidDiscount = errors.New("discount must be zero or positive")

	// Cart mutation failures.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrLineNotFound    = errors.New("product is not in the cart")
)

// InsufficientStockError reports the first product whose stock cannot cover
// the requested quantity. Checkout aborts without partial changes.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (requested %d, available %d)",
		e.ProductName, e.Requested, e.Available)
}
