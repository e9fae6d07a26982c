package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/domain"
)

// CartView is what the cart endpoints return: the cart row, its lines, and
// the derived total.
type CartView struct {
	Cart  *domain.Cart      `json:"cart"`
	Lines []domain.CartLine `json:"lines"`
	Total decimal.Decimal   `json:"total"`
}

// CartService owns the cart aggregate. Line mutations run in the same unit
// of work as checkout so the two can never interleave on one cart.
type CartService struct {
	customers CustomerRepo
	tx        TxManager
}

func NewCartService(customers CustomerRepo, tx TxManager) *CartService {
	return &CartService{customers: customers, tx: tx}
}

// GetOrCreateActive returns the customer's active cart, creating one if none
// exists. The unique key on (customer, active) makes the invariant hold even
// when two requests race: the loser's insert fails and it re-reads the
// winner's row.
func (svc *CartService) GetOrCreateActive(ctx context.Context, customerID string) (*CartView, error) {
	customer, err := svc.resolveCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	var view *CartView
	err = svc.tx.Do(ctx, func(ctx context.Context, s Store) error {
		cart, err := getOrCreateCart(ctx, s, customer.ID)
		if err != nil {
			return err
		}
		view, err = loadView(ctx, s, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// AddItem merges quantity into an existing line (refreshing the price
// snapshot to the product's current price) or creates a new line.
func (svc *CartService) AddItem(ctx context.Context, customerID, productID string, quantity int) (*CartView, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	customer, err := svc.resolveCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	var view *CartView
	err = svc.tx.Do(ctx, func(ctx context.Context, s Store) error {
		cart, err := getOrCreateCart(ctx, s, customer.ID)
		if err != nil {
			return err
		}

		products, err := s.LockProducts(ctx, []string{productID})
		if err != nil {
			return err
		}
		product, ok := products[productID]
		if !ok {
			return fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
		}

		line, err := s.LockCartLine(ctx, cart.ID, product.ID)
		switch {
		case err != nil:
			return err
		case line == nil:
			line = &domain.CartLine{
				ID:        uuid.NewString(),
				CartID:    cart.ID,
				ProductID: product.ID,
				Quantity:  quantity,
				UnitPrice: product.Price,
			}
			if err := s.InsertCartLine(ctx, line); err != nil {
				return fmt.Errorf("insert cart line: %w", err)
			}
		default:
			line.Quantity += quantity
			line.UnitPrice = product.Price // refresh snapshot
			if err := s.UpdateCartLine(ctx, line); err != nil {
				return fmt.Errorf("update cart line: %w", err)
			}
		}

		view, err = loadView(ctx, s, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// RemoveItem decrements the matching line, deleting it when the quantity
// drops to zero or below. The snapshot price is kept as-is; only AddItem
// refreshes it.
func (svc *CartService) RemoveItem(ctx context.Context, customerID, productID string, quantity int) (*CartView, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	customer, err := svc.resolveCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	var view *CartView
	err = svc.tx.Do(ctx, func(ctx context.Context, s Store) error {
		cart, err := s.GetActiveCart(ctx, customer.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNoActiveCart) {
				return domain.ErrLineNotFound
			}
			return err
		}

		line, err := s.LockCartLine(ctx, cart.ID, productID)
		if err != nil {
			return err
		}
		if line == nil {
			return domain.ErrLineNotFound
		}

		line.Quantity -= quantity
		if line.Quantity <= 0 {
			if err := s.DeleteCartLine(ctx, line.ID); err != nil {
				return fmt.Errorf("delete cart line: %w", err)
			}
		} else if err := s.UpdateCartLine(ctx, line); err != nil {
			return fmt.Errorf("update cart line: %w", err)
		}

		view, err = loadView(ctx, s, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Clear deletes every line, leaving the cart active and empty.
func (svc *CartService) Clear(ctx context.Context, customerID string) (*CartView, error) {
	customer, err := svc.resolveCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	var view *CartView
	err = svc.tx.Do(ctx, func(ctx context.Context, s Store) error {
		cart, err := s.LockActiveCart(ctx, customer.ID)
		if err != nil {
			return err
		}
		if err := s.DeleteCartLines(ctx, cart.ID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		view, err = loadView(ctx, s, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (svc *CartService) resolveCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	customer, err := svc.customers.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrProfileMissing
		}
		return nil, fmt.Errorf("resolve customer: %w", err)
	}
	return customer, nil
}

func getOrCreateCart(ctx context.Context, s Store, customerID string) (*domain.Cart, error) {
	cart, err := s.GetActiveCart(ctx, customerID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrNoActiveCart) {
		return nil, err
	}

	now := time.Now().UTC()
	cart = &domain.Cart{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Status:     domain.CartActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.CreateCart(ctx, cart); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// Lost the race; the other request's cart is the active one.
			return s.GetActiveCart(ctx, customerID)
		}
		return nil, fmt.Errorf("create cart: %w", err)
	}
	return cart, nil
}

func loadView(ctx context.Context, s Store, cart *domain.Cart) (*CartView, error) {
	lines, err := s.ListCartLines(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	return &CartView{Cart: cart, Lines: lines, Total: domain.CartTotal(lines)}, nil
}
