package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/domain"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/logging"
)

type CheckoutInput struct {
	CustomerID    string
	PaymentMethod string
	Discount      decimal.Decimal
	ExternalRef   string
}

type CheckoutResult struct {
	Sale    *domain.Sale
	Lines   []domain.SaleLine
	Payment *domain.Payment
	Invoice *domain.Invoice
}

// Checkout converts a customer's active cart into a Sale + Payment + Invoice
// in a single transaction: lock the cart and its lines, re-validate stock
// under the lock, charge the snapshot prices, decrement stock, close the
// cart. Any failure rolls everything back.
type Checkout struct {
	customers CustomerRepo
	tx        TxManager
	events    SaleEventPublisher
}

func NewCheckout(customers CustomerRepo, tx TxManager, events SaleEventPublisher) *Checkout {
	return &Checkout{customers: customers, tx: tx, events: events}
}

func (uc *Checkout) Execute(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	if in.Discount.IsNegative() {
		return nil, domain.ErrInvalidDiscount
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = "card"
	}

	customer, err := uc.customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrProfileMissing
		}
		return nil, fmt.Errorf("resolve customer: %w", err)
	}

	var res *CheckoutResult
	err = uc.tx.Do(ctx, func(ctx context.Context, s Store) error {
		cart, err := s.LockActiveCart(ctx, customer.ID)
		if err != nil {
			return err
		}

		lines, err := s.LockCartLines(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return domain.ErrEmptyCart
		}

		// Stock is validated only now, after the locks are held. Checking
		// before locking would let two concurrent checkouts both pass
		// against the same stale figure.
		products, err := s.LockProducts(ctx, productIDs(lines))
		if err != nil {
			return err
		}
		for _, l := range lines {
			p, ok := products[l.ProductID]
			if !ok {
				return fmt.Errorf("cart references product %s: %w", l.ProductID, domain.ErrNotFound)
			}
			if p.Stock < l.Quantity {
				return &domain.InsufficientStockError{
					ProductID:   p.ID,
					ProductName: p.Name,
					Requested:   l.Quantity,
					Available:   p.Stock,
				}
			}
		}

		// Charge the snapshot prices, not the live catalog prices: the
		// customer pays what they saw when the item entered the cart.
		subtotal := domain.CartTotal(lines)
		total := domain.ChargeTotal(subtotal, in.Discount)
		now := time.Now().UTC()

		sale := &domain.Sale{
			ID:            uuid.NewString(),
			CustomerID:    customer.ID,
			SoldAt:        now,
			PaymentMethod: in.PaymentMethod,
			Total:         total,
			Status:        domain.SaleCompleted,
		}
		if err := s.InsertSale(ctx, sale); err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}

		saleLines := make([]domain.SaleLine, 0, len(lines))
		for _, l := range lines {
			sl := domain.SaleLine{
				ID:        uuid.NewString(),
				SaleID:    sale.ID,
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
				Total:     l.Subtotal(),
			}
			if err := s.InsertSaleLine(ctx, &sl); err != nil {
				return fmt.Errorf("insert sale line: %w", err)
			}
			if err := s.DecrementStock(ctx, l.ProductID, l.Quantity); err != nil {
				return fmt.Errorf("decrement stock %s: %w", l.ProductID, err)
			}
			saleLines = append(saleLines, sl)
		}

		payment := &domain.Payment{
			ID:          uuid.NewString(),
			SaleID:      sale.ID,
			Method:      in.PaymentMethod,
			Amount:      total,
			PaidAt:      now,
			Status:      domain.PaymentSuccessful,
			ExternalRef: in.ExternalRef,
		}
		if err := s.InsertPayment(ctx, payment); err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}

		invoice := &domain.Invoice{
			ID:            uuid.NewString(),
			SaleID:        sale.ID,
			Number:        domain.InvoiceNumber(sale.ID),
			IssuedAt:      now,
			Subtotal:      subtotal,
			Discount:      in.Discount,
			Total:         total,
			PaymentMethod: in.PaymentMethod,
			Status:        domain.InvoiceIssued,
		}
		if err := s.InsertInvoice(ctx, invoice); err != nil {
			return fmt.Errorf("insert invoice: %w", err)
		}

		// The cart entity survives as a historical record; its lines do not.
		if err := s.CloseCart(ctx, cart.ID); err != nil {
			return fmt.Errorf("close cart: %w", err)
		}
		if err := s.DeleteCartLines(ctx, cart.ID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		res = &CheckoutResult{Sale: sale, Lines: saleLines, Payment: payment, Invoice: invoice}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publishCompleted(ctx, res)
	return res, nil
}

// publishCompleted is best-effort: the committed sale is the source of
// truth, the event only feeds the notification read model.
func (uc *Checkout) publishCompleted(ctx context.Context, res *CheckoutResult) {
	if uc.events == nil {
		return
	}
	msg := SaleCompletedMsg{
		SaleID:        res.Sale.ID,
		CustomerID:    res.Sale.CustomerID,
		InvoiceNumber: res.Invoice.Number,
		Total:         res.Sale.Total.StringFixed(2),
		PaymentMethod: res.Sale.PaymentMethod,
	}
	if err := uc.events.PublishSaleCompleted(ctx, msg); err != nil {
		logging.FromCtx(ctx).Warn("sale.completed publish failed",
			slog.String("sale_id", res.Sale.ID), slog.Any("error", err))
	}
}

func productIDs(lines []domain.CartLine) []string {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	sort.Strings(ids)
	return ids
}
