package repo

import (
	"context"
	"database/sql"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/domain"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/usecase"
)

// MySQLSaleRepo is the read side of the sales ledger; writes only happen
// inside the checkout unit of work.
type MySQLSaleRepo struct{ db *sql.DB }

func NewMySQLSaleRepo(db *sql.DB) *MySQLSaleRepo { return &MySQLSaleRepo{db: db} }

var _ usecase.SaleRepo = (*MySQLSaleRepo)(nil)

const saleCols = `id, customer_id, sold_at, payment_method, total, status`

func (r *MySQLSaleRepo) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+saleCols+` FROM sales WHERE id=?`, id)
	var s domain.Sale
	if err := row.Scan(&s.ID, &s.CustomerID, &s.SoldAt, &s.PaymentMethod, &s.Total, &s.Status); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *MySQLSaleRepo) GetSaleLines(ctx context.Context, saleID string) ([]domain.SaleLine, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, sale_id, product_id, quantity, unit_price, total
FROM sale_lines WHERE sale_id=? ORDER BY id`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SaleLine
	for rows.Next() {
		var l domain.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Total); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

const paymentCols = `id, sale_id, method, amount, paid_at, status, external_ref`

func (r *MySQLSaleRepo) GetPayment(ctx context.Context, saleID string) (*domain.Payment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+paymentCols+` FROM payments WHERE sale_id=?`, saleID)
	var p domain.Payment
	if err := row.Scan(&p.ID, &p.SaleID, &p.Method, &p.Amount, &p.PaidAt, &p.Status, &p.ExternalRef); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

const invoiceCols = `id, sale_id, number, issued_at, subtotal, discount, total, payment_method, status, notes`

func (r *MySQLSaleRepo) GetInvoice(ctx context.Context, saleID string) (*domain.Invoice, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+invoiceCols+` FROM invoices WHERE sale_id=?`, saleID)
	var inv domain.Invoice
	if err := row.Scan(&inv.ID, &inv.SaleID, &inv.Number, &inv.IssuedAt, &inv.Subtotal,
		&inv.Discount, &inv.Total, &inv.PaymentMethod, &inv.Status, &inv.Notes); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// ListSales returns all sales, or one customer's when customerID is set.
func (r *MySQLSaleRepo) ListSales(ctx context.Context, customerID string) ([]domain.Sale, error) {
	q := `SELECT ` + saleCols + ` FROM sales`
	var args []any
	if customerID != "" {
		q += ` WHERE customer_id=?`
		args = append(args, customerID)
	}
	q += ` ORDER BY sold_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Sale
	for rows.Next() {
		var s domain.Sale
		if err := rows.Scan(&s.ID, &s.CustomerID, &s.SoldAt, &s.PaymentMethod, &s.Total, &s.Status); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *MySQLSaleRepo) ListPayments(ctx context.Context, customerID string) ([]domain.Payment, error) {
	q := `SELECT p.id, p.sale_id, p.method, p.amount, p.paid_at, p.status, p.external_ref
FROM payments p`
	var args []any
	if customerID != "" {
		q += ` JOIN sales s ON s.id = p.sale_id WHERE s.customer_id=?`
		args = append(args, customerID)
	}
	q += ` ORDER BY p.paid_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.Method, &p.Amount, &p.PaidAt, &p.Status, &p.ExternalRef); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *MySQLSaleRepo) ListInvoices(ctx context.Context, customerID string) ([]domain.Invoice, error) {
	q := `SELECT i.id, i.sale_id, i.number, i.issued_at, i.subtotal, i.discount, i.total, i.payment_method, i.status, i.notes
FROM invoices i`
	var args []any
	if customerID != "" {
		q += ` JOIN sales s ON s.id = i.sale_id WHERE s.customer_id=?`
		args = append(args, customerID)
	}
	q += ` ORDER BY i.issued_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Invoice
	for rows.Next() {
		var inv domain.Invoice
		if err := rows.Scan(&inv.ID, &inv.SaleID, &inv.Number, &inv.IssuedAt, &inv.Subtotal,
			&inv.Discount, &inv.Total, &inv.PaymentMethod, &inv.Status, &inv.Notes); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}
