package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/domain"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/usecase"
)

// mysqlStore implements usecase.Store on one open transaction. The FOR
// UPDATE queries serialize concurrent checkouts and cart mutations touching
// the same rows; products are locked in ascending id order.
type mysqlStore struct{ tx *sql.Tx }

var _ usecase.Store = (*mysqlStore)(nil)

const cartCols = `id, customer_id, status, created_at, updated_at`

func (s *mysqlStore) GetActiveCart(ctx context.Context, customerID string) (*domain.Cart, error) {
	return s.activeCart(ctx, customerID, "")
}

func (s *mysqlStore) LockActiveCart(ctx context.Context, customerID string) (*domain.Cart, error) {
	return s.activeCart(ctx, customerID, " FOR UPDATE")
}

func (s *mysqlStore) activeCart(ctx context.Context, customerID, suffix string) (*domain.Cart, error) {
	row := s.tx.QueryRowContext(ctx, `
SELECT `+cartCols+` FROM carts WHERE customer_id=? AND status='active'`+suffix, customerID)
	var c domain.Cart
	if err := row.Scan(&c.ID, &c.CustomerID, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNoActiveCart
		}
		return nil, err
	}
	return &c, nil
}

func (s *mysqlStore) CreateCart(ctx context.Context, c *domain.Cart) error {
	_, err := s.tx.ExecContext(ctx, `
INSERT INTO carts (id, customer_id, status, created_at, updated_at)
VALUES (?,?,?,?,?)`, c.ID, c.CustomerID, c.Status, c.CreatedAt, c.UpdatedAt)
	if isDuplicate(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

func (s *mysqlStore) CloseCart(ctx context.Context, cartID string) error {
	res, err := s.tx.ExecContext(ctx, `
UPDATE carts SET status='closed', updated_at=NOW(3) WHERE id=?`, cartID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const lineCols = `id, cart_id, product_id, quantity, unit_price`

func (s *mysqlStore) ListCartLines(ctx context.Context, cartID string) ([]domain.CartLine, error) {
	return s.cartLines(ctx, cartID, "")
}

func (s *mysqlStore) LockCartLines(ctx context.Context, cartID string) ([]domain.CartLine, error) {
	return s.cartLines(ctx, cartID, " FOR UPDATE")
}

func (s *mysqlStore) cartLines(ctx context.Context, cartID, suffix string) ([]domain.CartLine, error) {
	rows, err := s.tx.QueryContext(ctx, `
SELECT `+lineCols+` FROM cart_lines WHERE cart_id=? ORDER BY id`+suffix, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var l domain.CartLine
		if err := rows.Scan(&l.ID, &l.CartID, &l.ProductID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// LockCartLine returns (nil, nil) when the cart has no line for the product.
func (s *mysqlStore) LockCartLine(ctx context.Context, cartID, productID string) (*domain.CartLine, error) {
	row := s.tx.QueryRowContext(ctx, `
SELECT `+lineCols+` FROM cart_lines WHERE cart_id=? AND product_id=? FOR UPDATE`, cartID, productID)
	var l domain.CartLine
	if err := row.Scan(&l.ID, &l.CartID, &l.ProductID, &l.Quantity, &l.UnitPrice); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (s *mysqlStore) InsertCartLine(ctx context.Context, l *domain.CartLine) error {
	_, err := s.tx.ExecContext(ctx, `
INSERT INTO cart_lines (id, cart_id, product_id, quantity, unit_price)
VALUES (?,?,?,?,?)`, l.ID, l.CartID, l.ProductID, l.Quantity, l.UnitPrice)
	if isDuplicate(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

func (s *mysqlStore) UpdateCartLine(ctx context.Context, l *domain.CartLine) error {
	_, err := s.tx.ExecContext(ctx, `
UPDATE cart_lines SET quantity=?, unit_price=? WHERE id=?`, l.Quantity, l.UnitPrice, l.ID)
	return err
}

func (s *mysqlStore) DeleteCartLine(ctx context.Context, lineID string) error {
	_, err := s.tx.ExecContext(ctx, `DELETE FROM cart_lines WHERE id=?`, lineID)
	return err
}

func (s *mysqlStore) DeleteCartLines(ctx context.Context, cartID string) error {
	_, err := s.tx.ExecContext(ctx, `DELETE FROM cart_lines WHERE cart_id=?`, cartID)
	return err
}

func (s *mysqlStore) LockProducts(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	if len(ids) == 0 {
		return map[string]domain.Product{}, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.tx.QueryContext(ctx, `
SELECT id, COALESCE(category_id,''), name, description, brand, model, price, stock, image_url, status, created_at
FROM products WHERE id IN (`+placeholders(len(ids))+`) ORDER BY id FOR UPDATE`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]domain.Product, len(ids))
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.Brand, &p.Model,
			&p.Price, &p.Stock, &p.ImageURL, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

// placeholders returns n comma-joined "?" markers for an IN clause.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// DecrementStock is guarded by stock >= qty on top of the row lock; zero
// affected rows means the invariant would break and the tx must roll back.
func (s *mysqlStore) DecrementStock(ctx context.Context, productID string, qty int) error {
	res, err := s.tx.ExecContext(ctx, `
UPDATE products SET stock = stock - ? WHERE id=? AND stock >= ?`, qty, productID, qty)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("stock conflict for product %s", productID)
	}
	return nil
}

func (s *mysqlStore) InsertSale(ctx context.Context, sale *domain.Sale) error {
	_, err := s.tx.ExecContext(ctx, `
INSERT INTO sales (id, customer_id, sold_at, payment_method, total, status)
VALUES (?,?,?,?,?,?)`, sale.ID, sale.CustomerID, sale.SoldAt, sale.PaymentMethod, sale.Total, sale.Status)
	return err
}

func (s *mysqlStore) InsertSaleLine(ctx context.Context, l *domain.SaleLine) error {
	_, err := s.tx.ExecContext(ctx, `
INSERT INTO sale_lines (id, sale_id, product_id, quantity, unit_price, total)
VALUES (?,?,?,?,?,?)`, l.ID, l.SaleID, l.ProductID, l.Quantity, l.UnitPrice, l.Total)
	return err
}

func (s *mysqlStore) InsertPayment(ctx context.Context, p *domain.Payment) error {
	_, err := s.tx.ExecContext(ctx, `
INSERT INTO payments (id, sale_id, method, amount, paid_at, status, external_ref)
VALUES (?,?,?,?,?,?,?)`, p.ID, p.SaleID, p.Method, p.Amount, p.PaidAt, p.Status, p.ExternalRef)
	return err
}

func (s *mysqlStore) InsertInvoice(ctx context.Context, inv *domain.Invoice) error {
	_, err := s.tx.ExecContext(ctx, `
INSERT INTO invoices (id, sale_id, number, issued_at, subtotal, discount, total, payment_method, status, notes)
VALUES (?,?,?,?,?,?,?,?,?,?)`,
		inv.ID, inv.SaleID, inv.Number, inv.IssuedAt, inv.Subtotal, inv.Discount, inv.Total,
		inv.PaymentMethod, inv.Status, inv.Notes)
	if isDuplicate(err) {
		return domain.ErrAlreadyExists
	}
	return err
}
