package repo

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/domain"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/usecase"
)

type MySQLCatalogRepo struct{ db *sql.DB }

func NewMySQLCatalogRepo(db *sql.DB) *MySQLCatalogRepo { return &MySQLCatalogRepo{db: db} }

var _ usecase.CatalogRepo = (*MySQLCatalogRepo)(nil)

func (r *MySQLCatalogRepo) CreateCategory(ctx context.Context, c *domain.Category) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO categories (id, name, description) VALUES (?,?,?)`, c.ID, c.Name, c.Description)
	return err
}

func (r *MySQLCatalogRepo) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, description FROM categories WHERE id=?`, id)
	var c domain.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *MySQLCatalogRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *MySQLCatalogRepo) UpdateCategory(ctx context.Context, c *domain.Category) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE categories SET name=?, description=? WHERE id=?`, c.Name, c.Description, c.ID)
	return checkAffected(res, err)
}

func (r *MySQLCatalogRepo) DeleteCategory(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id=?`, id)
	return checkAffected(res, err)
}

const productCols = `id, COALESCE(category_id,''), name, description, brand, model, price, stock, image_url, status, created_at`

func (r *MySQLCatalogRepo) CreateProduct(ctx context.Context, p *domain.Product) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO products (id, category_id, name, description, brand, model, price, stock, image_url, status, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		p.ID, nullIfEmpty(p.CategoryID), p.Name, p.Description, p.Brand, p.Model,
		p.Price, p.Stock, p.ImageURL, p.Status, p.CreatedAt)
	return err
}

func (r *MySQLCatalogRepo) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productCols+` FROM products WHERE id=?`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return p, err
}

func (r *MySQLCatalogRepo) ListProducts(ctx context.Context, f usecase.ProductFilter) ([]domain.Product, error) {
	q := `SELECT ` + productCols + ` FROM products`
	var conds []string
	var args []any
	if f.CategoryID != "" {
		conds = append(conds, "category_id=?")
		args = append(args, f.CategoryID)
	}
	if f.Status != "" {
		conds = append(conds, "status=?")
		args = append(args, f.Status)
	}
	if f.Query != "" {
		conds = append(conds, "(name LIKE ? OR description LIKE ? OR brand LIKE ? OR model LIKE ?)")
		like := "%" + f.Query + "%"
		args = append(args, like, like, like, like)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *MySQLCatalogRepo) UpdateProduct(ctx context.Context, p *domain.Product) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE products SET category_id=?, name=?, description=?, brand=?, model=?, price=?, stock=?, image_url=?, status=?
WHERE id=?`,
		nullIfEmpty(p.CategoryID), p.Name, p.Description, p.Brand, p.Model,
		p.Price, p.Stock, p.ImageURL, p.Status, p.ID)
	return checkAffected(res, err)
}

func (r *MySQLCatalogRepo) DeleteProduct(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=?`, id)
	return checkAffected(res, err)
}

// AddStock tops up inventory atomically (inventory.restocked events).
func (r *MySQLCatalogRepo) AddStock(ctx context.Context, productID string, qty int) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE products SET stock = stock + ? WHERE id=?`, qty, productID)
	return checkAffected(res, err)
}

type rowScanner interface{ Scan(dest ...any) error }

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.Brand, &p.Model,
		&p.Price, &p.Stock, &p.ImageURL, &p.Status, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func checkAffected(res sql.Result, err error) error {
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
