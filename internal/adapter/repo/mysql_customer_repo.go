package repo

import (
	"context"
	"database/sql"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/domain"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/usecase"
)

type MySQLCustomerRepo struct{ db *sql.DB }

func NewMySQLCustomerRepo(db *sql.DB) *MySQLCustomerRepo { return &MySQLCustomerRepo{db: db} }

var _ usecase.CustomerRepo = (*MySQLCustomerRepo)(nil)

const customerCols = `id, username, email, first_name, last_name, tax_id, phone, address, city, created_at`

func (r *MySQLCustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO customers (id, username, email, first_name, last_name, tax_id, phone, address, city, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?)`,
		c.ID, c.Username, c.Email, c.FirstName, c.LastName, c.TaxID, c.Phone, c.Address, c.City, c.CreatedAt)
	if isDuplicate(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *MySQLCustomerRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+customerCols+` FROM customers WHERE id=?`, id)
	return scanCustomer(row)
}

func (r *MySQLCustomerRepo) List(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+customerCols+` FROM customers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *MySQLCustomerRepo) Update(ctx context.Context, c *domain.Customer) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE customers SET email=?, first_name=?, last_name=?, tax_id=?, phone=?, address=?, city=?
WHERE id=?`, c.Email, c.FirstName, c.LastName, c.TaxID, c.Phone, c.Address, c.City, c.ID)
	return checkAffected(res, err)
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var c domain.Customer
	if err := row.Scan(&c.ID, &c.Username, &c.Email, &c.FirstName, &c.LastName,
		&c.TaxID, &c.Phone, &c.Address, &c.City, &c.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
