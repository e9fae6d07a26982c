package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/domain"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/usecase"
)

type MySQLMarketingRepo struct{ db *sql.DB }

func NewMySQLMarketingRepo(db *sql.DB) *MySQLMarketingRepo { return &MySQLMarketingRepo{db: db} }

var _ usecase.MarketingRepo = (*MySQLMarketingRepo)(nil)

const promotionCols = `id, title, description, discount_pct, starts_at, ends_at, status, created_at`

func (r *MySQLMarketingRepo) CreatePromotion(ctx context.Context, p *domain.Promotion) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO promotions (id, title, description, discount_pct, starts_at, ends_at, status, created_at)
VALUES (?,?,?,?,?,?,?,?)`,
		p.ID, p.Title, p.Description, p.DiscountPct, p.StartsAt, p.EndsAt, p.Status, p.CreatedAt)
	return err
}

func (r *MySQLMarketingRepo) ListPromotions(ctx context.Context) ([]domain.Promotion, error) {
	return r.promotions(ctx, `SELECT `+promotionCols+` FROM promotions ORDER BY created_at DESC`)
}

func (r *MySQLMarketingRepo) ListActivePromotions(ctx context.Context, at time.Time) ([]domain.Promotion, error) {
	return r.promotions(ctx, `
SELECT `+promotionCols+` FROM promotions
WHERE status='active' AND starts_at <= ? AND ends_at >= ? ORDER BY created_at DESC`, at, at)
}

func (r *MySQLMarketingRepo) promotions(ctx context.Context, q string, args ...any) ([]domain.Promotion, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Promotion
	for rows.Next() {
		var p domain.Promotion
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.DiscountPct,
			&p.StartsAt, &p.EndsAt, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *MySQLMarketingRepo) AttachProduct(ctx context.Context, promotionID, productID string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO promotion_products (promotion_id, product_id) VALUES (?,?)`, promotionID, productID)
	if isDuplicate(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *MySQLMarketingRepo) CreateNotification(ctx context.Context, n *domain.Notification) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO notifications (id, customer_id, title, message, kind, is_read, sent_at)
VALUES (?,?,?,?,?,?,?)`,
		n.ID, nullIfEmpty(n.CustomerID), n.Title, n.Message, n.Kind, n.Read, n.SentAt)
	return err
}

// ListNotifications returns one customer's notifications plus broadcasts;
// with an empty customerID it returns everything (admin view).
func (r *MySQLMarketingRepo) ListNotifications(ctx context.Context, customerID string) ([]domain.Notification, error) {
	q := `SELECT id, COALESCE(customer_id,''), title, message, kind, is_read, sent_at FROM notifications`
	var args []any
	if customerID != "" {
		q += ` WHERE customer_id=? OR customer_id IS NULL`
		args = append(args, customerID)
	}
	q += ` ORDER BY sent_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.CustomerID, &n.Title, &n.Message, &n.Kind, &n.Read, &n.SentAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *MySQLMarketingRepo) MarkNotificationRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read=TRUE WHERE id=?`, id)
	return checkAffected(res, err)
}
