package repo

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/usecase"
)

// SQLReportRepo serves the reporting read model with sqlx struct scanning.
type SQLReportRepo struct{ db *sqlx.DB }

func NewSQLReportRepo(db *sqlx.DB) *SQLReportRepo { return &SQLReportRepo{db: db} }

var _ usecase.ReportRepo = (*SQLReportRepo)(nil)

// SalesPerDay aggregates completed sales by calendar day.
func (r *SQLReportRepo) SalesPerDay(ctx context.Context, from, to *time.Time) ([]usecase.SalesPerDayRow, error) {
	q := `SELECT DATE_FORMAT(sold_at, '%Y-%m-%d') AS sale_date, CAST(SUM(total) AS CHAR) AS total
FROM sales WHERE status='completed'`
	var conds []string
	var args []any
	if from != nil {
		conds = append(conds, "DATE(sold_at) >= ?")
		args = append(args, from.Format("2006-01-02"))
	}
	if to != nil {
		conds = append(conds, "DATE(sold_at) <= ?")
		args = append(args, to.Format("2006-01-02"))
	}
	if len(conds) > 0 {
		q += " AND " + strings.Join(conds, " AND ")
	}
	q += " GROUP BY sale_date ORDER BY sale_date"

	rows := []usecase.SalesPerDayRow{}
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}
