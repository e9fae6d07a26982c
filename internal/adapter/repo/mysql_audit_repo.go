package repo

import (
	"context"
	"database/sql"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/domain"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/usecase"
)

type MySQLAuditRepo struct{ db *sql.DB }

func NewMySQLAuditRepo(db *sql.DB) *MySQLAuditRepo { return &MySQLAuditRepo{db: db} }

var _ usecase.AuditRepo = (*MySQLAuditRepo)(nil)

const sessionCols = `id, COALESCE(customer_id,''), session_key, ip, user_agent, device, login_at, logout_at`

func (r *MySQLAuditRepo) CreateSession(ctx context.Context, s *domain.AuditSession) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO audit_sessions (id, customer_id, session_key, ip, user_agent, device, login_at)
VALUES (?,?,?,?,?,?,?)`,
		s.ID, nullIfEmpty(s.CustomerID), s.SessionKey, s.IP, s.UserAgent, s.Device, s.LoginAt)
	return err
}

func (r *MySQLAuditRepo) GetSession(ctx context.Context, id string) (*domain.AuditSession, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+sessionCols+` FROM audit_sessions WHERE id=?`, id)
	return scanSession(row)
}

func (r *MySQLAuditRepo) FindSessionByKey(ctx context.Context, key string) (*domain.AuditSession, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+sessionCols+` FROM audit_sessions WHERE session_key=? ORDER BY login_at DESC LIMIT 1`, key)
	return scanSession(row)
}

func (r *MySQLAuditRepo) InsertEvent(ctx context.Context, e *domain.AuditEvent) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO audit_events (id, session_id, action, method, path, status_code, detail, recorded_at)
VALUES (?,?,?,?,?,?,?,?)`,
		e.ID, e.SessionID, e.Action, e.Method, e.Path, e.StatusCode, e.Detail, e.RecordedAt)
	return err
}

func (r *MySQLAuditRepo) ListSessions(ctx context.Context) ([]domain.AuditSession, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+sessionCols+` FROM audit_sessions ORDER BY login_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *MySQLAuditRepo) ListEvents(ctx context.Context, sessionID string) ([]domain.AuditEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, session_id, action, method, path, COALESCE(status_code,0), detail, recorded_at
FROM audit_events WHERE session_id=? ORDER BY recorded_at DESC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditEvent
	for rows.Next() {
		var e domain.AuditEvent
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Action, &e.Method, &e.Path,
			&e.StatusCode, &e.Detail, &e.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanSession(row rowScanner) (*domain.AuditSession, error) {
	var s domain.AuditSession
	var logout sql.NullTime
	if err := row.Scan(&s.ID, &s.CustomerID, &s.SessionKey, &s.IP, &s.UserAgent,
		&s.Device, &s.LoginAt, &logout); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if logout.Valid {
		s.LogoutAt = &logout.Time
	}
	return &s, nil
}
