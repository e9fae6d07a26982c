package domain

import (
	"strings"
	"time"
)

// AuditSession groups the audit trail of one authenticated principal
// (token issue to expiry).
type AuditSession struct {
	ID         string     `json:"id"`
	CustomerID string     `json:"customer_id,omitempty"`
	SessionKey string     `json:"session_key"`
	IP         string     `json:"ip,omitempty"`
	UserAgent  string     `json:"user_agent,omitempty"`
	Device     string     `json:"device,omitempty"`
	LoginAt    time.Time  `json:"login_at"`
	LogoutAt   *time.Time `json:"logout_at,omitempty"`
}

// AuditEvent records one request inside a session.
type AuditEvent struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Action     string    `json:"action"`
	Method     string    `json:"method,omitempty"`
	Path       string    `json:"path,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

func DeviceFromUserAgent(ua string) string {
	if ua == "" {
		return ""
	}
	low := strings.ToLower(ua)
	switch {
	case strings.Contains(low, "mobile"):
		return "mobile"
	case strings.Contains(low, "tablet"), strings.Contains(low, "ipad"):
		return "tablet"
	}
	return "desktop"
}
