package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/domain"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/usecase"
)

type auditEntry struct {
	sessionKey string
	customerID string
	ip         string
	userAgent  string
	action     string
	method     string
	path       string
	status     int
	at         time.Time
}

// AuditRecorder writes an audit event for every mutating request. Events
// are handed off to a single background worker so the request path never
// waits on the audit tables; the channel drops entries when full rather
// than blocking the request.
type AuditRecorder struct {
	repo usecase.AuditRepo
	log  *slog.Logger

	ch   chan auditEntry
	wg   sync.WaitGroup
	once sync.Once
}

func NewAuditRecorder(repo usecase.AuditRepo, log *slog.Logger) *AuditRecorder {
	r := &AuditRecorder{
		repo: repo,
		log:  log,
		ch:   make(chan auditEntry, 256),
	}
	r.wg.Add(1)
	go r.worker()
	return r
}

// Close drains the pending entries and stops the worker.
func (r *AuditRecorder) Close() {
	r.once.Do(func() { close(r.ch) })
	r.wg.Wait()
}

// Middleware records every non-GET request made under an authenticated
// session. GET traffic is deliberately skipped to keep the trail focused
// on state changes.
func (r *AuditRecorder) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			return
		}
		key := SessionKey(c)
		if key == "" {
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		e := auditEntry{
			sessionKey: key,
			customerID: Principal(c),
			ip:         c.ClientIP(),
			userAgent:  c.Request.UserAgent(),
			action:     actionFor(c.Request.Method, path),
			method:     c.Request.Method,
			path:       path,
			status:     c.Writer.Status(),
			at:         time.Now().UTC(),
		}
		select {
		case r.ch <- e:
		default:
			r.log.Warn("audit queue full, dropping event", "path", e.path)
		}
	}
}

func (r *AuditRecorder) worker() {
	defer r.wg.Done()
	for e := range r.ch {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := r.record(ctx, e); err != nil {
			r.log.Error("audit record failed", "err", err, "session_key", e.sessionKey)
		}
		cancel()
	}
}

func (r *AuditRecorder) record(ctx context.Context, e auditEntry) error {
	sess, err := r.repo.FindSessionByKey(ctx, e.sessionKey)
	if errors.Is(err, domain.ErrNotFound) {
		sess = &domain.AuditSession{
			ID:         uuid.NewString(),
			CustomerID: e.customerID,
			SessionKey: e.sessionKey,
			IP:         e.ip,
			UserAgent:  e.userAgent,
			Device:     domain.DeviceFromUserAgent(e.userAgent),
			LoginAt:    e.at,
		}
		if err := r.repo.CreateSession(ctx, sess); err != nil {
			// concurrent first request may have created it already
			if !errors.Is(err, domain.ErrAlreadyExists) {
				return err
			}
			if sess, err = r.repo.FindSessionByKey(ctx, e.sessionKey); err != nil {
				return err
			}
		}
	} else if err != nil {
		return err
	}

	return r.repo.InsertEvent(ctx, &domain.AuditEvent{
		ID:         uuid.NewString(),
		SessionID:  sess.ID,
		Action:     e.action,
		Method:     e.method,
		Path:       e.path,
		StatusCode: e.status,
		RecordedAt: e.at,
	})
}

// actionFor derives a readable action label from the route, e.g.
// "POST /v1/checkout" -> "checkout.create".
func actionFor(method, path string) string {
	trimmed := strings.TrimPrefix(path, "/v1/")
	trimmed = strings.ReplaceAll(trimmed, "/", ".")
	trimmed = strings.ReplaceAll(trimmed, ":", "")
	verb := map[string]string{
		"POST":   "create",
		"PUT":    "update",
		"PATCH":  "update",
		"DELETE": "delete",
	}[method]
	if verb == "" {
		verb = strings.ToLower(method)
	}
	return trimmed + "." + verb
}
