package usecase

import (
	"context"
	"time"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/domain"
)

// Store is the transactional surface the cart and checkout use cases run
// against. Every method executes inside the transaction opened by
// TxManager.Do; Lock* methods take row-level exclusive locks
// (SELECT ... FOR UPDATE) held until commit or rollback.
type Store interface {
	// Cart rows.
	GetActiveCart(ctx context.Context, customerID string) (*domain.Cart, error)
	LockActiveCart(ctx context.Context, customerID string) (*domain.Cart, error)
	CreateCart(ctx context.Context, c *domain.Cart) error
	CloseCart(ctx context.Context, cartID string) error

	// Cart lines.
	ListCartLines(ctx context.Context, cartID string) ([]domain.CartLine, error)
	LockCartLines(ctx context.Context, cartID string) ([]domain.CartLine, error)
	LockCartLine(ctx context.Context, cartID, productID string) (*domain.CartLine, error)
	InsertCartLine(ctx context.Context, l *domain.CartLine) error
	UpdateCartLine(ctx context.Context, l *domain.CartLine) error
	DeleteCartLine(ctx context.Context, lineID string) error
	DeleteCartLines(ctx context.Context, cartID string) error

	// Products. LockProducts locks in ascending id order so concurrent
	// checkouts touching overlapping products acquire locks in the same
	// order.
	LockProducts(ctx context.Context, ids []string) (map[string]domain.Product, error)
	DecrementStock(ctx context.Context, productID string, qty int) error

	// Sales ledger.
	InsertSale(ctx context.Context, s *domain.Sale) error
	InsertSaleLine(ctx context.Context, l *domain.SaleLine) error
	InsertPayment(ctx context.Context, p *domain.Payment) error
	InsertInvoice(ctx context.Context, inv *domain.Invoice) error
}

// TxManager runs fn as one all-or-nothing unit of work: either every write
// commits or none does. All acquired row locks are released on every exit
// path.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}

type CustomerRepo interface {
	Create(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	Update(ctx context.Context, c *domain.Customer) error
}

type CatalogRepo interface {
	CreateCategory(ctx context.Context, c *domain.Category) error
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, id string) error

	CreateProduct(ctx context.Context, p *domain.Product) error
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, f ProductFilter) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
	AddStock(ctx context.Context, productID string, qty int) error
}

type ProductFilter struct {
	CategoryID string
	Status     string
	Query      string
}

// SaleRepo is the read side of the sales ledger.
type SaleRepo interface {
	GetSale(ctx context.Context, id string) (*domain.Sale, error)
	GetSaleLines(ctx context.Context, saleID string) ([]domain.SaleLine, error)
	GetPayment(ctx context.Context, saleID string) (*domain.Payment, error)
	GetInvoice(ctx context.Context, saleID string) (*domain.Invoice, error)
	ListSales(ctx context.Context, customerID string) ([]domain.Sale, error)
	ListPayments(ctx context.Context, customerID string) ([]domain.Payment, error)
	ListInvoices(ctx context.Context, customerID string) ([]domain.Invoice, error)
}

type MarketingRepo interface {
	CreatePromotion(ctx context.Context, p *domain.Promotion) error
	ListPromotions(ctx context.Context) ([]domain.Promotion, error)
	ListActivePromotions(ctx context.Context, at time.Time) ([]domain.Promotion, error)
	AttachProduct(ctx context.Context, promotionID, productID string) error

	CreateNotification(ctx context.Context, n *domain.Notification) error
	ListNotifications(ctx context.Context, customerID string) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
}

type AuditRepo interface {
	CreateSession(ctx context.Context, s *domain.AuditSession) error
	GetSession(ctx context.Context, id string) (*domain.AuditSession, error)
	FindSessionByKey(ctx context.Context, key string) (*domain.AuditSession, error)
	InsertEvent(ctx context.Context, e *domain.AuditEvent) error
	ListSessions(ctx context.Context) ([]domain.AuditSession, error)
	ListEvents(ctx context.Context, sessionID string) ([]domain.AuditEvent, error)
}

// SaleEventPublisher emits sale.completed events after commit (best effort).
type SaleEventPublisher interface {
	PublishSaleCompleted(ctx context.Context, msg SaleCompletedMsg) error
}

type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Release(ctx context.Context, scope, key string) error
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

// ProductCache is a read-through cache for catalog lookups; never consulted
// by checkout, which always reads locked rows.
type ProductCache interface {
	Get(ctx context.Context, id string) (*domain.Product, bool, error)
	Set(ctx context.Context, p *domain.Product) error
	Invalidate(ctx context.Context, id string) error
}
