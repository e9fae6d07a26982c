package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/adapter/http/middleware"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/domain"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/usecase"
)

var checkoutTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "checkout_total",
		Help: "Checkout attempts by result",
	},
	[]string{"result"},
)

type CheckoutHandler struct {
	checkout *usecase.Checkout
	sales    usecase.SaleRepo
	idem     usecase.IdempotencyStore
}

func NewCheckoutHandler(checkout *usecase.Checkout, sales usecase.SaleRepo, idem usecase.IdempotencyStore) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, sales: sales, idem: idem}
}

type checkoutReq struct {
	PaymentMethod string          `json:"payment_method"`
	Descuento     decimal.Decimal `json:"descuento"`
	ReferenciaTx  string          `json:"referencia_transaccion"`
}

type ventaWire struct {
	ID         string          `json:"id"`
	ClienteID  string          `json:"cliente_id"`
	Fecha      time.Time       `json:"fecha"`
	MetodoPago string          `json:"metodo_pago"`
	Total      string          `json:"total"`
	Estado     string          `json:"estado"`
	Detalles   []detalleWire   `json:"detalles"`
}

type detalleWire struct {
	ID             string `json:"id"`
	ProductoID     string `json:"producto_id"`
	Cantidad       int    `json:"cantidad"`
	PrecioUnitario string `json:"precio_unitario"`
	Subtotal       string `json:"subtotal"`
}

type pagoWire struct {
	ID           string    `json:"id"`
	VentaID      string    `json:"venta_id"`
	Metodo       string    `json:"metodo"`
	Monto        string    `json:"monto"`
	FechaPago    time.Time `json:"fecha_pago"`
	Estado       string    `json:"estado"`
	ReferenciaTx string    `json:"referencia_transaccion,omitempty"`
}

type facturaWire struct {
	ID           string    `json:"id"`
	VentaID      string    `json:"venta_id"`
	Numero       string    `json:"numero"`
	FechaEmision time.Time `json:"fecha_emision"`
	Subtotal     string    `json:"subtotal"`
	Descuento    string    `json:"descuento"`
	Total        string    `json:"total"`
	MetodoPago   string    `json:"metodo_pago"`
	Estado       string    `json:"estado"`
}

type checkoutResp struct {
	Venta   ventaWire   `json:"venta"`
	Pago    pagoWire    `json:"pago"`
	Factura facturaWire `json:"factura"`
}

const idemScopeCheckout = "checkout"

// Checkout converts the caller's active cart into a sale. Domain
// precondition failures come back as 400 {"detail": "..."} so storefronts
// can surface them verbatim.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	customerID := middleware.Principal(c)
	if customerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": domain.ErrProfileMissing.Error()})
		return
	}

	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	idemKey := c.GetHeader("X-Idempotency-Key")
	var idemLocked bool
	if idemKey != "" {
		done, locked := h.tryReplay(c, ctx, idemKey)
		if done {
			return
		}
		idemLocked = locked
	}

	out, err := h.checkout.Execute(ctx, usecase.CheckoutInput{
		CustomerID:    customerID,
		PaymentMethod: req.PaymentMethod,
		Discount:      req.Descuento,
		ExternalRef:   req.ReferenciaTx,
	})
	if err != nil {
		if idemLocked {
			// nothing committed, so the key must stay retryable; the lock
			// only fences concurrent in-flight duplicates
			_ = h.idem.Release(ctx, idemScopeCheckout, idemKey)
		}
		h.writeCheckoutError(c, err)
		return
	}

	if idemKey != "" && h.idem != nil {
		// losing the memo only costs a future replay, not correctness
		_ = h.idem.Remember(ctx, idemScopeCheckout, idemKey, out.Sale.ID)
	}

	checkoutTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusCreated, toCheckoutResp(out.Sale, out.Lines, out.Payment, out.Invoice))
}

// tryReplay resolves an idempotency key: a remembered sale is re-served with
// 200, a key currently held by another in-flight request yields 409. done
// reports the request was fully answered; locked reports this request now
// holds the key's lock and must release it if the checkout fails.
func (h *CheckoutHandler) tryReplay(c *gin.Context, ctx context.Context, key string) (done, locked bool) {
	if h.idem == nil {
		return false, false
	}
	saleID, found, err := h.idem.Recall(ctx, idemScopeCheckout, key)
	if err == nil && found {
		resp, err := h.reload(ctx, saleID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal error"})
			return true, false
		}
		checkoutTotal.WithLabelValues("replay").Inc()
		c.JSON(http.StatusOK, resp)
		return true, false
	}

	acquired, err := h.idem.TryLock(ctx, idemScopeCheckout, key)
	if err != nil {
		// redis being down must not block checkout
		return false, false
	}
	if !acquired {
		checkoutTotal.WithLabelValues("duplicate").Inc()
		c.JSON(http.StatusConflict, gin.H{"detail": "checkout already in progress for this key"})
		return true, false
	}
	return false, true
}

func (h *CheckoutHandler) reload(ctx context.Context, saleID string) (*checkoutResp, error) {
	sale, err := h.sales.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	lines, err := h.sales.GetSaleLines(ctx, saleID)
	if err != nil {
		return nil, err
	}
	payment, err := h.sales.GetPayment(ctx, saleID)
	if err != nil {
		return nil, err
	}
	invoice, err := h.sales.GetInvoice(ctx, saleID)
	if err != nil {
		return nil, err
	}
	resp := toCheckoutResp(sale, lines, payment, invoice)
	return &resp, nil
}

func (h *CheckoutHandler) writeCheckoutError(c *gin.Context, err error) {
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.Is(err, domain.ErrProfileMissing),
		errors.Is(err, domain.ErrNoActiveCart),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrInvalidDiscount):
		checkoutTotal.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case errors.As(err, &stockErr):
		checkoutTotal.WithLabelValues("out_of_stock").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"detail": stockErr.Error()})
	default:
		checkoutTotal.WithLabelValues("error").Inc()
		c.Error(err) //nolint:errcheck
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal error"})
	}
}

func toCheckoutResp(sale *domain.Sale, lines []domain.SaleLine, payment *domain.Payment, invoice *domain.Invoice) checkoutResp {
	detalles := make([]detalleWire, 0, len(lines))
	for _, l := range lines {
		detalles = append(detalles, detalleWire{
			ID:             l.ID,
			ProductoID:     l.ProductID,
			Cantidad:       l.Quantity,
			PrecioUnitario: l.UnitPrice.StringFixed(2),
			Subtotal:       l.Total.StringFixed(2),
		})
	}
	return checkoutResp{
		Venta: ventaWire{
			ID:         sale.ID,
			ClienteID:  sale.CustomerID,
			Fecha:      sale.SoldAt,
			MetodoPago: sale.PaymentMethod,
			Total:      sale.Total.StringFixed(2),
			Estado:     string(sale.Status),
			Detalles:   detalles,
		},
		Pago: pagoWire{
			ID:           payment.ID,
			VentaID:      payment.SaleID,
			Metodo:       payment.Method,
			Monto:        payment.Amount.StringFixed(2),
			FechaPago:    payment.PaidAt,
			Estado:       string(payment.Status),
			ReferenciaTx: payment.ExternalRef,
		},
		Factura: facturaWire{
			ID:           invoice.ID,
			VentaID:      invoice.SaleID,
			Numero:       invoice.Number,
			FechaEmision: invoice.IssuedAt,
			Subtotal:     invoice.Subtotal.StringFixed(2),
			Descuento:    invoice.Discount.StringFixed(2),
			Total:        invoice.Total.StringFixed(2),
			MetodoPago:   invoice.PaymentMethod,
			Estado:       string(invoice.Status),
		},
	}
}
