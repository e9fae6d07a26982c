package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/usecase"
)

// SalesHandler is the read side of the ledger. Sales, payments and invoices
// are created exclusively by checkout; these endpoints only list and fetch.
type SalesHandler struct {
	repo usecase.SaleRepo
}

func NewSalesHandler(repo usecase.SaleRepo) *SalesHandler {
	return &SalesHandler{repo: repo}
}

func (h *SalesHandler) ListSales(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	sales, err := h.repo.ListSales(ctx, c.Query("customer_id"))
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

// GetSale returns the sale with its lines, payment and invoice in the same
// wire shape checkout responds with.
func (h *SalesHandler) GetSale(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	id := c.Param("id")
	sale, err := h.repo.GetSale(ctx, id)
	if err != nil {
		writeRepoError(c, err)
		return
	}
	lines, err := h.repo.GetSaleLines(ctx, id)
	if err != nil {
		writeRepoError(c, err)
		return
	}
	payment, err := h.repo.GetPayment(ctx, id)
	if err != nil {
		writeRepoError(c, err)
		return
	}
	invoice, err := h.repo.GetInvoice(ctx, id)
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCheckoutResp(sale, lines, payment, invoice))
}

func (h *SalesHandler) ListPayments(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	payments, err := h.repo.ListPayments(ctx, c.Query("customer_id"))
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (h *SalesHandler) ListInvoices(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	invoices, err := h.repo.ListInvoices(ctx, c.Query("customer_id"))
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}
