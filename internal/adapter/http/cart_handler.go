package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/adapter/http/middleware"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/domain"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/usecase"
)

type CartHandler struct {
	carts *usecase.CartService
}

func NewCartHandler(carts *usecase.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type cartItemReq struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// GetActive returns the caller's active cart, creating an empty one on first
// touch.
func (h *CartHandler) GetActive(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	view, err := h.carts.GetOrCreateActive(ctx, middleware.Principal(c))
	if err != nil {
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req cartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	view, err := h.carts.AddItem(ctx, middleware.Principal(c), req.ProductID, req.Quantity)
	if err != nil {
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	var req cartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	view, err := h.carts.RemoveItem(ctx, middleware.Principal(c), req.ProductID, req.Quantity)
	if err != nil {
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CartHandler) Clear(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	view, err := h.carts.Clear(ctx, middleware.Principal(c))
	if err != nil {
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func writeCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrProfileMissing),
		errors.Is(err, domain.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case errors.Is(err, domain.ErrNoActiveCart),
		errors.Is(err, domain.ErrLineNotFound),
		errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
	default:
		c.Error(err) //nolint:errcheck
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal error"})
	}
}

func reqCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 5*time.Second)
}
