package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/adapter/http/middleware"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/domain"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/usecase"
)

type MarketingHandler struct {
	repo usecase.MarketingRepo
}

func NewMarketingHandler(repo usecase.MarketingRepo) *MarketingHandler {
	return &MarketingHandler{repo: repo}
}

type promotionReq struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	StartsAt    time.Time       `json:"starts_at" binding:"required"`
	EndsAt      time.Time       `json:"ends_at" binding:"required"`
}

func (h *MarketingHandler) CreatePromotion(c *gin.Context) {
	var req promotionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	if !req.EndsAt.After(req.StartsAt) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "ends_at must be after starts_at"})
		return
	}
	if req.DiscountPct.IsNegative() || req.DiscountPct.GreaterThan(decimal.NewFromInt(100)) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "discount_pct must be between 0 and 100"})
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p := &domain.Promotion{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		DiscountPct: req.DiscountPct,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Status:      domain.PromotionActive,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.repo.CreatePromotion(ctx, p); err != nil {
		writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *MarketingHandler) ListPromotions(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	promos, err := h.repo.ListPromotions(ctx)
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, promos)
}

// ListActivePromotions returns promotions running right now: status active
// and the current time inside the start/end window.
func (h *MarketingHandler) ListActivePromotions(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	promos, err := h.repo.ListActivePromotions(ctx, time.Now().UTC())
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, promos)
}

type attachProductReq struct {
	ProductID string `json:"product_id" binding:"required"`
}

func (h *MarketingHandler) AttachProduct(c *gin.Context) {
	var req attachProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.repo.AttachProduct(ctx, c.Param("id"), req.ProductID); err != nil {
		writeRepoError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type notificationReq struct {
	CustomerID string `json:"customer_id"` // empty = broadcast
	Title      string `json:"title" binding:"required"`
	Message    string `json:"message" binding:"required"`
	Kind       string `json:"kind"`
}

func (h *MarketingHandler) SendNotification(c *gin.Context) {
	var req notificationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	kind := domain.NotificationKind(req.Kind)
	if kind == "" {
		kind = domain.NotificationAlert
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	n := &domain.Notification{
		ID:         uuid.NewString(),
		CustomerID: req.CustomerID,
		Title:      req.Title,
		Message:    req.Message,
		Kind:       kind,
		SentAt:     time.Now().UTC(),
	}
	if err := h.repo.CreateNotification(ctx, n); err != nil {
		writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

// MyNotifications returns the caller's notifications plus broadcasts.
func (h *MarketingHandler) MyNotifications(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	notifs, err := h.repo.ListNotifications(ctx, middleware.Principal(c))
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifs)
}

func (h *MarketingHandler) MarkNotificationRead(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.repo.MarkNotificationRead(ctx, c.Param("id")); err != nil {
		writeRepoError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
