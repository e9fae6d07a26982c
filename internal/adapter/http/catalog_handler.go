package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/domain"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/logging"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/usecase"
)

type CatalogHandler struct {
	repo  usecase.CatalogRepo
	cache usecase.ProductCache
}

func NewCatalogHandler(repo usecase.CatalogRepo, cache usecase.ProductCache) *CatalogHandler {
	return &CatalogHandler{repo: repo, cache: cache}
}

type categoryReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cat := &domain.Category{ID: uuid.NewString(), Name: req.Name, Description: req.Description}
	if err := h.repo.CreateCategory(ctx, cat); err != nil {
		writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *CatalogHandler) GetCategory(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	cat, err := h.repo.GetCategory(ctx, c.Param("id"))
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	cats, err := h.repo.ListCategories(ctx)
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cat := &domain.Category{ID: c.Param("id"), Name: req.Name, Description: req.Description}
	if err := h.repo.UpdateCategory(ctx, cat); err != nil {
		writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.repo.DeleteCategory(ctx, c.Param("id")); err != nil {
		writeRepoError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type productReq struct {
	CategoryID  string          `json:"category_id"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Brand       string          `json:"brand"`
	Model       string          `json:"model"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"image_url"`
	Status      string          `json:"status"`
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	if req.Price.IsNegative() || req.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "price and stock must be zero or positive"})
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p := productFromReq(uuid.NewString(), req)
	p.CreatedAt = time.Now().UTC()
	if err := h.repo.CreateProduct(ctx, p); err != nil {
		writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// GetProduct reads through the cache: hits skip MySQL entirely, misses
// populate the cache for the next reader.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")
	ctx, cancel := reqCtx(c)
	defer cancel()

	if h.cache != nil {
		if p, ok, err := h.cache.Get(ctx, id); err == nil && ok {
			c.JSON(http.StatusOK, p)
			return
		}
	}

	p, err := h.repo.GetProduct(ctx, id)
	if err != nil {
		writeRepoError(c, err)
		return
	}
	if h.cache != nil {
		if err := h.cache.Set(ctx, p); err != nil {
			logging.FromCtx(ctx).Warn("product cache set failed", "id", id, "err", err)
		}
	}
	c.JSON(http.StatusOK, p)
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	filter := usecase.ProductFilter{
		CategoryID: c.Query("category_id"),
		Status:     c.Query("status"),
		Query:      c.Query("q"),
	}
	products, err := h.repo.ListProducts(ctx, filter)
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	if req.Price.IsNegative() || req.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "price and stock must be zero or positive"})
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p := productFromReq(c.Param("id"), req)
	if err := h.repo.UpdateProduct(ctx, p); err != nil {
		writeRepoError(c, err)
		return
	}
	h.invalidate(c, p.ID)
	c.JSON(http.StatusOK, p)
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	id := c.Param("id")
	if err := h.repo.DeleteProduct(ctx, id); err != nil {
		writeRepoError(c, err)
		return
	}
	h.invalidate(c, id)
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) invalidate(c *gin.Context, id string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(c.Request.Context(), id); err != nil {
		logging.From(c).Warn("product cache invalidate failed", "id", id, "err", err)
	}
}

func productFromReq(id string, req productReq) *domain.Product {
	status := domain.ProductStatus(req.Status)
	if status == "" {
		status = domain.ProductActive
	}
	return &domain.Product{
		ID:          id,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Brand:       req.Brand,
		Model:       req.Model,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		Status:      status,
	}
}

func writeRepoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"detail": err.Error()})
	default:
		c.Error(err) //nolint:errcheck
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal error"})
	}
}
