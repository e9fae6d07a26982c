package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/domain"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/usecase"
)

type CustomerHandler struct {
	repo usecase.CustomerRepo
}

func NewCustomerHandler(repo usecase.CustomerRepo) *CustomerHandler {
	return &CustomerHandler{repo: repo}
}

type customerReq struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	TaxID     string `json:"tax_id"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req customerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cust := customerFromReq(uuid.NewString(), req)
	cust.CreatedAt = time.Now().UTC()
	if err := h.repo.Create(ctx, cust); err != nil {
		writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cust)
}

func (h *CustomerHandler) Get(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	cust, err := h.repo.GetByID(ctx, c.Param("id"))
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, cust)
}

func (h *CustomerHandler) List(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	customers, err := h.repo.List(ctx)
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *CustomerHandler) Update(c *gin.Context) {
	var req customerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cust := customerFromReq(c.Param("id"), req)
	if err := h.repo.Update(ctx, cust); err != nil {
		writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, cust)
}

func customerFromReq(id string, req customerReq) *domain.Customer {
	return &domain.Customer{
		ID:        id,
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		TaxID:     req.TaxID,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
	}
}
